package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookawards/harvester/internal/award"
	"github.com/bookawards/harvester/internal/fetcher"
)

var celebrationKeywords = []string{
	"ceremony", "gala", "event", "celebration", "award dinner",
	"reception", "in person", "in-person",
}

// Celebration reports whether the page mentions an in-person event.
// Absence of any signal implies "No": unlike ISBN, a site that never
// mentions a ceremony is assumed not to hold one.
func Celebration(p *fetcher.Page) award.YesNo {
	text := p.LowerText()
	for _, kw := range celebrationKeywords {
		if strings.Contains(text, kw) {
			return award.Yes
		}
	}
	return award.No
}

var (
	isbnRequiredRe = regexp.MustCompile(`isbn (is )?(required|necessary|needed)`)
	isbnOptionalRe = regexp.MustCompile(`isbn (is )?(optional|not required|not necessary)`)
)

// ISBNRequired returns Yes/No when the page discusses ISBNs and
// Unknown otherwise. Silence stays unknown here: pages that never
// mention ISBNs genuinely tell us nothing.
func ISBNRequired(p *fetcher.Page) award.YesNo {
	text := p.LowerText()
	if isbnRequiredRe.MatchString(text) || strings.Contains(text, "isbn required") {
		return award.Yes
	}
	if isbnOptionalRe.MatchString(text) {
		return award.No
	}
	return award.Unknown
}

var categoryCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+) categories`),
	regexp.MustCompile(`(?i)(\d+) award categories`),
	regexp.MustCompile(`(?i)categories \((\d+)\)`),
}

// CategoryCount extracts the number of award categories, falling back
// to counting items of a category-classed list.
func CategoryCount(p *fetcher.Page) string {
	if n := firstSubmatch(p.Text(), categoryCountPatterns); n != "" {
		return n
	}
	list := classedSections(p.Doc(), "ul, ol", []string{"category", "categories"}).First()
	if list.Length() > 0 {
		return strconv.Itoa(list.Find("li").Length())
	}
	return ""
}

var geoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)open to (?:authors|publishers) (?:from|in) ([^.]+)`),
	regexp.MustCompile(`(?i)(?:only|exclusively) for (?:authors|publishers) (?:from|in) ([^.]+)`),
	regexp.MustCompile(`(?i)restricted to (?:authors|publishers) (?:from|in) ([^.]+)`),
}

var geoOpenRe = regexp.MustCompile(`(?i)\b(international|worldwide|global)\b`)

// Geographic extracts entry-region restrictions; pages advertising an
// international scope yield the explicit no-restriction marker.
func Geographic(p *fetcher.Page) string {
	text := p.Text()
	for _, re := range geoPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if geoOpenRe.MatchString(text) {
		return "No geographic restrictions"
	}
	return ""
}

type formatBucket struct {
	name     string
	keywords []string
}

var formatBuckets = []formatBucket{
	{"Print", []string{"print", "hardcover", "paperback", "physical copy"}},
	{"Digital", []string{"digital", "e-book", "ebook", "electronic", "pdf", "epub", "mobi"}},
	{"Audio", []string{"audio", "audiobook"}},
}

// Formats lists every accepted-format bucket present in the page
// text, joined in table order.
func Formats(p *fetcher.Page) string {
	text := p.LowerText()
	var matched []string
	for _, bucket := range formatBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, bucket.name)
				break
			}
		}
	}
	return strings.Join(matched, ", ")
}

var winnerKeywords = []string{"winners", "past winners", "previous winners", "laureates", "honorees"}

// PastWinnersURL finds the first anchor advertising past winners and
// resolves it against the page's base URL.
func PastWinnersURL(p *fetcher.Page, baseURL string) string {
	for _, kw := range winnerKeywords {
		var found string
		p.Doc().Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if !strings.Contains(strings.ToLower(a.Text()), kw) {
				return true
			}
			href, _ := a.Attr("href")
			if href == "" {
				return true
			}
			found = ResolveURL(baseURL, href)
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// ResolveURL resolves a possibly relative href against a base URL.
// Unparseable inputs fall back to the href itself.
func ResolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
