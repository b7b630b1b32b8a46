// Package extract holds the stateless field extractors and the link
// role classifier. Every extractor is a pure function over a parsed
// page: a heuristic miss yields the field's documented default, never
// an error.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookawards/harvester/internal/fetcher"
)

// UnknownName is the sentinel used when no name can be extracted.
const UnknownName = "Unknown Award"

var nameSuffixes = []string{
	"- Official Website", "| Official Site", "Official Website",
	"Official Site", "Official Page",
	"Home Page", "Homepage", "Home", "| Apply Now", "- Apply Today",
}

// CleanName strips boilerplate suffixes and surrounding punctuation
// from a raw page or search-result title.
func CleanName(raw string) string {
	cleaned := raw
	for _, suffix := range nameSuffixes {
		cleaned = strings.ReplaceAll(cleaned, suffix, "")
	}
	return strings.Trim(cleaned, " -|:,.—–")
}

// Name extracts the award name: cleaned title text, else the first
// h1/h2 heading, else the "Unknown Award" sentinel.
func Name(p *fetcher.Page) string {
	if title := p.Title(); title != "" {
		if cleaned := CleanName(title); cleaned != "" {
			return cleaned
		}
	}
	for _, tag := range []string{"h1", "h2"} {
		if heading := strings.TrimSpace(p.Doc().Find(tag).First().Text()); heading != "" {
			return heading
		}
	}
	return UnknownName
}

type categoryBucket struct {
	name     string
	keywords []string
}

// Bucket order is significant: the first bucket with a keyword hit
// wins.
var categoryBuckets = []categoryBucket{
	{"Fiction", []string{"fiction", "novel", "short story", "stories"}},
	{"Non-fiction", []string{"non-fiction", "nonfiction", "memoir", "biography", "essay"}},
	{"Poetry", []string{"poetry", "poem", "verse"}},
	{"Children's", []string{"children", "young adult", "ya", "middle grade", "picture book"}},
	{"Multiple", []string{"multiple categories", "various categories"}},
}

// DefaultCategory is returned when no bucket keyword appears.
const DefaultCategory = "Non-fiction"

// Category assigns the award to the first keyword bucket present in
// the page text.
func Category(p *fetcher.Page) string {
	text := p.LowerText()
	for _, bucket := range categoryBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(text, kw) {
				return bucket.name
			}
		}
	}
	return DefaultCategory
}

var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)deadline[:\s]*([A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
	regexp.MustCompile(`(?i)entries close[:\s]*([A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
	regexp.MustCompile(`(?i)submission deadline[:\s]*([A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
	regexp.MustCompile(`(?i)due by[:\s]*([A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
	regexp.MustCompile(`(?i)closes on[:\s]*([A-Za-z]+\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}-\d{1,2}-\d{2,4})`),
}

// Deadline returns the first deadline-looking date in the page text.
func Deadline(p *fetcher.Page) string {
	return firstSubmatch(p.Text(), deadlinePatterns)
}

const money = `[$€£]\d{1,3}(?:,\d{3})*(?:\.\d{2})?`

var prizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(` + money + `)`),
	regexp.MustCompile(`(?i)prize of (` + money + `)`),
	regexp.MustCompile(`(?i)award of (` + money + `)`),
	regexp.MustCompile(`(?i)cash prize of (` + money + `)`),
	regexp.MustCompile(`(?i)grand prize[:\s]*(` + money + `)`),
}

// PrizeAmount returns the first currency amount in the page text.
func PrizeAmount(p *fetcher.Page) string {
	return firstSubmatch(p.Text(), prizePatterns)
}

var feePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(entry fee|submission fee|application fee)[:\s]*(` + money + `)`),
	regexp.MustCompile(`(?i)fee[:\s]*(` + money + `)`),
	regexp.MustCompile(`(?i)(` + money + `) (?:entry fee|submission fee|application fee)`),
}

// ApplicationFee returns the first fee-labeled currency amount.
func ApplicationFee(p *fetcher.Page) string {
	text := p.Text()
	for _, re := range feePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// Two-group patterns carry the amount in the second group.
		if len(m) > 2 && strings.Contains(strings.ToLower(m[1]), "fee") {
			return m[2]
		}
		return m[1]
	}
	return ""
}

var (
	statusOpenRe     = regexp.MustCompile(`(submissions? (now )?open|entries? (now )?open|apply now)`)
	statusClosedRe   = regexp.MustCompile(`(submissions? closed|entries? closed|no longer accepting)`)
	statusUpcomingRe = regexp.MustCompile(`(upcoming|coming soon|next deadline|will open)`)
)

// Status classifies the award status. Silence defaults to "Open":
// an optimistic bias, not a neutral absence marker.
func Status(p *fetcher.Page) string {
	text := p.LowerText()
	switch {
	case statusOpenRe.MatchString(text):
		return "Open"
	case statusClosedRe.MatchString(text):
		return "Closed"
	case statusUpcomingRe.MatchString(text):
		return "Upcoming"
	}
	return "Open"
}

var (
	copyrightRe = regexp.MustCompile(`©\s*\d{4}\s*([^.]+)`)
	presenterRe = regexp.MustCompile(`(?i)(?:presented by|organized by|sponsored by|a program of)\s+([^.]+)`)
)

// Organization extracts the awarding organization from the footer
// copyright notice, else from a "presented by" phrase inside an
// about-classed section.
func Organization(p *fetcher.Page) string {
	footer := p.Doc().Find("footer").First()
	if footer.Length() > 0 {
		if m := copyrightRe.FindStringSubmatch(footer.Text()); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	var org string
	classedSections(p.Doc(), "div, section", []string{"about"}).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := presenterRe.FindStringSubmatch(s.Text()); m != nil {
			org = strings.TrimSpace(m[1])
			return false
		}
		return true
	})
	return org
}

func firstSubmatch(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// classedSections selects elements whose class attribute textually
// contains any of the given words.
func classedSections(doc *goquery.Document, selector string, words []string) *goquery.Selection {
	return doc.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok {
			return false
		}
		class = strings.ToLower(class)
		for _, w := range words {
			if strings.Contains(class, w) {
				return true
			}
		}
		return false
	})
}
