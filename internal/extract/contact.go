package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookawards/harvester/internal/fetcher"
)

// Contact bundles the contact sub-fields extracted from a page.
// Each sub-field is first-match-wins and independently optional.
type Contact struct {
	Person  string
	Email   string
	Phone   string
	Address string
}

var (
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe  = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?(\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`)
	personRe = regexp.MustCompile(`(?i:contact|coordinator|director|manager):\s*([A-Z][a-z]+\s+[A-Z][a-z]+)`)

	usZipRe      = regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(-\d{4})?\b`)
	caPostalRe   = regexp.MustCompile(`\b[A-Z]\d[A-Z]\s+\d[A-Z]\d\b`)
	addressWords = []string{"address", "location"}
)

// ContactInfo scans the page for one email, one phone number, a
// labeled contact person inside contact-classed sections, and a
// postal address inside address/location-classed sections.
func ContactInfo(p *fetcher.Page) Contact {
	var c Contact
	text := p.Text()

	if m := emailRe.FindString(text); m != "" {
		c.Email = m
	}
	if m := phoneRe.FindStringSubmatch(text); m != nil {
		c.Phone = strings.TrimSpace(m[1] + m[2])
	}

	classedSections(p.Doc(), "div, section, p", []string{"contact"}).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if m := personRe.FindStringSubmatch(s.Text()); m != nil {
				c.Person = strings.TrimSpace(m[1])
				return false
			}
			return true
		})

	classedSections(p.Doc(), "div, section, p", addressWords).
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			t := strings.TrimSpace(s.Text())
			if usZipRe.MatchString(t) || caPostalRe.MatchString(t) {
				c.Address = t
				return false
			}
			return true
		})

	return c
}
