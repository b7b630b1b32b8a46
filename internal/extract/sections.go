package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookawards/harvester/internal/award"
	"github.com/bookawards/harvester/internal/fetcher"
)

// Long-form prose fields are capped at these lengths.
const (
	maxProseLen    = 500
	maxBenefitsLen = 300
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// topicText harvests prose for a topic with the two-pronged
// heuristic: elements whose class contains a topic keyword, plus the
// next sibling block of any h2-h4 heading mentioning the topic.
func topicText(p *fetcher.Page, classWords, headingWords []string, maxLen int) string {
	var parts []string

	classedSections(p.Doc(), "div, section, p", classWords).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})

	p.Doc().Find("h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		heading := strings.ToLower(h.Text())
		for _, w := range headingWords {
			if !strings.Contains(heading, w) {
				continue
			}
			next := h.NextAllFiltered("p, div, ul, ol").First()
			if t := strings.TrimSpace(next.Text()); t != "" {
				parts = append(parts, t)
			}
			break
		}
	})

	joined := whitespaceRe.ReplaceAllString(strings.Join(parts, " "), " ")
	return award.Truncate(strings.TrimSpace(joined), maxLen)
}

// Eligibility extracts who-can-enter prose.
func Eligibility(p *fetcher.Page) string {
	return topicText(p,
		[]string{"eligibility", "guidelines", "rules", "criteria"},
		[]string{"eligibility", "who can enter", "requirements"},
		maxProseLen)
}

// Procedures extracts how-to-enter prose.
func Procedures(p *fetcher.Page) string {
	return topicText(p,
		[]string{"how to enter", "submission", "apply", "procedure"},
		[]string{"how to enter", "submission", "apply", "procedure"},
		maxProseLen)
}

// JudgingCriteria extracts how-entries-are-judged prose.
func JudgingCriteria(p *fetcher.Page) string {
	return topicText(p,
		[]string{"judging", "criteria", "evaluation"},
		[]string{"judging", "criteria", "evaluation", "how entries are judged"},
		maxProseLen)
}

var benefitKeywords = []string{
	"recognition", "exposure", "promotion", "publicity", "media coverage",
	"certificate", "trophy", "medal", "seal", "sticker", "badge",
}

// Benefits collects fragments mentioning non-monetary perks.
func Benefits(p *fetcher.Page) string {
	var parts []string
	p.Doc().Find("p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		lower := strings.ToLower(text)
		for _, kw := range benefitKeywords {
			if strings.Contains(lower, kw) {
				parts = append(parts, text)
				break
			}
		}
	})

	joined := whitespaceRe.ReplaceAllString(strings.Join(parts, " "), " ")
	return award.Truncate(strings.TrimSpace(joined), maxBenefitsLen)
}
