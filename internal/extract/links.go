package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookawards/harvester/internal/fetcher"
)

// Role labels a related page reachable from a seed page. Roles are
// advisory hints for which extractors to re-run, not guarantees of
// content type.
type Role string

// The closed set of related-page roles.
const (
	RoleGuidelines Role = "guidelines"
	RoleFAQ        Role = "faq"
	RoleWinners    Role = "winners"
	RoleAbout      Role = "about"
	RoleContact    Role = "contact"
)

type roleKeywords struct {
	role     Role
	keywords []string
}

// Role table order doubles as the related-page visit order.
var roleTable = []roleKeywords{
	{RoleGuidelines, []string{"guidelines", "rules", "how to enter", "submission", "apply", "entry"}},
	{RoleFAQ, []string{"faq", "frequently asked", "questions"}},
	{RoleWinners, []string{"winners", "past winners", "previous winners", "laureates"}},
	{RoleAbout, []string{"about", "about us", "history", "mission"}},
	{RoleContact, []string{"contact", "contact us", "get in touch"}},
}

// Roles returns the role set in table order.
func Roles() []Role {
	out := make([]Role, 0, len(roleTable))
	for _, entry := range roleTable {
		out = append(out, entry.role)
	}
	return out
}

// ClassifyLinks inspects every anchor on the page and assigns at most
// one absolute URL per role. The first anchor matching a role wins,
// in page order; later anchors never displace an assignment.
func ClassifyLinks(p *fetcher.Page, baseURL string) map[Role]string {
	assigned := make(map[Role]string)

	p.Doc().Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}

		text := strings.ToLower(strings.TrimSpace(a.Text()))
		lowerHref := strings.ToLower(href)

		for _, entry := range roleTable {
			if !matchesAny(text, lowerHref, entry.keywords) {
				continue
			}
			if _, taken := assigned[entry.role]; !taken {
				assigned[entry.role] = ResolveURL(baseURL, href)
			}
			break
		}
	})

	return assigned
}

func matchesAny(text, href string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) || strings.Contains(href, kw) {
			return true
		}
	}
	return false
}
