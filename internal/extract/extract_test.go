package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookawards/harvester/internal/fetcher"
)

func page(t *testing.T, html string) *fetcher.Page {
	t.Helper()
	p, err := fetcher.NewPage("https://example-award.org/", []byte(html))
	require.NoError(t, err)
	return p
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Best Fiction Prize — Official Website":  "Best Fiction Prize",
		"Best Fiction Prize - Official Website":  "Best Fiction Prize",
		"Axiom Business Book Awards | Apply Now": "Axiom Business Book Awards",
		"Indie Excellence Home Page":             "Indie Excellence",
		"  Plain Name  ":                         "Plain Name",
	}
	for in, want := range cases {
		require.Equal(t, want, CleanName(in), in)
	}
}

func TestNameFallbacks(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><head><title>Best Fiction Prize — Official Website</title></head><body></body></html>`)
	require.Equal(t, "Best Fiction Prize", Name(p))

	p = page(t, `<html><body><h1>Golden Quill Award</h1></body></html>`)
	require.Equal(t, "Golden Quill Award", Name(p))

	p = page(t, `<html><body><h2>Runner Heading</h2></body></html>`)
	require.Equal(t, "Runner Heading", Name(p))

	p = page(t, `<html><body><p>nothing here</p></body></html>`)
	require.Equal(t, UnknownName, Name(p))
}

func TestCategoryBuckets(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>Celebrating the year's best novel.</p></body></html>`)
	require.Equal(t, "Fiction", Category(p))

	p = page(t, `<html><body><p>Submit your memoir today.</p></body></html>`)
	require.Equal(t, "Non-fiction", Category(p))

	p = page(t, `<html><body><p>For collections of verse.</p></body></html>`)
	require.Equal(t, "Poetry", Category(p))

	p = page(t, `<html><body><p>Welcome to our program.</p></body></html>`)
	require.Equal(t, DefaultCategory, Category(p))
}

func TestDeadline(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>Entries close: March 1st, 2026</p></body></html>`)
	require.Equal(t, "March 1st, 2026", Deadline(p))

	p = page(t, `<html><body><p>Submission deadline: June 30, 2026 applies.</p></body></html>`)
	require.Equal(t, "June 30, 2026", Deadline(p))

	p = page(t, `<html><body><p>Mark 12/31/2026 on your calendar.</p></body></html>`)
	require.Equal(t, "12/31/2026", Deadline(p))

	p = page(t, `<html><body><p>No dates at all.</p></body></html>`)
	require.Empty(t, Deadline(p))
}

func TestPrizeAmount(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>Grand prize: $10,000.00 plus publication.</p></body></html>`)
	require.Equal(t, "$10,000.00", PrizeAmount(p))

	p = page(t, `<html><body><p>A purse of €5,000 awaits.</p></body></html>`)
	require.Equal(t, "€5,000", PrizeAmount(p))

	p = page(t, `<html><body><p>No money mentioned.</p></body></html>`)
	require.Empty(t, PrizeAmount(p))
}

func TestApplicationFee(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>Entry fee: $75 per title.</p></body></html>`)
	require.Equal(t, "$75", ApplicationFee(p))

	p = page(t, `<html><body><p>Pay the $95 submission fee online.</p></body></html>`)
	require.Equal(t, "$95", ApplicationFee(p))

	p = page(t, `<html><body><p>Free to enter.</p></body></html>`)
	require.Empty(t, ApplicationFee(p))
}

func TestStatus(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>Submissions now open!</p></body></html>`)
	require.Equal(t, "Open", Status(p))

	p = page(t, `<html><body><p>Entries closed for this year.</p></body></html>`)
	require.Equal(t, "Closed", Status(p))

	p = page(t, `<html><body><p>Coming soon: our 2027 season.</p></body></html>`)
	require.Equal(t, "Upcoming", Status(p))

	// Optimistic default.
	p = page(t, `<html><body><p>Welcome.</p></body></html>`)
	require.Equal(t, "Open", Status(p))
}

func TestOrganization(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><footer>© 2026 Example Literary Foundation. All rights reserved.</footer></body></html>`)
	require.Equal(t, "Example Literary Foundation", Organization(p))

	p = page(t, `<html><body><section class="about-us"><p>A program of the Readers Guild. Join us.</p></section></body></html>`)
	require.Equal(t, "the Readers Guild", Organization(p))

	p = page(t, `<html><body><p>no org</p></body></html>`)
	require.Empty(t, Organization(p))
}

func TestEligibilityFromClassedSection(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><div class="eligibility-rules">Books published within the last two years qualify.</div></body></html>`)
	require.Contains(t, Eligibility(p), "last two years")
}

func TestEligibilityFromHeadingSibling(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><h2>Who Can Enter</h2><p>Independent authors worldwide.</p></body></html>`)
	require.Contains(t, Eligibility(p), "Independent authors worldwide")
}

func TestEligibilityTruncated(t *testing.T) {
	t.Parallel()

	long := ""
	for i := 0; i < 60; i++ {
		long += "very long eligibility text "
	}
	p := page(t, `<html><body><div class="eligibility">`+long+`</div></body></html>`)
	got := Eligibility(p)
	require.NotEmpty(t, got)
	require.LessOrEqual(t, len(got), 500)
}

func TestProceduresMiss(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>nothing relevant</p></body></html>`)
	require.Empty(t, Procedures(p))
}

func TestJudgingCriteria(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><h3>How Entries Are Judged</h3><ul><li>Originality</li><li>Craft</li></ul></body></html>`)
	got := JudgingCriteria(p)
	require.Contains(t, got, "Originality")
	require.Contains(t, got, "Craft")
}

func TestBenefits(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><ul><li>Winner seal and certificate</li><li>Cash</li></ul></body></html>`)
	got := Benefits(p)
	require.Contains(t, got, "seal")
	require.NotContains(t, got, "Cash")
}
