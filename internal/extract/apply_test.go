package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookawards/harvester/internal/award"
)

const seedHTML = `<html>
<head><title>Best Fiction Prize — Official Website</title></head>
<body>
<p>Celebrating the year's best novel. Submissions now open, entry fee: $75.</p>
<p>Grand prize of $5,000. Deadline: March 1st, 2026.</p>
<footer>© 2026 Example Literary Foundation. All rights reserved.</footer>
</body></html>`

func TestApplyFillsBlanksOnly(t *testing.T) {
	t.Parallel()

	p := page(t, seedHTML)
	r := award.New("https://example-award.org")
	r.Set(award.FieldName, "Seeded Name")

	Apply(p, r)

	// Seeded name survives the sweep.
	require.Equal(t, "Seeded Name", r.Name)
	require.Equal(t, "Fiction", r.Category)
	require.Equal(t, "March 1st, 2026", r.Deadline)
	require.Equal(t, "$75", r.ApplicationFee)
	require.Equal(t, "Open", r.Status)
	require.Equal(t, "Example Literary Foundation", r.Organization)
	require.Equal(t, award.No, r.Celebration)
	require.Equal(t, award.Unknown, r.ISBNRequired)
}

func TestApplyRoleGuidelines(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><h2>Eligibility</h2><p>Books published since 2024.</p></body></html>`)
	r := award.New("https://example-award.org")

	ApplyRole(RoleGuidelines, p, r, "https://example-award.org/rules")
	require.Contains(t, r.Eligibility, "published since 2024")

	// A later page must not overwrite the earlier value.
	p2 := page(t, `<html><body><h2>Eligibility</h2><p>Different text entirely.</p></body></html>`)
	ApplyRole(RoleGuidelines, p2, r, "https://example-award.org/rules2")
	require.Contains(t, r.Eligibility, "published since 2024")
	require.NotContains(t, r.Eligibility, "Different text")
}

func TestApplyRoleWinnersUsesLinkURL(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>irrelevant</p></body></html>`)
	r := award.New("https://example-award.org")

	ApplyRole(RoleWinners, p, r, "https://example-award.org/winners")
	require.Equal(t, "https://example-award.org/winners", r.PastWinnersURL)

	ApplyRole(RoleWinners, p, r, "https://example-award.org/other")
	require.Equal(t, "https://example-award.org/winners", r.PastWinnersURL)
}

func TestApplyRoleFAQ(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><p>ISBN required. We accept print and ebook entries.</p></body></html>`)
	r := award.New("https://example-award.org")

	ApplyRole(RoleFAQ, p, r, "https://example-award.org/faq")
	require.Equal(t, award.Yes, r.ISBNRequired)
	require.Equal(t, "Print, Digital", r.Formats)
}

func TestApplyRoleContact(t *testing.T) {
	t.Parallel()

	p := page(t, `<html><body><div class="contact">Director: John Doe</div><p>mail john@example.org</p></body></html>`)
	r := award.New("https://example-award.org")

	ApplyRole(RoleContact, p, r, "https://example-award.org/contact")
	require.Equal(t, "John Doe", r.ContactPerson)
	require.Equal(t, "john@example.org", r.ContactEmail)
}
