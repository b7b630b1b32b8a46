package extract

import (
	"github.com/bookawards/harvester/internal/award"
	"github.com/bookawards/harvester/internal/fetcher"
)

// Apply runs the full extractor sweep against a page, filling only
// fields that are still blank.
func Apply(p *fetcher.Page, r *award.Record) {
	r.SetIfEmpty(award.FieldName, Name(p))
	r.SetIfEmpty(award.FieldCategory, Category(p))
	r.SetIfEmpty(award.FieldDeadline, Deadline(p))
	r.SetIfEmpty(award.FieldEligibility, Eligibility(p))
	r.SetIfEmpty(award.FieldProcedures, Procedures(p))
	r.SetIfEmpty(award.FieldPrizeAmount, PrizeAmount(p))
	r.SetIfEmpty(award.FieldApplicationFee, ApplicationFee(p))
	r.SetIfEmpty(award.FieldStatus, Status(p))
	r.SetIfEmpty(award.FieldOrganization, Organization(p))

	applyContact(p, r)

	r.SetIfEmpty(award.FieldBenefits, Benefits(p))
	r.SetIfEmpty(award.FieldCelebration, string(Celebration(p)))
	r.SetIfEmpty(award.FieldCategoryCount, CategoryCount(p))
	r.SetIfEmpty(award.FieldGeographic, Geographic(p))
	r.SetIfEmpty(award.FieldFormats, Formats(p))
	r.SetIfEmpty(award.FieldISBNRequired, string(ISBNRequired(p)))
	r.SetIfEmpty(award.FieldJudgingCriteria, JudgingCriteria(p))
	r.SetIfEmpty(award.FieldPastWinnersURL, PastWinnersURL(p, p.URL))
}

// ApplyRole re-runs the extractor subset relevant to a related page's
// role. linkURL is the related page's own URL (used by the winners
// role, which contributes its location rather than its content).
func ApplyRole(role Role, p *fetcher.Page, r *award.Record, linkURL string) {
	switch role {
	case RoleGuidelines:
		r.SetIfEmpty(award.FieldEligibility, Eligibility(p))
		r.SetIfEmpty(award.FieldProcedures, Procedures(p))
	case RoleFAQ:
		r.SetIfEmpty(award.FieldISBNRequired, string(ISBNRequired(p)))
		r.SetIfEmpty(award.FieldFormats, Formats(p))
	case RoleWinners:
		r.SetIfEmpty(award.FieldPastWinnersURL, linkURL)
	case RoleAbout:
		r.SetIfEmpty(award.FieldOrganization, Organization(p))
	case RoleContact:
		applyContact(p, r)
	}
}

func applyContact(p *fetcher.Page, r *award.Record) {
	c := ContactInfo(p)
	r.SetIfEmpty(award.FieldContactPerson, c.Person)
	r.SetIfEmpty(award.FieldContactEmail, c.Email)
	r.SetIfEmpty(award.FieldContactPhone, c.Phone)
	r.SetIfEmpty(award.FieldAddress, c.Address)
}
