// Package award defines the award record domain model shared across
// the pipeline, the scorer, and the reconciler.
package award

import "strings"

// YesNo is a tri-state flag: "Yes", "No", or "" for unknown.
type YesNo string

// YesNo values stored on boolean-style record fields.
const (
	Unknown YesNo = ""
	Yes     YesNo = "Yes"
	No      YesNo = "No"
)

// Recognized reports whether the value holds a usable yes/no token.
func (v YesNo) Recognized() bool {
	switch strings.ToLower(strings.TrimSpace(string(v))) {
	case "yes", "no", "true", "false":
		return true
	}
	return false
}

// Bool converts the value to a boolean. Unknown maps to false.
func (v YesNo) Bool() bool {
	switch strings.ToLower(strings.TrimSpace(string(v))) {
	case "yes", "true":
		return true
	}
	return false
}

// FieldID identifies one field of the fixed award field set.
type FieldID int

// The fixed, ordered award field set. Order matters: it is the
// iteration order for merging, scoring, and payload assembly.
const (
	FieldName FieldID = iota
	FieldCategory
	FieldDeadline
	FieldEligibility
	FieldProcedures
	FieldWebsite
	FieldPrizeAmount
	FieldApplicationFee
	FieldStatus
	FieldOrganization
	FieldContactPerson
	FieldContactEmail
	FieldContactPhone
	FieldAddress
	FieldPastWinnersURL
	FieldBenefits
	FieldCelebration
	FieldCategoryCount
	FieldGeographic
	FieldAlliRating
	FieldFormats
	FieldISBNRequired
	FieldAcceptsSeries
	FieldAcceptsAnthologies
	FieldAcceptsDebuts
	FieldEvaluatesCovers
	FieldEvaluatesIllustrations
	FieldEvaluatesInterior
	FieldSecondaryWebsite
	FieldJudgingCriteria
	FieldLeadMagnet
	FieldDripCampaign
)

// Kind is the semantic type of a field, used by the reconciler to
// translate values for the remote store.
type Kind int

// Field kinds.
const (
	KindText Kind = iota
	KindLongText
	KindSelect
	KindMoney
	KindDate
	KindURL
	KindNumber
	KindBool
)

// FieldDef describes one field of the award record.
type FieldDef struct {
	ID        FieldID
	Name      string // column name in the remote store
	Kind      Kind
	MaxLen    int
	Essential bool
}

var fieldDefs = []FieldDef{
	{FieldName, "Award Name", KindText, 255, true},
	{FieldCategory, "Category", KindSelect, 64, true},
	{FieldDeadline, "Entry Deadline", KindDate, 64, true},
	{FieldEligibility, "Eligibility Criteria", KindLongText, 500, true},
	{FieldProcedures, "Application Procedures", KindLongText, 500, true},
	{FieldWebsite, "Award Website", KindURL, 512, true},
	{FieldPrizeAmount, "Prize Amount", KindMoney, 64, true},
	{FieldApplicationFee, "Application Fee", KindMoney, 64, true},
	{FieldStatus, "Award Status", KindSelect, 64, true},
	{FieldOrganization, "Awarding Organization", KindText, 255, false},
	{FieldContactPerson, "Contact Person", KindText, 255, false},
	{FieldContactEmail, "Contact Email", KindText, 255, false},
	{FieldContactPhone, "Contact Phone", KindText, 64, false},
	{FieldAddress, "Physical Address", KindText, 255, false},
	{FieldPastWinnersURL, "Past Winners URL", KindURL, 512, false},
	{FieldBenefits, "Extra Benefits", KindLongText, 300, false},
	{FieldCelebration, "In-Person Celebration", KindBool, 8, false},
	{FieldCategoryCount, "Number of Categories", KindNumber, 16, false},
	{FieldGeographic, "Geographic Restrictions", KindText, 255, false},
	{FieldAlliRating, "Alli Rating", KindText, 64, false},
	{FieldFormats, "Accepted Formats", KindText, 128, false},
	{FieldISBNRequired, "ISBN Required", KindBool, 8, false},
	{FieldAcceptsSeries, "Accepts Series", KindBool, 8, false},
	{FieldAcceptsAnthologies, "Accepts Anthologies", KindBool, 8, false},
	{FieldAcceptsDebuts, "Accepts Debut Authors", KindBool, 8, false},
	{FieldEvaluatesCovers, "Evaluates Covers", KindBool, 8, false},
	{FieldEvaluatesIllustrations, "Evaluates Illustrations", KindBool, 8, false},
	{FieldEvaluatesInterior, "Evaluates Interior Design", KindBool, 8, false},
	{FieldSecondaryWebsite, "Secondary Website", KindURL, 512, false},
	{FieldJudgingCriteria, "Judging Criteria", KindLongText, 500, false},
	{FieldLeadMagnet, "Listed in Lead Magnet", KindText, 255, false},
	{FieldDripCampaign, "Described in Drip Campaign", KindText, 255, false},
}

// Fields returns the fixed field set in declaration order.
func Fields() []FieldDef {
	return fieldDefs
}

// Def looks up the definition for a field.
func Def(id FieldID) FieldDef {
	return fieldDefs[int(id)]
}

// Record holds one award's extracted data. Every field is always
// present; the empty string means unknown, never null.
type Record struct {
	Name           string
	Category       string
	Deadline       string
	Eligibility    string
	Procedures     string
	Website        string
	PrizeAmount    string
	ApplicationFee string
	Status         string

	Organization   string
	ContactPerson  string
	ContactEmail   string
	ContactPhone   string
	Address        string
	PastWinnersURL string
	Benefits       string
	Celebration    YesNo
	CategoryCount  string
	Geographic     string
	AlliRating     string
	Formats        string
	ISBNRequired   YesNo

	AcceptsSeries          YesNo
	AcceptsAnthologies     YesNo
	AcceptsDebuts          YesNo
	EvaluatesCovers        YesNo
	EvaluatesIllustrations YesNo
	EvaluatesInterior      YesNo

	SecondaryWebsite string
	JudgingCriteria  string
	LeadMagnet       string
	DripCampaign     string
}

// New builds a blank record anchored on its seed website.
func New(website string) *Record {
	r := &Record{}
	r.Set(FieldWebsite, website)
	return r
}

func (r *Record) ref(id FieldID) *string {
	switch id {
	case FieldName:
		return &r.Name
	case FieldCategory:
		return &r.Category
	case FieldDeadline:
		return &r.Deadline
	case FieldEligibility:
		return &r.Eligibility
	case FieldProcedures:
		return &r.Procedures
	case FieldWebsite:
		return &r.Website
	case FieldPrizeAmount:
		return &r.PrizeAmount
	case FieldApplicationFee:
		return &r.ApplicationFee
	case FieldStatus:
		return &r.Status
	case FieldOrganization:
		return &r.Organization
	case FieldContactPerson:
		return &r.ContactPerson
	case FieldContactEmail:
		return &r.ContactEmail
	case FieldContactPhone:
		return &r.ContactPhone
	case FieldAddress:
		return &r.Address
	case FieldPastWinnersURL:
		return &r.PastWinnersURL
	case FieldBenefits:
		return &r.Benefits
	case FieldCelebration:
		return (*string)(&r.Celebration)
	case FieldCategoryCount:
		return &r.CategoryCount
	case FieldGeographic:
		return &r.Geographic
	case FieldAlliRating:
		return &r.AlliRating
	case FieldFormats:
		return &r.Formats
	case FieldISBNRequired:
		return (*string)(&r.ISBNRequired)
	case FieldAcceptsSeries:
		return (*string)(&r.AcceptsSeries)
	case FieldAcceptsAnthologies:
		return (*string)(&r.AcceptsAnthologies)
	case FieldAcceptsDebuts:
		return (*string)(&r.AcceptsDebuts)
	case FieldEvaluatesCovers:
		return (*string)(&r.EvaluatesCovers)
	case FieldEvaluatesIllustrations:
		return (*string)(&r.EvaluatesIllustrations)
	case FieldEvaluatesInterior:
		return (*string)(&r.EvaluatesInterior)
	case FieldSecondaryWebsite:
		return &r.SecondaryWebsite
	case FieldJudgingCriteria:
		return &r.JudgingCriteria
	case FieldLeadMagnet:
		return &r.LeadMagnet
	case FieldDripCampaign:
		return &r.DripCampaign
	}
	return nil
}

// Value returns the current value of a field.
func (r *Record) Value(id FieldID) string {
	if p := r.ref(id); p != nil {
		return *p
	}
	return ""
}

// Truncate shortens s to at most max runes. Clipping never splits a
// multi-byte rune.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Set writes a field value, truncating to the field's maximum length.
// Overlong values never cause an error.
func (r *Record) Set(id FieldID, value string) {
	p := r.ref(id)
	if p == nil {
		return
	}
	*p = Truncate(value, Def(id).MaxLen)
}

// SetIfEmpty writes a field value only when the field is still blank.
// It reports whether the write happened.
func (r *Record) SetIfEmpty(id FieldID, value string) bool {
	if strings.TrimSpace(r.Value(id)) != "" || strings.TrimSpace(value) == "" {
		return false
	}
	r.Set(id, value)
	return true
}

// Filled reports whether a field counts as populated. Boolean-style
// fields must hold a recognized yes/no token.
func (r *Record) Filled(id FieldID) bool {
	v := strings.TrimSpace(r.Value(id))
	if v == "" {
		return false
	}
	if Def(id).Kind == KindBool {
		return YesNo(v).Recognized()
	}
	return true
}
