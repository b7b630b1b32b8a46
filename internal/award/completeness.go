package award

// Completeness is the ordinal data-quality category written to the
// remote store alongside each record.
type Completeness string

// Completeness categories, best to worst.
const (
	Complete          Completeness = "Complete"
	MostlyComplete    Completeness = "Mostly Complete"
	PartiallyComplete Completeness = "Partially Complete"
	Incomplete        Completeness = "Incomplete"
)

// Score maps a record to its completeness category. Essential fields
// carry 70% of the weight, the rest 30%. The blended ratio is
// truncated to an integer percentage before the threshold mapping.
func Score(r *Record) Completeness {
	var essentialTotal, essentialFilled int
	var otherTotal, otherFilled int
	for _, def := range Fields() {
		if def.Essential {
			essentialTotal++
			if r.Filled(def.ID) {
				essentialFilled++
			}
			continue
		}
		otherTotal++
		if r.Filled(def.ID) {
			otherFilled++
		}
	}

	essential := float64(essentialFilled) / float64(essentialTotal)
	other := 0.0
	if otherTotal > 0 {
		other = float64(otherFilled) / float64(otherTotal)
	}

	percent := int((essential*0.7 + other*0.3) * 100)
	switch {
	case percent >= 90:
		return Complete
	case percent >= 70:
		return MostlyComplete
	case percent >= 50:
		return PartiallyComplete
	default:
		return Incomplete
	}
}
