package reconcile

// CompensationType selects which of the two compensation columns an
// assignment amount is written to.
type CompensationType string

const (
	CompRate CompensationType = "rate"
	CompFee  CompensationType = "fee"
)

// NormalizeCompensation maps an assignment's compensation type and raw amount
// string onto the rate/fee column pair. Exactly one of the returned pointers
// is non-nil for a valid non-negative amount; both are nil when the amount is
// empty, non-numeric, or negative. Compensation is optional metadata, so bad
// input never blocks the assignment.
func NormalizeCompensation(ct CompensationType, amount string) (rateCents, feeCents *int64) {
	cents, ok := ParseCents(amount)
	if !ok || cents < 0 {
		return nil, nil
	}
	switch ct {
	case CompFee:
		return nil, &cents
	default:
		// rate is the form default; unknown types fall back to it
		return &cents, nil
	}
}
