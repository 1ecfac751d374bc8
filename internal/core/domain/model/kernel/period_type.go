package kernel

import (
	"fmt"

	"settlement/internal/pkg/errs"
)

// PeriodType chooses which freight order date anchors a bundle's settlement
// period.
type PeriodType int

const (
	UnknownPeriodType PeriodType = iota
	// Departure anchors on the pickup date.
	Departure
	// Arrival anchors on the delivery date.
	Arrival
)

func getPeriodTypeStrings() map[PeriodType]string {
	return map[PeriodType]string{
		Departure: "departure",
		Arrival:   "arrival",
	}
}

// ParsePeriodType converts "departure" or "arrival" to a PeriodType.
func ParsePeriodType(s string) (PeriodType, error) {
	for pt, str := range getPeriodTypeStrings() {
		if str == s {
			return pt, nil
		}
	}
	return UnknownPeriodType, errs.NewValueIsInvalidErrorWithCause("periodType", fmt.Errorf("%q is not a valid period type", s))
}

// Validate rejects unknown period types.
func (p PeriodType) Validate() error {
	if _, ok := getPeriodTypeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("periodType", fmt.Errorf("%d is not a valid period type", p))
	}
	return nil
}

// String returns the wire name of the period type.
func (p PeriodType) String() string {
	if str, ok := getPeriodTypeStrings()[p]; ok {
		return str
	}
	return "unknown"
}
