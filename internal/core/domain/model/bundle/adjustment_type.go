package bundle

import (
	"fmt"

	"settlement/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// AdjustmentType tags an adjustment magnitude with its direction.
type AdjustmentType int

const (
	UnknownAdjustmentType AdjustmentType = iota
	Discount
	Surcharge
)

func getAdjustmentTypeStrings() map[AdjustmentType]string {
	return map[AdjustmentType]string{
		Discount:  "discount",
		Surcharge: "surcharge",
	}
}

// ParseAdjustmentType converts "discount" or "surcharge" to an
// AdjustmentType.
func ParseAdjustmentType(s string) (AdjustmentType, error) {
	for t, str := range getAdjustmentTypeStrings() {
		if str == s {
			return t, nil
		}
	}
	return UnknownAdjustmentType, errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a valid adjustment type", s))
}

// Validate rejects unknown adjustment types.
func (t AdjustmentType) Validate() error {
	if _, ok := getAdjustmentTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%d is not a valid adjustment type", t))
	}
	return nil
}

// String returns the wire name of the type.
func (t AdjustmentType) String() string {
	if str, ok := getAdjustmentTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Apply returns magnitude with the sign of t: positive for surcharges,
// negative for discounts.
func (t AdjustmentType) Apply(magnitude decimal.Decimal) decimal.Decimal {
	if t == Discount {
		return magnitude.Neg()
	}
	return magnitude
}
