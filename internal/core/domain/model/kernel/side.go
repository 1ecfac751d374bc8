package kernel

import (
	"fmt"

	"settlement/internal/pkg/errs"
)

// Side selects which half of the brokerage a bundle settles: Sales bills the
// shipper, Purchase pays the carrier or driver.
type Side int

const (
	UnknownSide Side = iota
	Sales
	Purchase
)

func getSideStrings() map[Side]string {
	return map[Side]string{
		Sales:    "sales",
		Purchase: "purchase",
	}
}

// ParseSide accepts the wire form ("sales", "purchase").
func ParseSide(s string) (Side, error) {
	for side, str := range getSideStrings() {
		if str == s {
			return side, nil
		}
	}
	return UnknownSide, errs.NewValueIsInvalidErrorWithCause("side", fmt.Errorf("%q is not a valid side", s))
}

// Validate rejects unknown sides.
func (s Side) Validate() error {
	if _, ok := getSideStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("side", fmt.Errorf("%d is not a valid side", s))
	}
	return nil
}

// String returns "sales" or "purchase".
func (s Side) String() string {
	if str, ok := getSideStrings()[s]; ok {
		return str
	}
	return "unknown"
}
