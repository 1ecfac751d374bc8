package kernel

import (
	"errors"
	"fmt"

	"settlement/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCurrencyScale rounds to whole currency units.
	DefaultCurrencyScale int32 = 0

	// MaxAmountScale is the number of decimal places an Amount may carry,
	// matching the numeric(18,4) columns amounts are stored in.
	MaxAmountScale int32 = 4
)

// maxAmount is the exclusive upper bound of numeric(18,4).
var maxAmount = decimal.New(1, 14)

// ErrAmountIsNotConstructed is returned by Validate on a zero Amount.
var ErrAmountIsNotConstructed = errors.New("Amount must be created via NewAmount or AmountFromString")

// Amount is a non-negative monetary magnitude. Signs are never stored in an
// Amount; callers that need a signed value derive it from context (for
// example an adjustment's type).
type Amount struct {
	value         decimal.Decimal
	isConstructed bool
}

// ZeroAmount is the constructed zero magnitude.
func ZeroAmount() Amount {
	return Amount{value: decimal.Zero, isConstructed: true}
}

// NewAmount validates a magnitude: non-negative, below 10^14 and with at
// most MaxAmountScale decimal places.
//
// Example:
//
//	a, err := kernel.NewAmount(decimal.RequireFromString("1234.5"))   // ok
//	_, err = kernel.NewAmount(decimal.RequireFromString("0.00005"))   // ErrValueIsInvalid
func NewAmount(value decimal.Decimal) (Amount, error) {
	if value.IsNegative() || value.GreaterThanOrEqual(maxAmount) {
		return Amount{}, errs.NewValueIsOutOfRangeError("amount", value.String(), "0", maxAmount.String())
	}
	if !value.Equal(value.Truncate(MaxAmountScale)) {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s has more than %d decimal places", value, MaxAmountScale))
	}
	return Amount{value: value, isConstructed: true}, nil
}

// AmountFromString parses a decimal string such as "100000" or "1234.50".
func AmountFromString(s string) (Amount, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewAmount(value)
}

// MustAmount panics on invalid input. Intended for literals in tests and
// fixtures.
func MustAmount(s string) Amount {
	a, err := AmountFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the magnitude.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String formats the magnitude without trailing zeros.
func (a Amount) String() string {
	return a.value.String()
}

// IsZero reports whether the magnitude is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// IsEqual compares numerically, so "100" equals "100.00".
func (a Amount) IsEqual(other Amount) bool {
	return a.value.Equal(other.value)
}

// Validate reports whether a was built by a constructor.
func (a Amount) Validate() error {
	if !a.isConstructed {
		return ErrAmountIsNotConstructed
	}
	return nil
}

// RoundHalfUp rounds v to scale decimal places, ties away from zero.
// For the non-negative values it is applied to this is round-half-up.
func RoundHalfUp(v decimal.Decimal, scale int32) decimal.Decimal {
	return v.Round(scale)
}
