package bundle

import (
	"errors"
	"strings"
	"time"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrAdjustmentIsNotConstructed is returned by Validate on a zero Adjustment.
var ErrAdjustmentIsNotConstructed = errors.New("Adjustment must be created via NewAdjustment or RestoreAdjustment")

// Adjustment is a discount or surcharge attached either to the whole bundle
// or to one of its items. Amount and TaxAmount are magnitudes; the sign
// comes from the type.
type Adjustment struct {
	id          kernel.UUID
	kind        AdjustmentType
	description string
	amount      kernel.Amount
	taxAmount   kernel.Amount
	createdBy   string
	createdAt   time.Time

	guard guard.ConstructorGuard
}

// NewAdjustment creates a discount or surcharge with a fresh id. Amounts are
// magnitudes; the sign comes from kind.
//
// Example:
//
//	adj, err := bundle.NewAdjustment(bundle.Discount, "volume discount",
//	    kernel.MustAmount("5000"), kernel.MustAmount("500"), "ops", time.Now())
func NewAdjustment(
	kind AdjustmentType,
	description string,
	amount, taxAmount kernel.Amount,
	createdBy string,
	now time.Time,
) (*Adjustment, error) {
	return RestoreAdjustment(kernel.NewUUID(), kind, description, amount, taxAmount, createdBy, now)
}

// RestoreAdjustment rebuilds an adjustment loaded from storage.
func RestoreAdjustment(
	id kernel.UUID,
	kind AdjustmentType,
	description string,
	amount, taxAmount kernel.Amount,
	createdBy string,
	createdAt time.Time,
) (*Adjustment, error) {
	a := &Adjustment{
		kind:        kind,
		description: strings.TrimSpace(description),
		createdBy:   createdBy,
		createdAt:   createdAt,
		guard:       guard.NewConstructorGuard(),
	}

	var descriptionErr error
	if a.description == "" {
		descriptionErr = errs.NewValueIsRequiredError("description")
	}

	if err := errors.Join(
		id.Validate(),
		kind.Validate(),
		descriptionErr,
		a.setAmounts(amount, taxAmount),
	); err != nil {
		return nil, err
	}
	a.id = id

	return a, nil
}

// Validate reports ErrAdjustmentIsNotConstructed for adjustments not built
// by a constructor.
func (a *Adjustment) Validate() error {
	if a == nil {
		return ErrAdjustmentIsNotConstructed
	}
	return a.guard.Validate(ErrAdjustmentIsNotConstructed)
}

// ID returns the adjustment id.
func (a *Adjustment) ID() kernel.UUID { return a.id }

// Type tells whether the adjustment is a discount or a surcharge.
func (a *Adjustment) Type() AdjustmentType { return a.kind }

// Description is the free-text reason shown on the statement.
func (a *Adjustment) Description() string { return a.description }

// Amount is the unsigned magnitude.
func (a *Adjustment) Amount() kernel.Amount { return a.amount }

// TaxAmount is the unsigned tax magnitude.
func (a *Adjustment) TaxAmount() kernel.Amount { return a.taxAmount }

// CreatedBy names who recorded the adjustment.
func (a *Adjustment) CreatedBy() string { return a.createdBy }

// CreatedAt is when the adjustment was recorded.
func (a *Adjustment) CreatedAt() time.Time { return a.createdAt }

// SignedAmount is +amount for surcharges and -amount for discounts.
func (a *Adjustment) SignedAmount() decimal.Decimal {
	return a.kind.Apply(a.amount.Decimal())
}

// SignedTaxAmount is TaxAmount negated for discounts.
func (a *Adjustment) SignedTaxAmount() decimal.Decimal {
	return a.kind.Apply(a.taxAmount.Decimal())
}

func (a *Adjustment) setAmounts(amount, taxAmount kernel.Amount) error {
	var amountErr, taxErr error
	if err := amount.Validate(); err != nil {
		amountErr = errs.NewValueIsRequiredErrorWithCause("amount", err)
	}
	if err := taxAmount.Validate(); err != nil {
		taxErr = errs.NewValueIsRequiredErrorWithCause("taxAmount", err)
	}
	if err := errors.Join(amountErr, taxErr); err != nil {
		return err
	}
	a.amount = amount
	a.taxAmount = taxAmount
	return nil
}
