package commands

import (
	"errors"
	"strings"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

var (
	ErrAddBundleAdjustmentCommandIsNotConstructed = errors.New(
		"AddBundleAdjustmentCommand must be created via NewAddBundleAdjustmentCommand constructor",
	)
	ErrAddItemAdjustmentCommandIsNotConstructed = errors.New(
		"AddItemAdjustmentCommand must be created via NewAddItemAdjustmentCommand constructor",
	)
)

// adjustmentInput holds the fields shared by bundle-level and item-level
// adjustment commands.
type adjustmentInput struct {
	kind        bundle.AdjustmentType
	description string
	amount      kernel.Amount
	taxAmount   kernel.Amount
	createdBy   string
}

func newAdjustmentInput(
	kind bundle.AdjustmentType,
	description string,
	amount, taxAmount kernel.Amount,
	createdBy string,
) (adjustmentInput, error) {
	in := adjustmentInput{
		kind:        kind,
		description: strings.TrimSpace(description),
		amount:      amount,
		taxAmount:   taxAmount,
		createdBy:   strings.TrimSpace(createdBy),
	}

	var descriptionErr, amountErr, taxErr error
	if in.description == "" {
		descriptionErr = errs.NewValueIsRequiredError("description")
	}
	if err := amount.Validate(); err != nil {
		amountErr = errs.NewValueIsRequiredErrorWithCause("amount", err)
	}
	if err := taxAmount.Validate(); err != nil {
		taxErr = errs.NewValueIsRequiredErrorWithCause("taxAmount", err)
	}

	if err := errors.Join(kind.Validate(), descriptionErr, amountErr, taxErr); err != nil {
		return adjustmentInput{}, err
	}
	return in, nil
}

// Type is the adjustment kind.
func (in adjustmentInput) Type() bundle.AdjustmentType { return in.kind }

// Description is the required reason text.
func (in adjustmentInput) Description() string { return in.description }

// Amount is the unsigned magnitude.
func (in adjustmentInput) Amount() kernel.Amount { return in.amount }

// TaxAmount is the unsigned tax magnitude.
func (in adjustmentInput) TaxAmount() kernel.Amount { return in.taxAmount }

// CreatedBy names who records the adjustment.
func (in adjustmentInput) CreatedBy() string { return in.createdBy }

// AddBundleAdjustmentCommand attaches a discount or surcharge to a whole
// bundle.
type AddBundleAdjustmentCommand struct {
	adjustmentInput
	bundleID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAddBundleAdjustmentCommand validates every field and joins the errors.
//
// Example:
//
//	cmd, err := commands.NewAddBundleAdjustmentCommand(bundleID, bundle.Surcharge,
//	    "waiting time", kernel.MustAmount("10000"), kernel.MustAmount("1000"), "ops")
func NewAddBundleAdjustmentCommand(
	bundleID kernel.UUID,
	kind bundle.AdjustmentType,
	description string,
	amount, taxAmount kernel.Amount,
	createdBy string,
) (AddBundleAdjustmentCommand, error) {
	var idErr error
	if err := bundleID.Validate(); err != nil {
		idErr = errs.NewValueIsRequiredErrorWithCause("bundleId", err)
	}

	in, inputErr := newAdjustmentInput(kind, description, amount, taxAmount, createdBy)
	if err := errors.Join(idErr, inputErr); err != nil {
		return AddBundleAdjustmentCommand{}, err
	}

	return AddBundleAdjustmentCommand{
		adjustmentInput: in,
		bundleID:        bundleID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command was built by its constructor.
func (c AddBundleAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrAddBundleAdjustmentCommandIsNotConstructed)
}

// BundleID is the target bundle.
func (c AddBundleAdjustmentCommand) BundleID() kernel.UUID {
	return c.bundleID
}

// AddItemAdjustmentCommand attaches a discount or surcharge to one bundle
// item.
type AddItemAdjustmentCommand struct {
	adjustmentInput
	bundleItemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAddItemAdjustmentCommand validates every field and joins the errors.
func NewAddItemAdjustmentCommand(
	bundleItemID kernel.UUID,
	kind bundle.AdjustmentType,
	description string,
	amount, taxAmount kernel.Amount,
	createdBy string,
) (AddItemAdjustmentCommand, error) {
	var idErr error
	if err := bundleItemID.Validate(); err != nil {
		idErr = errs.NewValueIsRequiredErrorWithCause("bundleItemId", err)
	}

	in, inputErr := newAdjustmentInput(kind, description, amount, taxAmount, createdBy)
	if err := errors.Join(idErr, inputErr); err != nil {
		return AddItemAdjustmentCommand{}, err
	}

	return AddItemAdjustmentCommand{
		adjustmentInput: in,
		bundleItemID:    bundleItemID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command was built by its constructor.
func (c AddItemAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrAddItemAdjustmentCommandIsNotConstructed)
}

// BundleItemID is the target membership row.
func (c AddItemAdjustmentCommand) BundleItemID() kernel.UUID {
	return c.bundleItemID
}
