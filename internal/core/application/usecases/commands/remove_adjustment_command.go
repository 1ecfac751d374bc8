package commands

import (
	"errors"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrRemoveAdjustmentCommandIsNotConstructed is returned by Validate on a
// zero command.
var ErrRemoveAdjustmentCommandIsNotConstructed = errors.New(
	"RemoveAdjustmentCommand must be created via NewRemoveAdjustmentCommand constructor",
)

// RemoveAdjustmentCommand deletes a bundle-level or item-level adjustment.
type RemoveAdjustmentCommand struct {
	adjustmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemoveAdjustmentCommand requires an adjustment id.
func NewRemoveAdjustmentCommand(adjustmentID kernel.UUID) (RemoveAdjustmentCommand, error) {
	if err := adjustmentID.Validate(); err != nil {
		return RemoveAdjustmentCommand{}, errs.NewValueIsRequiredErrorWithCause("adjustmentId", err)
	}

	return RemoveAdjustmentCommand{
		adjustmentID: adjustmentID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command was built by its constructor.
func (c RemoveAdjustmentCommand) Validate() error {
	return c.guard.Validate(ErrRemoveAdjustmentCommandIsNotConstructed)
}

// AdjustmentID is a bundle-level or item-level adjustment.
func (c RemoveAdjustmentCommand) AdjustmentID() kernel.UUID {
	return c.adjustmentID
}
