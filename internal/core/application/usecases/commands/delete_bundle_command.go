package commands

import (
	"errors"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrDeleteBundleCommandIsNotConstructed is returned by Validate on a zero
// command.
var ErrDeleteBundleCommandIsNotConstructed = errors.New(
	"DeleteBundleCommand must be created via NewDeleteBundleCommand constructor",
)

// DeleteBundleCommand hard-deletes a draft or issued bundle.
type DeleteBundleCommand struct {
	bundleID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteBundleCommand requires a bundle id.
func NewDeleteBundleCommand(bundleID kernel.UUID) (DeleteBundleCommand, error) {
	if err := bundleID.Validate(); err != nil {
		return DeleteBundleCommand{}, errs.NewValueIsRequiredErrorWithCause("bundleId", err)
	}

	return DeleteBundleCommand{
		bundleID: bundleID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command was built by its constructor.
func (c DeleteBundleCommand) Validate() error {
	return c.guard.Validate(ErrDeleteBundleCommandIsNotConstructed)
}

// BundleID is the bundle to delete.
func (c DeleteBundleCommand) BundleID() kernel.UUID {
	return c.bundleID
}
