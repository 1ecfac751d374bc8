package commands

import (
	"errors"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrCompleteBundleCommandIsNotConstructed is returned by Validate on a zero
// command.
var ErrCompleteBundleCommandIsNotConstructed = errors.New(
	"CompleteBundleCommand must be created via NewCompleteBundleCommand constructor",
)

// CompleteBundleCommand marks a bundle as paid.
type CompleteBundleCommand struct {
	bundleID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompleteBundleCommand requires a bundle id.
func NewCompleteBundleCommand(bundleID kernel.UUID) (CompleteBundleCommand, error) {
	if err := bundleID.Validate(); err != nil {
		return CompleteBundleCommand{}, errs.NewValueIsRequiredErrorWithCause("bundleId", err)
	}

	return CompleteBundleCommand{
		bundleID: bundleID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command was built by its constructor.
func (c CompleteBundleCommand) Validate() error {
	return c.guard.Validate(ErrCompleteBundleCommandIsNotConstructed)
}

// BundleID is the bundle to complete.
func (c CompleteBundleCommand) BundleID() kernel.UUID {
	return c.bundleID
}
