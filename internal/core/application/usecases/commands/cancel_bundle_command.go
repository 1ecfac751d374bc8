package commands

import (
	"errors"
	"strings"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrCancelBundleCommandIsNotConstructed is returned by Validate on a zero
// command.
var ErrCancelBundleCommandIsNotConstructed = errors.New(
	"CancelBundleCommand must be created via NewCancelBundleCommand constructor",
)

// CancelBundleCommand cancels a draft or issued bundle and releases its
// orders to the waiting pool. Reason is kept for audit.
type CancelBundleCommand struct {
	bundleID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewCancelBundleCommand requires a bundle id. The reason is optional.
func NewCancelBundleCommand(bundleID kernel.UUID, reason string) (CancelBundleCommand, error) {
	if err := bundleID.Validate(); err != nil {
		return CancelBundleCommand{}, errs.NewValueIsRequiredErrorWithCause("bundleId", err)
	}

	return CancelBundleCommand{
		bundleID: bundleID,
		reason:   strings.TrimSpace(reason),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command was built by its constructor.
func (c CancelBundleCommand) Validate() error {
	return c.guard.Validate(ErrCancelBundleCommandIsNotConstructed)
}

// BundleID is the bundle to cancel.
func (c CancelBundleCommand) BundleID() kernel.UUID {
	return c.bundleID
}

// Reason is kept on the bundle for audit.
func (c CancelBundleCommand) Reason() string {
	return c.reason
}
