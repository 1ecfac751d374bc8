package commands

import (
	"errors"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrUpdateBundleCommandIsNotConstructed is returned by Validate on a zero
// command.
var ErrUpdateBundleCommandIsNotConstructed = errors.New(
	"UpdateBundleCommand must be created via NewUpdateBundleCommand constructor",
)

// UpdateBundleCommand replaces the editable fields of a draft or issued
// bundle. A nil counterparty re-captures the snapshot from the directory.
// UnknownPeriodType keeps the current period type.
type UpdateBundleCommand struct { //nolint:recvcheck //using for validation
	bundleID     kernel.UUID
	counterparty *bundle.CounterpartySnapshot
	periodType   kernel.PeriodType
	periodFrom   *time.Time
	periodTo     *time.Time
	payment      bundle.PaymentInfo
	issue        bool

	guard guard.ConstructorGuard
}

// NewUpdateBundleCommand validates the replacement header. A nil
// counterparty recaptures the snapshot from the directory.
func NewUpdateBundleCommand(
	bundleID kernel.UUID,
	counterparty *bundle.CounterpartySnapshot,
	periodType kernel.PeriodType,
	periodFrom, periodTo *time.Time,
	payment bundle.PaymentInfo,
	issue bool,
) (UpdateBundleCommand, error) {
	cmd := UpdateBundleCommand{
		counterparty: counterparty,
		periodType:   periodType,
		periodFrom:   periodFrom,
		periodTo:     periodTo,
		payment:      payment,
		issue:        issue,
		guard:        guard.NewConstructorGuard(),
	}

	var periodTypeErr, counterpartyErr error
	if periodType != kernel.UnknownPeriodType {
		periodTypeErr = periodType.Validate()
	}
	if counterparty != nil {
		if err := counterparty.Validate(); err != nil {
			counterpartyErr = errs.NewValueIsRequiredErrorWithCause("counterparty", err)
		}
	}

	if err := errors.Join(cmd.setBundleID(bundleID), periodTypeErr, counterpartyErr); err != nil {
		return UpdateBundleCommand{}, err
	}

	return cmd, nil
}

// Validate reports whether the command was built by its constructor.
func (c UpdateBundleCommand) Validate() error {
	return c.guard.Validate(ErrUpdateBundleCommandIsNotConstructed)
}

// BundleID is the bundle to edit.
func (c UpdateBundleCommand) BundleID() kernel.UUID {
	return c.bundleID
}

// Counterparty is the replacement snapshot, or nil to recapture it from
// the directory.
func (c UpdateBundleCommand) Counterparty() *bundle.CounterpartySnapshot {
	return c.counterparty
}

// Changes converts the command into aggregate changes using snapshot as the
// counterparty.
func (c UpdateBundleCommand) Changes(snapshot bundle.CounterpartySnapshot) bundle.Changes {
	return bundle.Changes{
		Counterparty: snapshot,
		PeriodType:   c.periodType,
		PeriodFrom:   c.periodFrom,
		PeriodTo:     c.periodTo,
		Payment:      c.payment,
		Issue:        c.issue,
	}
}

func (c *UpdateBundleCommand) setBundleID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("bundleId", err)
	}
	c.bundleID = id
	return nil
}
