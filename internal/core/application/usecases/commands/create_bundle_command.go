package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrCreateBundleCommandIsNotConstructed is returned by Validate on a zero
// command.
var ErrCreateBundleCommandIsNotConstructed = errors.New(
	"CreateBundleCommand must be created via NewCreateBundleCommand constructor",
)

// CreateBundleCommand asks to group a selection of waiting orders into a new
// draft bundle.
//
// When counterparty is nil the handler captures the snapshot from the
// counterparty directory.
//
// Example:
//
//	cmd, err := NewCreateBundleCommand(kernel.Sales, orderIDs, shipperID, nil,
//	    kernel.Departure, nil, nil, bundle.PaymentInfo{}, "ops")
//	if err != nil {
//	    return err
//	}
//	bundleID, err := handler.Handle(ctx, cmd)
type CreateBundleCommand struct { //nolint:recvcheck //using for validation
	side           kernel.Side
	orderIDs       []kernel.UUID
	counterpartyID kernel.UUID
	counterparty   *bundle.CounterpartySnapshot
	periodType     kernel.PeriodType
	periodFrom     *time.Time
	periodTo       *time.Time
	payment        bundle.PaymentInfo
	createdBy      string

	guard guard.ConstructorGuard
}

// NewCreateBundleCommand validates the header fields and joins the errors.
// Order ownership is checked later, under lock.
func NewCreateBundleCommand(
	side kernel.Side,
	orderIDs []kernel.UUID,
	counterpartyID kernel.UUID,
	counterparty *bundle.CounterpartySnapshot,
	periodType kernel.PeriodType,
	periodFrom, periodTo *time.Time,
	payment bundle.PaymentInfo,
	createdBy string,
) (CreateBundleCommand, error) {
	cmd := CreateBundleCommand{
		counterparty: counterparty,
		periodFrom:   periodFrom,
		periodTo:     periodTo,
		payment:      payment,
		createdBy:    strings.TrimSpace(createdBy),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSide(side),
		cmd.setOrderIDs(orderIDs),
		cmd.setCounterpartyID(counterpartyID),
		cmd.setPeriodType(periodType),
		cmd.validateCounterparty(),
	); err != nil {
		return CreateBundleCommand{}, err
	}

	return cmd, nil
}

// Validate reports whether the command was built by its constructor.
func (c CreateBundleCommand) Validate() error {
	return c.guard.Validate(ErrCreateBundleCommandIsNotConstructed)
}

// Side is the side the bundle settles.
func (c CreateBundleCommand) Side() kernel.Side {
	return c.side
}

// CounterpartyID must own every selected order on Side.
func (c CreateBundleCommand) CounterpartyID() kernel.UUID {
	return c.counterpartyID
}

// PeriodType picks the order date that anchors the period.
func (c CreateBundleCommand) PeriodType() kernel.PeriodType {
	return c.periodType
}

// PeriodFrom overrides the derived period start when set.
func (c CreateBundleCommand) PeriodFrom() *time.Time {
	return c.periodFrom
}

// PeriodTo overrides the derived period end when set.
func (c CreateBundleCommand) PeriodTo() *time.Time {
	return c.periodTo
}

// Payment carries dates, the tax-free flag and the memo.
func (c CreateBundleCommand) Payment() bundle.PaymentInfo {
	return c.payment
}

// CreatedBy names who creates the bundle.
func (c CreateBundleCommand) CreatedBy() string {
	return c.createdBy
}

// OrderIDs returns a copy of the selection.
func (c CreateBundleCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}

// Counterparty returns the caller supplied snapshot, or nil.
func (c CreateBundleCommand) Counterparty() *bundle.CounterpartySnapshot {
	return c.counterparty
}

func (c *CreateBundleCommand) setSide(side kernel.Side) error {
	if err := side.Validate(); err != nil {
		return err
	}
	c.side = side
	return nil
}

func (c *CreateBundleCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return errs.NewValueIsRequiredError("orderIds")
	}

	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("orderIds", err)
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("orderIds", fmt.Errorf("order %s is listed more than once", id))
		}
		seen[id] = struct{}{}
	}

	c.orderIDs = append([]kernel.UUID(nil), orderIDs...)
	return nil
}

func (c *CreateBundleCommand) setCounterpartyID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("counterpartyId", err)
	}
	c.counterpartyID = id
	return nil
}

func (c *CreateBundleCommand) setPeriodType(periodType kernel.PeriodType) error {
	if err := periodType.Validate(); err != nil {
		return err
	}
	c.periodType = periodType
	return nil
}

func (c *CreateBundleCommand) validateCounterparty() error {
	if c.counterparty == nil {
		return nil
	}
	if err := c.counterparty.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("counterparty", err)
	}
	return nil
}
