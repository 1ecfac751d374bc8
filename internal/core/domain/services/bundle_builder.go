package services

import (
	"errors"
	"fmt"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
)

// BundleBuilder turns a selection of freight orders into a draft bundle.
//
// Business rules:
//   - the selection is non-empty and lists every order once
//   - every requested order exists
//   - every order belongs to the bundle's counterparty for the bundle's side
//   - no order is already a member of an active bundle of the same side
//   - each item copies the order's amount for the side and both dates
//
// The builder does not read storage. Callers load the orders and their
// active memberships inside the same transaction that persists the result.
//
// Example usage:
//
//	builder := services.NewBundleBuilder()
//	b, err := builder.Build(header, orderIDs, orders, owners, time.Now())
//	if errors.Is(err, errs.ErrConflict) {
//	    // the caller's view of the waiting pool was stale
//	}
type BundleBuilder struct{}

// NewBundleBuilder returns a stateless builder.
func NewBundleBuilder() BundleBuilder {
	return BundleBuilder{}
}

// Build validates the selection and returns a new draft bundle.
//
// Parameters:
//   - header: bundle header fields, including side and counterparty
//   - orderIDs: the requested selection
//   - orders: the orders loaded for orderIDs (missing ones are reported)
//   - activeOwners: order id to the id of the active bundle of header.Side
//     that currently owns it
//   - now: creation timestamp
func (b BundleBuilder) Build(
	header bundle.Header,
	orderIDs []kernel.UUID,
	orders []*freight.Order,
	activeOwners map[kernel.UUID]kernel.UUID,
	now time.Time,
) (*bundle.Bundle, error) {
	if len(orderIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("orderIds")
	}
	if err := header.Side.Validate(); err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*freight.Order, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		byID[o.ID()] = o
	}

	items := make([]*bundle.Item, 0, len(orderIDs))
	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	var mismatches []error
	for _, id := range orderIDs {
		if _, dup := seen[id]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("orderIds",
				fmt.Errorf("order %s is listed more than once", id))
		}
		seen[id] = struct{}{}

		o, ok := byID[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}

		counterpartyID, err := o.CounterpartyFor(header.Side)
		if err != nil {
			return nil, err
		}
		if !counterpartyID.IsEqual(header.CounterpartyID) {
			mismatches = append(mismatches, errs.NewValueIsInvalidErrorWithCause("orderIds",
				fmt.Errorf("order %s belongs to counterparty %s", id, counterpartyID)))
			continue
		}

		amount, err := o.AmountFor(header.Side)
		if err != nil {
			return nil, err
		}

		item, err := bundle.NewItem(o.ID(), amount, o.PickupDate(), o.DeliveryDate())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := errors.Join(mismatches...); err != nil {
		return nil, err
	}

	for _, id := range orderIDs {
		if owner, owned := activeOwners[id]; owned {
			return nil, errs.NewConflictErrorWithCause("order", id.String(),
				fmt.Errorf("already in active %s bundle %s", header.Side, owner))
		}
	}

	return bundle.NewBundle(header, items, now)
}
