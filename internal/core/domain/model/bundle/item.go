package bundle

import (
	"errors"
	"time"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned by Validate on a zero Item.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Item links one freight order to its bundle. The amount and both dates are
// copied from the order when the bundle is built and never follow later
// changes to the order.
type Item struct {
	id           kernel.UUID
	orderID      kernel.UUID
	baseAmount   kernel.Amount
	pickupDate   time.Time
	deliveryDate time.Time
	adjustments  []*Adjustment

	guard guard.ConstructorGuard
}

// NewItem attaches an order to a bundle under construction, snapshotting
// its amount and both dates.
//
// Example:
//
//	item, err := bundle.NewItem(order.ID(), amount, order.PickupDate(), order.DeliveryDate())
func NewItem(orderID kernel.UUID, baseAmount kernel.Amount, pickupDate, deliveryDate time.Time) (*Item, error) {
	return RestoreItem(kernel.NewUUID(), orderID, baseAmount, pickupDate, deliveryDate, nil)
}

// RestoreItem rebuilds an item loaded from storage together with its
// adjustments.
func RestoreItem(
	id, orderID kernel.UUID,
	baseAmount kernel.Amount,
	pickupDate, deliveryDate time.Time,
	adjustments []*Adjustment,
) (*Item, error) {
	var pickupErr, deliveryErr error
	if pickupDate.IsZero() {
		pickupErr = errs.NewValueIsRequiredError("pickupDate")
	}
	if deliveryDate.IsZero() {
		deliveryErr = errs.NewValueIsRequiredError("deliveryDate")
	}

	adjErrs := make([]error, 0, len(adjustments))
	for _, adj := range adjustments {
		adjErrs = append(adjErrs, adj.Validate())
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		baseAmount.Validate(),
		pickupErr,
		deliveryErr,
		errors.Join(adjErrs...),
	); err != nil {
		return nil, err
	}

	return &Item{
		id:           id,
		orderID:      orderID,
		baseAmount:   baseAmount,
		pickupDate:   pickupDate,
		deliveryDate: deliveryDate,
		adjustments:  append([]*Adjustment(nil), adjustments...),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate reports ErrItemIsNotConstructed for items not built by a
// constructor.
func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ID returns the membership id.
func (i *Item) ID() kernel.UUID { return i.id }

// OrderID returns the freight order the item stands for.
func (i *Item) OrderID() kernel.UUID { return i.orderID }

// BaseAmount is the order amount captured when the item was attached.
func (i *Item) BaseAmount() kernel.Amount { return i.baseAmount }

// PickupDate is the snapshotted departure anchor.
func (i *Item) PickupDate() time.Time { return i.pickupDate }

// DeliveryDate is the snapshotted arrival anchor.
func (i *Item) DeliveryDate() time.Time { return i.deliveryDate }

// Adjustments returns a copy of the item-level adjustments.
func (i *Item) Adjustments() []*Adjustment {
	return append([]*Adjustment(nil), i.adjustments...)
}

// PeriodAnchor returns the date that places the item in a period of the
// given type.
func (i *Item) PeriodAnchor(periodType kernel.PeriodType) time.Time {
	if periodType == kernel.Arrival {
		return i.deliveryDate
	}
	return i.pickupDate
}

func (i *Item) addAdjustment(adj *Adjustment) {
	i.adjustments = append(i.adjustments, adj)
}

func (i *Item) removeAdjustment(id kernel.UUID) bool {
	for idx, adj := range i.adjustments {
		if adj.ID().IsEqual(id) {
			i.adjustments = append(i.adjustments[:idx], i.adjustments[idx+1:]...)
			return true
		}
	}
	return false
}
