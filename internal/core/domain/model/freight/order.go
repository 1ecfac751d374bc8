package freight

import (
	"errors"
	"fmt"
	"time"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned by Validate on a zero Order.
var ErrOrderIsNotConstructed = errors.New("freight Order must be created via RestoreOrder")

// Order is the read-only view of a dispatched freight order as the Order
// Ledger records it. The engine never mutates orders; it only copies their
// amounts and dates into bundle items.
//
// Each order carries two agreed amounts: BaseAmount is billed to the shipper
// (sales side), PurchaseAmount is paid to the carrier or driver (purchase
// side).
type Order struct {
	id             kernel.UUID
	shipperID      kernel.UUID
	carrierID      kernel.UUID
	baseAmount     kernel.Amount
	purchaseAmount kernel.Amount
	pickupDate     time.Time
	deliveryDate   time.Time

	guard guard.ConstructorGuard
}

// RestoreOrder rebuilds an order from the ledger.
func RestoreOrder(
	id, shipperID, carrierID kernel.UUID,
	baseAmount, purchaseAmount kernel.Amount,
	pickupDate, deliveryDate time.Time,
) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(id),
		o.setCounterparties(shipperID, carrierID),
		o.setAmounts(baseAmount, purchaseAmount),
		o.setDates(pickupDate, deliveryDate),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate reports ErrOrderIsNotConstructed for orders not built by
// RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order id.
func (o *Order) ID() kernel.UUID { return o.id }

// ShipperID is the sales-side counterparty.
func (o *Order) ShipperID() kernel.UUID { return o.shipperID }

// CarrierID is the purchase-side counterparty.
func (o *Order) CarrierID() kernel.UUID { return o.carrierID }

// BaseAmount is what the shipper is billed.
func (o *Order) BaseAmount() kernel.Amount { return o.baseAmount }

// PurchaseAmount is what the carrier is paid.
func (o *Order) PurchaseAmount() kernel.Amount { return o.purchaseAmount }

// PickupDate anchors departure periods.
func (o *Order) PickupDate() time.Time { return o.pickupDate }

// DeliveryDate anchors arrival periods.
func (o *Order) DeliveryDate() time.Time { return o.deliveryDate }

// CounterpartyFor returns the shipper for Sales and the carrier for Purchase.
func (o *Order) CounterpartyFor(side kernel.Side) (kernel.UUID, error) {
	switch side {
	case kernel.Sales:
		return o.shipperID, nil
	case kernel.Purchase:
		return o.carrierID, nil
	default:
		return kernel.UUID{}, side.Validate()
	}
}

// AmountFor returns the amount a bundle of the given side settles for this
// order.
func (o *Order) AmountFor(side kernel.Side) (kernel.Amount, error) {
	switch side {
	case kernel.Sales:
		return o.baseAmount, nil
	case kernel.Purchase:
		return o.purchaseAmount, nil
	default:
		return kernel.Amount{}, side.Validate()
	}
}

// AnchorFor returns the date that places the order inside a settlement
// period.
func (o *Order) AnchorFor(periodType kernel.PeriodType) (time.Time, error) {
	switch periodType {
	case kernel.Departure:
		return o.pickupDate, nil
	case kernel.Arrival:
		return o.deliveryDate, nil
	default:
		return time.Time{}, periodType.Validate()
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCounterparties(shipperID, carrierID kernel.UUID) error {
	if err := shipperID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipperId", err)
	}
	if err := carrierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("carrierId", err)
	}
	o.shipperID = shipperID
	o.carrierID = carrierID
	return nil
}

func (o *Order) setAmounts(baseAmount, purchaseAmount kernel.Amount) error {
	if err := errors.Join(baseAmount.Validate(), purchaseAmount.Validate()); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("amount", err)
	}
	o.baseAmount = baseAmount
	o.purchaseAmount = purchaseAmount
	return nil
}

func (o *Order) setDates(pickupDate, deliveryDate time.Time) error {
	if pickupDate.IsZero() {
		return errs.NewValueIsRequiredError("pickupDate")
	}
	if deliveryDate.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	if deliveryDate.Before(pickupDate) {
		return errs.NewValueIsInvalidErrorWithCause("deliveryDate",
			fmt.Errorf("%s is before pickup date %s", deliveryDate.Format(time.DateOnly), pickupDate.Format(time.DateOnly)))
	}
	o.pickupDate = pickupDate
	o.deliveryDate = deliveryDate
	return nil
}
