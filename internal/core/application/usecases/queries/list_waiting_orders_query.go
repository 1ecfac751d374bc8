package queries

import (
	"errors"
	"fmt"
	"time"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrListWaitingOrdersQueryIsNotConstructed = errors.New(
		"ListWaitingOrdersQuery must be created via NewListWaitingOrdersQuery constructor",
	)
)

// ListWaitingOrdersQuery selects the orders of one side that no active bundle
// of that side owns yet, optionally narrowed to one counterparty and to an
// anchor date range.
//
// Example:
//
//	query, err := NewListWaitingOrdersQuery(kernel.Sales, &shipperID, kernel.Departure, &from, &to)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
//	for counterpartyID, group := range GroupByCounterparty(orders) {
//	    fmt.Printf("%s has %d orders waiting\n", counterpartyID, len(group))
//	}
type ListWaitingOrdersQuery struct {
	side           kernel.Side
	counterpartyID *kernel.UUID
	periodType     kernel.PeriodType
	from           *time.Time
	to             *time.Time

	guard guard.ConstructorGuard
}

// NewListWaitingOrdersQuery validates the filter. from and to are inclusive
// bounds on the period anchor.
func NewListWaitingOrdersQuery(
	side kernel.Side,
	counterpartyID *kernel.UUID,
	periodType kernel.PeriodType,
	from, to *time.Time,
) (ListWaitingOrdersQuery, error) {
	var counterpartyErr, rangeErr error
	if counterpartyID != nil {
		counterpartyErr = counterpartyID.Validate()
	}
	if from != nil && to != nil && to.Before(*from) {
		rangeErr = errs.NewValueIsInvalidErrorWithCause("period",
			fmt.Errorf("from %s is after to %s", from.Format(time.DateOnly), to.Format(time.DateOnly)))
	}

	if err := errors.Join(side.Validate(), periodType.Validate(), counterpartyErr, rangeErr); err != nil {
		return ListWaitingOrdersQuery{}, err
	}

	return ListWaitingOrdersQuery{
		side:           side,
		counterpartyID: counterpartyID,
		periodType:     periodType,
		from:           from,
		to:             to,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the query was built by its constructor.
func (q ListWaitingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListWaitingOrdersQueryIsNotConstructed)
}

// Side selects which counterparty and amount of each order apply.
func (q ListWaitingOrdersQuery) Side() kernel.Side { return q.side }

// CounterpartyID optionally narrows the pool to one counterparty.
func (q ListWaitingOrdersQuery) CounterpartyID() *kernel.UUID { return q.counterpartyID }

// PeriodType picks the date that From and To apply to.
func (q ListWaitingOrdersQuery) PeriodType() kernel.PeriodType { return q.periodType }

// From is the inclusive lower bound of the anchor date.
func (q ListWaitingOrdersQuery) From() *time.Time { return q.from }

// To is the inclusive upper bound of the anchor date.
func (q ListWaitingOrdersQuery) To() *time.Time { return q.to }

// WaitingOrder is an order seen from the queried side: CounterpartyID is the
// shipper for sales and the carrier for purchase, Amount the matching base
// amount and PeriodAnchor the date the period type selects.
type WaitingOrder struct {
	ID             kernel.UUID
	CounterpartyID kernel.UUID
	Amount         decimal.Decimal
	PickupDate     time.Time
	DeliveryDate   time.Time
	PeriodAnchor   time.Time
}

// GroupByCounterparty buckets waiting orders per counterparty, keeping the
// anchor order within each bucket.
func GroupByCounterparty(orders []WaitingOrder) map[kernel.UUID][]WaitingOrder {
	groups := make(map[kernel.UUID][]WaitingOrder)
	for _, o := range orders {
		groups[o.CounterpartyID] = append(groups[o.CounterpartyID], o)
	}
	return groups
}
