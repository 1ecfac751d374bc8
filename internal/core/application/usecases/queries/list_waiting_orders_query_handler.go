package queries

import (
	"context"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListWaitingOrdersQueryHandler reads the waiting pool. Membership is
// derived live from bundle_items joined to non-canceled bundles, so a
// canceled or deleted bundle returns its orders to the pool immediately.
type ListWaitingOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListWaitingOrdersQueryHandler reads from db directly, outside any unit
// of work.
func NewListWaitingOrdersQueryHandler(db *gorm.DB) ListWaitingOrdersQueryHandler {
	return ListWaitingOrdersQueryHandler{db: db}
}

// Handle returns the waiting orders ordered by period anchor, then id. An
// explicit counterparty filter naming an unknown counterparty is an
// ObjectNotFoundError; any other empty result is just empty.
func (h ListWaitingOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListWaitingOrdersQuery,
) ([]WaitingOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	counterpartyColumn, amountColumn := "o.shipper_id", "o.base_amount"
	if query.Side() == kernel.Purchase {
		counterpartyColumn, amountColumn = "o.carrier_id", "o.purchase_amount"
	}
	anchorColumn := "o.pickup_date"
	if query.PeriodType() == kernel.Arrival {
		anchorColumn = "o.delivery_date"
	}

	if id := query.CounterpartyID(); id != nil {
		var count int64
		if err := h.db.WithContext(ctx).Table("counterparties").Where("id = ?", id.Value()).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, errs.NewObjectNotFoundError("counterparty", id.String())
		}
	}

	tx := h.db.WithContext(ctx).
		Table("freight_orders o").
		Select("o.id, "+counterpartyColumn+", "+amountColumn+", o.pickup_date, o.delivery_date").
		Joins(`LEFT JOIN (
			SELECT bi.order_id
			FROM bundle_items bi
			JOIN bundles b ON b.id = bi.bundle_id
			WHERE b.side = ? AND b.status <> ?
		) m ON m.order_id = o.id`, int(query.Side()), int(bundle.Canceled)).
		Where("m.order_id IS NULL")

	if id := query.CounterpartyID(); id != nil {
		tx = tx.Where(counterpartyColumn+" = ?", id.Value())
	}
	if from := query.From(); from != nil {
		tx = tx.Where(anchorColumn+" >= ?", *from)
	}
	if to := query.To(); to != nil {
		tx = tx.Where(anchorColumn+" <= ?", *to)
	}

	rows, err := tx.Order(anchorColumn + ", o.id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]WaitingOrder, 0)
	for rows.Next() {
		var id, counterpartyID uuid.UUID
		var amount decimal.Decimal
		var order WaitingOrder

		if err = rows.Scan(&id, &counterpartyID, &amount, &order.PickupDate, &order.DeliveryDate); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFrom(id)
		if idErr != nil {
			return nil, idErr
		}
		cpID, idErr := kernel.UUIDFrom(counterpartyID)
		if idErr != nil {
			return nil, idErr
		}

		order.ID = orderID
		order.CounterpartyID = cpID
		order.Amount = amount
		order.PeriodAnchor = order.PickupDate
		if query.PeriodType() == kernel.Arrival {
			order.PeriodAnchor = order.DeliveryDate
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
