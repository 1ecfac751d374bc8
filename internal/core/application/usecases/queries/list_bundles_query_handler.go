package queries

import (
	"context"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListBundlesQueryHandler pages through bundle headers, newest first.
type ListBundlesQueryHandler struct {
	db *gorm.DB
}

// NewListBundlesQueryHandler reads from db directly, outside any unit of
// work.
func NewListBundlesQueryHandler(db *gorm.DB) ListBundlesQueryHandler {
	return ListBundlesQueryHandler{db: db}
}

// Handle returns one page of summaries.
func (h ListBundlesQueryHandler) Handle(ctx context.Context, query ListBundlesQuery) ([]BundleSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("bundles").
		Select(`id, side, status, counterparty_id, counterparty_name, period_type, period_from, period_to,
			order_count, total_amount, total_tax_amount, total_amount_with_tax, created_at`).
		Where("side = ?", int(query.Side()))

	if status := query.Status(); status != nil {
		tx = tx.Where("status = ?", int(*status))
	}
	if id := query.CounterpartyID(); id != nil {
		tx = tx.Where("counterparty_id = ?", id.Value())
	}

	rows, err := tx.Order("created_at DESC, id").Limit(query.Limit()).Offset(query.Offset()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]BundleSummary, 0)
	for rows.Next() {
		var id, counterpartyID uuid.UUID
		var side, status, periodType int
		var summary BundleSummary

		if err = rows.Scan(
			&id,
			&side,
			&status,
			&counterpartyID,
			&summary.CounterpartyName,
			&periodType,
			&summary.PeriodFrom,
			&summary.PeriodTo,
			&summary.OrderCount,
			&summary.TotalAmount,
			&summary.TotalTaxAmount,
			&summary.TotalAmountWithTax,
			&summary.CreatedAt,
		); err != nil {
			return nil, err
		}

		bundleID, idErr := kernel.UUIDFrom(id)
		if idErr != nil {
			return nil, idErr
		}
		cpID, idErr := kernel.UUIDFrom(counterpartyID)
		if idErr != nil {
			return nil, idErr
		}

		summary.ID = bundleID
		summary.CounterpartyID = cpID
		summary.Side = kernel.Side(side)
		summary.Status = bundle.Status(status)
		summary.PeriodType = kernel.PeriodType(periodType)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
