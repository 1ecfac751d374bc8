package queries

import (
	"errors"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	DefaultListBundlesLimit = 50
	MaxListBundlesLimit     = 200
)

var (
	ErrListBundlesQueryIsNotConstructed = errors.New(
		"ListBundlesQuery must be created via NewListBundlesQuery constructor",
	)
)

// ListBundlesQuery pages through the bundle headers of one side for the back
// office list, newest first.
type ListBundlesQuery struct {
	side           kernel.Side
	status         *bundle.Status
	counterpartyID *kernel.UUID
	limit          int
	offset         int

	guard guard.ConstructorGuard
}

// NewListBundlesQuery validates the filter. A zero limit means
// DefaultListBundlesLimit.
func NewListBundlesQuery(
	side kernel.Side,
	status *bundle.Status,
	counterpartyID *kernel.UUID,
	limit, offset int,
) (ListBundlesQuery, error) {
	if limit == 0 {
		limit = DefaultListBundlesLimit
	}

	var statusErr, counterpartyErr, limitErr, offsetErr error
	if status != nil {
		statusErr = status.Validate()
	}
	if counterpartyID != nil {
		counterpartyErr = counterpartyID.Validate()
	}
	if limit < 1 || limit > MaxListBundlesLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListBundlesLimit)
	}
	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	if err := errors.Join(side.Validate(), statusErr, counterpartyErr, limitErr, offsetErr); err != nil {
		return ListBundlesQuery{}, err
	}

	return ListBundlesQuery{
		side:           side,
		status:         status,
		counterpartyID: counterpartyID,
		limit:          limit,
		offset:         offset,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the query was built by its constructor.
func (q ListBundlesQuery) Validate() error {
	return q.guard.Validate(ErrListBundlesQueryIsNotConstructed)
}

// Side filters bundles by side.
func (q ListBundlesQuery) Side() kernel.Side { return q.side }

// Status optionally filters by lifecycle state.
func (q ListBundlesQuery) Status() *bundle.Status { return q.status }

// CounterpartyID optionally filters by counterparty.
func (q ListBundlesQuery) CounterpartyID() *kernel.UUID { return q.counterpartyID }

// Limit caps the page size.
func (q ListBundlesQuery) Limit() int { return q.limit }

// Offset skips that many rows.
func (q ListBundlesQuery) Offset() int { return q.offset }

// BundleSummary is one row of the bundle list. Totals are the cached
// columns.
type BundleSummary struct {
	ID                 kernel.UUID
	Side               kernel.Side
	Status             bundle.Status
	CounterpartyID     kernel.UUID
	CounterpartyName   string
	PeriodType         kernel.PeriodType
	PeriodFrom         time.Time
	PeriodTo           time.Time
	OrderCount         int
	TotalAmount        decimal.Decimal
	TotalTaxAmount     decimal.Decimal
	TotalAmountWithTax decimal.Decimal
	CreatedAt          time.Time
}
