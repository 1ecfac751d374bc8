package queries

import (
	"errors"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetBundleWithTotalsQueryIsNotConstructed = errors.New(
		"GetBundleWithTotalsQuery must be created via NewGetBundleWithTotalsQuery constructor",
	)
)

// GetBundleWithTotalsQuery asks for one bundle with totals recomputed at
// read time.
type GetBundleWithTotalsQuery struct {
	bundleID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetBundleWithTotalsQuery requires a bundle id.
func NewGetBundleWithTotalsQuery(bundleID kernel.UUID) (GetBundleWithTotalsQuery, error) {
	if err := bundleID.Validate(); err != nil {
		return GetBundleWithTotalsQuery{}, err
	}
	return GetBundleWithTotalsQuery{bundleID: bundleID, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the query was built by its constructor.
func (q GetBundleWithTotalsQuery) Validate() error {
	return q.guard.Validate(ErrGetBundleWithTotalsQueryIsNotConstructed)
}

// BundleID is the bundle to read.
func (q GetBundleWithTotalsQuery) BundleID() kernel.UUID {
	return q.bundleID
}

// BundleView is the full read model of a bundle. Totals are computed at read
// time; CachedTotals are the stored columns and TotalsDrift flags any
// difference between the two.
type BundleView struct {
	ID               kernel.UUID
	Side             kernel.Side
	Status           bundle.Status
	CounterpartyID   kernel.UUID
	Counterparty     CounterpartyView
	PeriodType       kernel.PeriodType
	PeriodFrom       time.Time
	PeriodTo         time.Time
	PeriodOverridden bool
	OrderCount       int
	Payment          bundle.PaymentInfo
	TaxRate          decimal.Decimal
	CurrencyScale    int32
	Items            []ItemView
	Adjustments      []AdjustmentView
	Totals           bundle.Totals
	CachedTotals     bundle.Totals
	TotalsDrift      bool
	Version          int
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
	CanceledAt       *time.Time
	CancelReason     string
}

// CounterpartyView is the snapshot as frozen on the bundle.
type CounterpartyView struct {
	Name              string
	TaxID             string
	BankCode          string
	BankAccount       string
	BankAccountHolder string
	ManagerName       string
	ManagerContact    string
}

// ItemView is one membership row with its adjustments.
type ItemView struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	BaseAmount   decimal.Decimal
	PickupDate   time.Time
	DeliveryDate time.Time
	PeriodAnchor time.Time
	Adjustments  []AdjustmentView
}

// AdjustmentView is an adjustment at either level.
type AdjustmentView struct {
	ID          kernel.UUID
	Type        bundle.AdjustmentType
	Description string
	Amount      decimal.Decimal
	TaxAmount   decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
}

// NewBundleView projects an aggregate into its read model.
func NewBundleView(b *bundle.Bundle) BundleView {
	snapshot := b.Counterparty()
	recalculated := b.RecalculatedTotals()

	items := make([]ItemView, 0, b.OrderCount())
	for _, item := range b.Items() {
		items = append(items, ItemView{
			ID:           item.ID(),
			OrderID:      item.OrderID(),
			BaseAmount:   item.BaseAmount().Decimal(),
			PickupDate:   item.PickupDate(),
			DeliveryDate: item.DeliveryDate(),
			PeriodAnchor: item.PeriodAnchor(b.PeriodType()),
			Adjustments:  adjustmentViews(item.Adjustments()),
		})
	}

	return BundleView{
		ID:             b.ID(),
		Side:           b.Side(),
		Status:         b.Status(),
		CounterpartyID: b.CounterpartyID(),
		Counterparty: CounterpartyView{
			Name:              snapshot.Name(),
			TaxID:             snapshot.TaxID(),
			BankCode:          snapshot.BankCode(),
			BankAccount:       snapshot.BankAccount(),
			BankAccountHolder: snapshot.BankAccountHolder(),
			ManagerName:       snapshot.ManagerName(),
			ManagerContact:    snapshot.ManagerContact(),
		},
		PeriodType:       b.PeriodType(),
		PeriodFrom:       b.PeriodFrom(),
		PeriodTo:         b.PeriodTo(),
		PeriodOverridden: b.PeriodOverridden(),
		OrderCount:       b.OrderCount(),
		Payment:          b.Payment(),
		TaxRate:          b.Policy().TaxRate,
		CurrencyScale:    b.Policy().CurrencyScale,
		Items:            items,
		Adjustments:      adjustmentViews(b.Adjustments()),
		Totals:           recalculated,
		CachedTotals:     b.Totals(),
		TotalsDrift:      !recalculated.Equal(b.Totals()),
		Version:          b.Version(),
		CreatedBy:        b.CreatedBy(),
		CreatedAt:        b.CreatedAt(),
		UpdatedAt:        b.UpdatedAt(),
		CompletedAt:      b.CompletedAt(),
		CanceledAt:       b.CanceledAt(),
		CancelReason:     b.CancelReason(),
	}
}

func adjustmentViews(adjustments []*bundle.Adjustment) []AdjustmentView {
	views := make([]AdjustmentView, 0, len(adjustments))
	for _, adj := range adjustments {
		views = append(views, AdjustmentView{
			ID:          adj.ID(),
			Type:        adj.Type(),
			Description: adj.Description(),
			Amount:      adj.Amount().Decimal(),
			TaxAmount:   adj.TaxAmount().Decimal(),
			CreatedBy:   adj.CreatedBy(),
			CreatedAt:   adj.CreatedAt(),
		})
	}
	return views
}
