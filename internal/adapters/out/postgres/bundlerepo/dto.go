// Package bundlerepo persists the bundle aggregate: the header row in
// bundles, one bundle_items row per member order and the adjustments in
// bundle_adjustments and item_adjustments. Children are cascade-deleted with
// their bundle.
package bundlerepo

import (
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BundleDTO is the header row. Totals are cached columns, recomputed by the
// aggregate on every mutation.
type BundleDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Side              int             `gorm:"type:smallint;not null;index:idx_bundles_side_status"`
	Status            int             `gorm:"type:smallint;not null;index:idx_bundles_side_status"`
	CounterpartyID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Counterparty      SnapshotDTO     `gorm:"embedded;embeddedPrefix:counterparty_"`
	PeriodType        int             `gorm:"type:smallint;not null"`
	PeriodFrom        time.Time       `gorm:"type:date;not null"`
	PeriodTo          time.Time       `gorm:"type:date;not null"`
	PeriodOverridden  bool            `gorm:"not null;default:false"`
	OrderCount        int             `gorm:"not null"`
	TaxFree           bool            `gorm:"not null;default:false"`
	TaxRate           decimal.Decimal `gorm:"type:numeric(5,4);not null"`
	CurrencyScale     int32           `gorm:"type:smallint;not null"`
	InvoiceIssuedAt   *time.Time      `gorm:"type:date"`
	DepositReceivedAt *time.Time      `gorm:"type:date"`
	Memo              string          `gorm:"type:text"`
	Totals            TotalsDTO       `gorm:"embedded"`
	Version           int             `gorm:"not null"`
	CreatedBy         string          `gorm:"type:varchar(255)"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime:false"`
	CompletedAt       *time.Time
	CanceledAt        *time.Time
	CancelReason      string `gorm:"type:text"`

	Items       []BundleItemDTO       `gorm:"foreignKey:BundleID;constraint:OnDelete:CASCADE"`
	Adjustments []BundleAdjustmentDTO `gorm:"foreignKey:BundleID;constraint:OnDelete:CASCADE"`
}

func (BundleDTO) TableName() string {
	return "bundles"
}

// SnapshotDTO is the counterparty snapshot embedded in the header row.
type SnapshotDTO struct {
	Name              string `gorm:"type:varchar(255);not null"`
	TaxID             string `gorm:"type:varchar(64);not null"`
	BankCode          string `gorm:"type:varchar(32)"`
	BankAccount       string `gorm:"type:varchar(64)"`
	BankAccountHolder string `gorm:"type:varchar(255)"`
	ManagerName       string `gorm:"type:varchar(255)"`
	ManagerContact    string `gorm:"type:varchar(255)"`
}

// TotalsDTO holds the cached total columns embedded in BundleDTO.
type TotalsDTO struct {
	TotalAmount          decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	TotalTaxAmount       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	TotalAmountWithTax   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	ItemExtraAmount      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	ItemExtraAmountTax   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	BundleExtraAmount    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	BundleExtraAmountTax decimal.Decimal `gorm:"type:numeric(18,4);not null"`
}

// BundleItemDTO is a membership row. Side and Active are copied from the
// header so that a partial unique index on (order_id, side) WHERE active can
// reject a second active membership of the same order.
type BundleItemDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BundleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Side         int             `gorm:"type:smallint;not null"`
	Active       bool            `gorm:"not null"`
	Position     int             `gorm:"not null"`
	BaseAmount   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PickupDate   time.Time       `gorm:"type:date;not null"`
	DeliveryDate time.Time       `gorm:"type:date;not null"`

	Adjustments []ItemAdjustmentDTO `gorm:"foreignKey:BundleItemID;constraint:OnDelete:CASCADE"`
}

func (BundleItemDTO) TableName() string {
	return "bundle_items"
}

// AdjustmentColumns are shared by both adjustment tables.
type AdjustmentColumns struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Type        int             `gorm:"type:smallint;not null"`
	Description string          `gorm:"type:text;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	CreatedBy   string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime:false"`
}

// BundleAdjustmentDTO is a row of bundle_adjustments.
type BundleAdjustmentDTO struct {
	AdjustmentColumns `gorm:"embedded"`
	BundleID          uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (BundleAdjustmentDTO) TableName() string {
	return "bundle_adjustments"
}

// ItemAdjustmentDTO is a row of item_adjustments.
type ItemAdjustmentDTO struct {
	AdjustmentColumns `gorm:"embedded"`
	BundleItemID      uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (ItemAdjustmentDTO) TableName() string {
	return "item_adjustments"
}

// fromDomain converts the aggregate into its rows. The stored version is the
// one the write will produce.
func fromDomain(aggregate *bundle.Bundle) BundleDTO {
	bundleID := aggregate.ID().Value()
	active := aggregate.Status() != bundle.Canceled
	snapshot := aggregate.Counterparty()
	payment := aggregate.Payment()
	totals := aggregate.Totals()

	items := make([]BundleItemDTO, 0, aggregate.OrderCount())
	for idx, item := range aggregate.Items() {
		itemID := item.ID().Value()
		adjustments := make([]ItemAdjustmentDTO, 0, len(item.Adjustments()))
		for _, adj := range item.Adjustments() {
			adjustments = append(adjustments, ItemAdjustmentDTO{
				AdjustmentColumns: adjustmentColumns(adj),
				BundleItemID:      itemID,
			})
		}

		items = append(items, BundleItemDTO{
			ID:           itemID,
			BundleID:     bundleID,
			OrderID:      item.OrderID().Value(),
			Side:         int(aggregate.Side()),
			Active:       active,
			Position:     idx,
			BaseAmount:   item.BaseAmount().Decimal(),
			PickupDate:   item.PickupDate(),
			DeliveryDate: item.DeliveryDate(),
			Adjustments:  adjustments,
		})
	}

	adjustments := make([]BundleAdjustmentDTO, 0, len(aggregate.Adjustments()))
	for _, adj := range aggregate.Adjustments() {
		adjustments = append(adjustments, BundleAdjustmentDTO{
			AdjustmentColumns: adjustmentColumns(adj),
			BundleID:          bundleID,
		})
	}

	return BundleDTO{
		ID:             bundleID,
		Side:           int(aggregate.Side()),
		Status:         int(aggregate.Status()),
		CounterpartyID: aggregate.CounterpartyID().Value(),
		Counterparty: SnapshotDTO{
			Name:              snapshot.Name(),
			TaxID:             snapshot.TaxID(),
			BankCode:          snapshot.BankCode(),
			BankAccount:       snapshot.BankAccount(),
			BankAccountHolder: snapshot.BankAccountHolder(),
			ManagerName:       snapshot.ManagerName(),
			ManagerContact:    snapshot.ManagerContact(),
		},
		PeriodType:        int(aggregate.PeriodType()),
		PeriodFrom:        aggregate.PeriodFrom(),
		PeriodTo:          aggregate.PeriodTo(),
		PeriodOverridden:  aggregate.PeriodOverridden(),
		OrderCount:        aggregate.OrderCount(),
		TaxFree:           payment.TaxFree,
		TaxRate:           aggregate.Policy().TaxRate,
		CurrencyScale:     aggregate.Policy().CurrencyScale,
		InvoiceIssuedAt:   payment.InvoiceIssuedAt,
		DepositReceivedAt: payment.DepositReceivedAt,
		Memo:              payment.Memo,
		Totals: TotalsDTO{
			TotalAmount:          totals.TotalAmount,
			TotalTaxAmount:       totals.TotalTaxAmount,
			TotalAmountWithTax:   totals.TotalAmountWithTax,
			ItemExtraAmount:      totals.ItemExtraAmount,
			ItemExtraAmountTax:   totals.ItemExtraAmountTax,
			BundleExtraAmount:    totals.BundleExtraAmount,
			BundleExtraAmountTax: totals.BundleExtraAmountTax,
		},
		Version:      aggregate.Version() + 1,
		CreatedBy:    aggregate.CreatedBy(),
		CreatedAt:    aggregate.CreatedAt(),
		UpdatedAt:    aggregate.UpdatedAt(),
		CompletedAt:  aggregate.CompletedAt(),
		CanceledAt:   aggregate.CanceledAt(),
		CancelReason: aggregate.CancelReason(),
		Items:        items,
		Adjustments:  adjustments,
	}
}

func adjustmentColumns(adj *bundle.Adjustment) AdjustmentColumns {
	return AdjustmentColumns{
		ID:          adj.ID().Value(),
		Type:        int(adj.Type()),
		Description: adj.Description(),
		Amount:      adj.Amount().Decimal(),
		TaxAmount:   adj.TaxAmount().Decimal(),
		CreatedBy:   adj.CreatedBy(),
		CreatedAt:   adj.CreatedAt(),
	}
}

// ToDomain rebuilds the aggregate, keeping the cached totals as stored. The
// read model uses it to report drift.
func ToDomain(dto BundleDTO) (*bundle.Bundle, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	counterpartyID, err := kernel.UUIDFrom(dto.CounterpartyID)
	if err != nil {
		return nil, err
	}

	snapshot, err := bundle.NewCounterpartySnapshot(
		dto.Counterparty.Name,
		dto.Counterparty.TaxID,
		dto.Counterparty.BankCode,
		dto.Counterparty.BankAccount,
		dto.Counterparty.BankAccountHolder,
		dto.Counterparty.ManagerName,
		dto.Counterparty.ManagerContact,
	)
	if err != nil {
		return nil, err
	}

	items := make([]*bundle.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	adjustments := make([]*bundle.Adjustment, 0, len(dto.Adjustments))
	for _, adjDTO := range dto.Adjustments {
		adj, adjErr := adjustmentToDomain(adjDTO.AdjustmentColumns)
		if adjErr != nil {
			return nil, adjErr
		}
		adjustments = append(adjustments, adj)
	}

	return bundle.RestoreBundle(bundle.State{
		ID:               id,
		Side:             kernel.Side(dto.Side),
		CounterpartyID:   counterpartyID,
		Counterparty:     snapshot,
		PeriodType:       kernel.PeriodType(dto.PeriodType),
		PeriodFrom:       dto.PeriodFrom,
		PeriodTo:         dto.PeriodTo,
		PeriodOverridden: dto.PeriodOverridden,
		Status:           bundle.Status(dto.Status),
		Payment: bundle.PaymentInfo{
			InvoiceIssuedAt:   dto.InvoiceIssuedAt,
			DepositReceivedAt: dto.DepositReceivedAt,
			TaxFree:           dto.TaxFree,
			Memo:              dto.Memo,
		},
		Policy: bundle.Policy{
			TaxRate:       dto.TaxRate,
			CurrencyScale: dto.CurrencyScale,
		},
		Items:       items,
		Adjustments: adjustments,
		Totals: bundle.Totals{
			TotalAmount:          dto.Totals.TotalAmount,
			TotalTaxAmount:       dto.Totals.TotalTaxAmount,
			TotalAmountWithTax:   dto.Totals.TotalAmountWithTax,
			ItemExtraAmount:      dto.Totals.ItemExtraAmount,
			ItemExtraAmountTax:   dto.Totals.ItemExtraAmountTax,
			BundleExtraAmount:    dto.Totals.BundleExtraAmount,
			BundleExtraAmountTax: dto.Totals.BundleExtraAmountTax,
		},
		Version:      dto.Version,
		CreatedBy:    dto.CreatedBy,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
		CompletedAt:  dto.CompletedAt,
		CanceledAt:   dto.CanceledAt,
		CancelReason: dto.CancelReason,
	})
}

func itemToDomain(dto BundleItemDTO) (*bundle.Item, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFrom(dto.OrderID)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewAmount(dto.BaseAmount)
	if err != nil {
		return nil, err
	}

	adjustments := make([]*bundle.Adjustment, 0, len(dto.Adjustments))
	for _, adjDTO := range dto.Adjustments {
		adj, adjErr := adjustmentToDomain(adjDTO.AdjustmentColumns)
		if adjErr != nil {
			return nil, adjErr
		}
		adjustments = append(adjustments, adj)
	}

	return bundle.RestoreItem(id, orderID, amount, dto.PickupDate, dto.DeliveryDate, adjustments)
}

func adjustmentToDomain(dto AdjustmentColumns) (*bundle.Adjustment, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewAmount(dto.Amount)
	if err != nil {
		return nil, err
	}
	taxAmount, err := kernel.NewAmount(dto.TaxAmount)
	if err != nil {
		return nil, err
	}

	return bundle.RestoreAdjustment(
		id,
		bundle.AdjustmentType(dto.Type),
		dto.Description,
		amount,
		taxAmount,
		dto.CreatedBy,
		dto.CreatedAt,
	)
}
