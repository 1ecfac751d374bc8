package http

import (
	"time"

	"settlement/internal/core/application/usecases/queries"
	"settlement/internal/core/domain/model/bundle"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Created is the body of 201 responses.
type Created struct {
	ID uuid.UUID `json:"id"`
}

// Counterparty is a counterparty snapshot on the wire.
type Counterparty struct {
	Name              string `json:"name" validate:"required,max=200"`
	TaxID             string `json:"tax_id" validate:"required,max=32"`
	BankCode          string `json:"bank_code,omitempty" validate:"max=16"`
	BankAccount       string `json:"bank_account,omitempty" validate:"max=64"`
	BankAccountHolder string `json:"bank_account_holder,omitempty" validate:"max=200"`
	ManagerName       string `json:"manager_name,omitempty" validate:"max=200"`
	ManagerContact    string `json:"manager_contact,omitempty" validate:"max=200"`
}

// Payment carries the payment fields of create and update requests.
type Payment struct {
	InvoiceIssuedAt   *openapi_types.Date `json:"invoice_issued_at,omitempty"`
	DepositReceivedAt *openapi_types.Date `json:"deposit_received_at,omitempty"`
	TaxFree           bool                `json:"tax_free"`
	Memo              string              `json:"memo,omitempty" validate:"max=1000"`
}

// NewBundle is the body of POST /bundles.
type NewBundle struct {
	Side           string              `json:"side" validate:"required,oneof=sales purchase"`
	CounterpartyID uuid.UUID           `json:"counterparty_id" validate:"required"`
	OrderIDs       []uuid.UUID         `json:"order_ids" validate:"required,min=1,unique"`
	Counterparty   *Counterparty       `json:"counterparty,omitempty"`
	PeriodType     string              `json:"period_type" validate:"required,oneof=departure arrival"`
	PeriodFrom     *openapi_types.Date `json:"period_from,omitempty"`
	PeriodTo       *openapi_types.Date `json:"period_to,omitempty"`
	Payment        Payment             `json:"payment"`
	CreatedBy      string              `json:"created_by,omitempty" validate:"max=100"`
}

// BundleUpdate is the body of PUT /bundles/{id}. Issue also moves a draft
// to issued.
type BundleUpdate struct {
	Counterparty *Counterparty       `json:"counterparty,omitempty"`
	PeriodType   string              `json:"period_type,omitempty" validate:"omitempty,oneof=departure arrival"`
	PeriodFrom   *openapi_types.Date `json:"period_from,omitempty"`
	PeriodTo     *openapi_types.Date `json:"period_to,omitempty"`
	Payment      Payment             `json:"payment"`
	Issue        bool                `json:"issue"`
}

// CancelRequest is the optional body of POST /bundles/{id}/cancel.
type CancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// NewAdjustment is the body of both adjustment endpoints. Amounts are
// decimal strings.
type NewAdjustment struct {
	Type        string `json:"type" validate:"required,oneof=discount surcharge"`
	Description string `json:"description" validate:"required,max=500"`
	Amount      string `json:"amount" validate:"required"`
	TaxAmount   string `json:"tax_amount,omitempty"`
	CreatedBy   string `json:"created_by,omitempty" validate:"max=100"`
}

// WaitingOrder is one entry of the waiting pool.
type WaitingOrder struct {
	ID             uuid.UUID          `json:"id"`
	CounterpartyID uuid.UUID          `json:"counterparty_id"`
	Amount         decimal.Decimal    `json:"amount"`
	PickupDate     openapi_types.Date `json:"pickup_date"`
	DeliveryDate   openapi_types.Date `json:"delivery_date"`
	PeriodAnchor   openapi_types.Date `json:"period_anchor"`
}

// BundleSummary is one row of the bundle list.
type BundleSummary struct {
	ID                 uuid.UUID          `json:"id"`
	Side               string             `json:"side"`
	Status             string             `json:"status"`
	CounterpartyID     uuid.UUID          `json:"counterparty_id"`
	CounterpartyName   string             `json:"counterparty_name"`
	PeriodType         string             `json:"period_type"`
	PeriodFrom         openapi_types.Date `json:"period_from"`
	PeriodTo           openapi_types.Date `json:"period_to"`
	OrderCount         int                `json:"order_count"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	TotalTaxAmount     decimal.Decimal    `json:"total_tax_amount"`
	TotalAmountWithTax decimal.Decimal    `json:"total_amount_with_tax"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Totals are serialized as decimal strings.
type Totals struct {
	TotalAmount          decimal.Decimal `json:"total_amount"`
	TotalTaxAmount       decimal.Decimal `json:"total_tax_amount"`
	TotalAmountWithTax   decimal.Decimal `json:"total_amount_with_tax"`
	ItemExtraAmount      decimal.Decimal `json:"item_extra_amount"`
	ItemExtraAmountTax   decimal.Decimal `json:"item_extra_amount_tax"`
	BundleExtraAmount    decimal.Decimal `json:"bundle_extra_amount"`
	BundleExtraAmountTax decimal.Decimal `json:"bundle_extra_amount_tax"`
}

// Adjustment is an adjustment at either level.
type Adjustment struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Item is a bundle member with its adjustments.
type Item struct {
	ID           uuid.UUID          `json:"id"`
	OrderID      uuid.UUID          `json:"order_id"`
	BaseAmount   decimal.Decimal    `json:"base_amount"`
	PickupDate   openapi_types.Date `json:"pickup_date"`
	DeliveryDate openapi_types.Date `json:"delivery_date"`
	PeriodAnchor openapi_types.Date `json:"period_anchor"`
	Adjustments  []Adjustment       `json:"adjustments"`
}

// Bundle is the body of GET /bundles/{id}.
type Bundle struct {
	ID               uuid.UUID          `json:"id"`
	Side             string             `json:"side"`
	Status           string             `json:"status"`
	CounterpartyID   uuid.UUID          `json:"counterparty_id"`
	Counterparty     Counterparty       `json:"counterparty"`
	PeriodType       string             `json:"period_type"`
	PeriodFrom       openapi_types.Date `json:"period_from"`
	PeriodTo         openapi_types.Date `json:"period_to"`
	PeriodOverridden bool               `json:"period_overridden"`
	OrderCount       int                `json:"order_count"`
	Payment          Payment            `json:"payment"`
	TaxRate          decimal.Decimal    `json:"tax_rate"`
	CurrencyScale    int32              `json:"currency_scale"`
	Items            []Item             `json:"items"`
	Adjustments      []Adjustment       `json:"adjustments"`
	Totals           Totals             `json:"totals"`
	TotalsDrift      bool               `json:"totals_drift"`
	Version          int                `json:"version"`
	CreatedBy        string             `json:"created_by,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
	CanceledAt       *time.Time         `json:"canceled_at,omitempty"`
	CancelReason     string             `json:"cancel_reason,omitempty"`
}

func toDate(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}

func toDatePtr(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	d := toDate(*t)
	return &d
}

func fromDatePtr(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func toWaitingOrders(orders []queries.WaitingOrder) []WaitingOrder {
	response := make([]WaitingOrder, len(orders))
	for i, o := range orders {
		response[i] = WaitingOrder{
			ID:             o.ID.Value(),
			CounterpartyID: o.CounterpartyID.Value(),
			Amount:         o.Amount,
			PickupDate:     toDate(o.PickupDate),
			DeliveryDate:   toDate(o.DeliveryDate),
			PeriodAnchor:   toDate(o.PeriodAnchor),
		}
	}
	return response
}

func toBundleSummaries(summaries []queries.BundleSummary) []BundleSummary {
	response := make([]BundleSummary, len(summaries))
	for i, s := range summaries {
		response[i] = BundleSummary{
			ID:                 s.ID.Value(),
			Side:               s.Side.String(),
			Status:             s.Status.String(),
			CounterpartyID:     s.CounterpartyID.Value(),
			CounterpartyName:   s.CounterpartyName,
			PeriodType:         s.PeriodType.String(),
			PeriodFrom:         toDate(s.PeriodFrom),
			PeriodTo:           toDate(s.PeriodTo),
			OrderCount:         s.OrderCount,
			TotalAmount:        s.TotalAmount,
			TotalTaxAmount:     s.TotalTaxAmount,
			TotalAmountWithTax: s.TotalAmountWithTax,
			CreatedAt:          s.CreatedAt,
		}
	}
	return response
}

func toTotals(t bundle.Totals) Totals {
	return Totals{
		TotalAmount:          t.TotalAmount,
		TotalTaxAmount:       t.TotalTaxAmount,
		TotalAmountWithTax:   t.TotalAmountWithTax,
		ItemExtraAmount:      t.ItemExtraAmount,
		ItemExtraAmountTax:   t.ItemExtraAmountTax,
		BundleExtraAmount:    t.BundleExtraAmount,
		BundleExtraAmountTax: t.BundleExtraAmountTax,
	}
}

func toAdjustments(views []queries.AdjustmentView) []Adjustment {
	response := make([]Adjustment, len(views))
	for i, a := range views {
		response[i] = Adjustment{
			ID:          a.ID.Value(),
			Type:        a.Type.String(),
			Description: a.Description,
			Amount:      a.Amount,
			TaxAmount:   a.TaxAmount,
			CreatedBy:   a.CreatedBy,
			CreatedAt:   a.CreatedAt,
		}
	}
	return response
}

func toBundle(v queries.BundleView) Bundle {
	items := make([]Item, len(v.Items))
	for i, item := range v.Items {
		items[i] = Item{
			ID:           item.ID.Value(),
			OrderID:      item.OrderID.Value(),
			BaseAmount:   item.BaseAmount,
			PickupDate:   toDate(item.PickupDate),
			DeliveryDate: toDate(item.DeliveryDate),
			PeriodAnchor: toDate(item.PeriodAnchor),
			Adjustments:  toAdjustments(item.Adjustments),
		}
	}

	return Bundle{
		ID:             v.ID.Value(),
		Side:           v.Side.String(),
		Status:         v.Status.String(),
		CounterpartyID: v.CounterpartyID.Value(),
		Counterparty: Counterparty{
			Name:              v.Counterparty.Name,
			TaxID:             v.Counterparty.TaxID,
			BankCode:          v.Counterparty.BankCode,
			BankAccount:       v.Counterparty.BankAccount,
			BankAccountHolder: v.Counterparty.BankAccountHolder,
			ManagerName:       v.Counterparty.ManagerName,
			ManagerContact:    v.Counterparty.ManagerContact,
		},
		PeriodType:       v.PeriodType.String(),
		PeriodFrom:       toDate(v.PeriodFrom),
		PeriodTo:         toDate(v.PeriodTo),
		PeriodOverridden: v.PeriodOverridden,
		OrderCount:       v.OrderCount,
		Payment: Payment{
			InvoiceIssuedAt:   toDatePtr(v.Payment.InvoiceIssuedAt),
			DepositReceivedAt: toDatePtr(v.Payment.DepositReceivedAt),
			TaxFree:           v.Payment.TaxFree,
			Memo:              v.Payment.Memo,
		},
		TaxRate:       v.TaxRate,
		CurrencyScale: v.CurrencyScale,
		Items:         items,
		Adjustments:   toAdjustments(v.Adjustments),
		Totals:        toTotals(v.Totals),
		TotalsDrift:   v.TotalsDrift,
		Version:       v.Version,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
		CompletedAt:   v.CompletedAt,
		CanceledAt:    v.CanceledAt,
		CancelReason:  v.CancelReason,
	}
}
