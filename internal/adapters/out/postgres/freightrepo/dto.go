// Package freightrepo reads the Order Ledger, the external table of freight
// orders that bundles are built from. The settlement engine never writes it.
package freightrepo

import (
	"time"

	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FreightOrderDTO is one row of the freight_orders table.
type FreightOrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShipperID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CarrierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BaseAmount     decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PurchaseAmount decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	PickupDate     time.Time       `gorm:"type:date;not null;index"`
	DeliveryDate   time.Time       `gorm:"type:date;not null;index"`
}

func (FreightOrderDTO) TableName() string {
	return "freight_orders"
}

// NewFreightOrderDTO converts an order into its row. Only fixtures and
// ledger imports need it.
func NewFreightOrderDTO(o *freight.Order) FreightOrderDTO {
	return FreightOrderDTO{
		ID:             o.ID().Value(),
		ShipperID:      o.ShipperID().Value(),
		CarrierID:      o.CarrierID().Value(),
		BaseAmount:     o.BaseAmount().Decimal(),
		PurchaseAmount: o.PurchaseAmount().Decimal(),
		PickupDate:     o.PickupDate(),
		DeliveryDate:   o.DeliveryDate(),
	}
}

func toDomain(dto FreightOrderDTO) (*freight.Order, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	shipperID, err := kernel.UUIDFrom(dto.ShipperID)
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFrom(dto.CarrierID)
	if err != nil {
		return nil, err
	}

	base, err := kernel.NewAmount(dto.BaseAmount)
	if err != nil {
		return nil, err
	}
	purchase, err := kernel.NewAmount(dto.PurchaseAmount)
	if err != nil {
		return nil, err
	}

	return freight.RestoreOrder(id, shipperID, carrierID, base, purchase, dto.PickupDate, dto.DeliveryDate)
}
