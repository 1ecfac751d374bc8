// Package counterpartyrepo backs the counterparty directory with the
// counterparties table maintained by the organization back office.
package counterpartyrepo

import (
	"time"

	"settlement/internal/core/domain/model/bundle"

	"github.com/google/uuid"
)

// CounterpartyDTO is one shipper, carrier or driver as the directory knows it
// today. Bundles copy these facts into their own snapshot.
type CounterpartyDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind              string    `gorm:"type:varchar(32);not null;index"`
	Name              string    `gorm:"type:varchar(255);not null"`
	TaxID             string    `gorm:"type:varchar(64);not null"`
	BankCode          string    `gorm:"type:varchar(32)"`
	BankAccount       string    `gorm:"type:varchar(64)"`
	BankAccountHolder string    `gorm:"type:varchar(255)"`
	ManagerName       string    `gorm:"type:varchar(255)"`
	ManagerContact    string    `gorm:"type:varchar(255)"`
	UpdatedAt         time.Time
}

func (CounterpartyDTO) TableName() string {
	return "counterparties"
}

func toSnapshot(dto CounterpartyDTO) (bundle.CounterpartySnapshot, error) {
	return bundle.NewCounterpartySnapshot(
		dto.Name,
		dto.TaxID,
		dto.BankCode,
		dto.BankAccount,
		dto.BankAccountHolder,
		dto.ManagerName,
		dto.ManagerContact,
	)
}
