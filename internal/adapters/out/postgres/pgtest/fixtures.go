package pgtest

import (
	"context"
	"time"

	"settlement/internal/adapters/out/postgres/counterpartyrepo"
	"settlement/internal/adapters/out/postgres/freightrepo"
	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"
)

// AddCounterparty inserts a directory entry and returns its id.
func (d *Database) AddCounterparty(ctx context.Context, kind, name, taxID string) (kernel.UUID, error) {
	id := kernel.NewUUID()
	dto := counterpartyrepo.CounterpartyDTO{
		ID:                id.Value(),
		Kind:              kind,
		Name:              name,
		TaxID:             taxID,
		BankCode:          "004",
		BankAccount:       "123-45-6789",
		BankAccountHolder: name,
		ManagerName:       "Kim",
		ManagerContact:    "010-0000-0000",
		UpdatedAt:         time.Now().UTC(),
	}
	return id, d.DB.WithContext(ctx).Create(&dto).Error
}

// AddOrder inserts a ledger order.
func (d *Database) AddOrder(
	ctx context.Context,
	shipperID, carrierID kernel.UUID,
	base, purchase string,
	pickup, delivery time.Time,
) (*freight.Order, error) {
	o, err := freight.RestoreOrder(
		kernel.NewUUID(),
		shipperID,
		carrierID,
		kernel.MustAmount(base),
		kernel.MustAmount(purchase),
		pickup,
		delivery,
	)
	if err != nil {
		return nil, err
	}

	dto := freightrepo.NewFreightOrderDTO(o)
	return o, d.DB.WithContext(ctx).Create(&dto).Error
}
