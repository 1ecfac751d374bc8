package postgres

import (
	"settlement/internal/adapters/out/postgres/bundlerepo"
	"settlement/internal/adapters/out/postgres/counterpartyrepo"
	"settlement/internal/adapters/out/postgres/freightrepo"

	"gorm.io/gorm"
)

// activeMembershipIndex rejects a second active membership of an order on
// the same side even if two transactions slip past the row locks.
const activeMembershipIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_bundle_items_active_order
	ON bundle_items (order_id, side)
	WHERE active
`

// Migrate creates or updates the schema. The ledger and directory tables are
// owned by other systems in production and are only created here when
// missing.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&freightrepo.FreightOrderDTO{},
		&counterpartyrepo.CounterpartyDTO{},
		&bundlerepo.BundleDTO{},
		&bundlerepo.BundleItemDTO{},
		&bundlerepo.BundleAdjustmentDTO{},
		&bundlerepo.ItemAdjustmentDTO{},
	); err != nil {
		return err
	}

	return db.Exec(activeMembershipIndex).Error
}
