package ports

import (
	"context"

	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"
)

// FreightOrderRepository reads the Order Ledger. The engine never writes
// orders.
type FreightOrderRepository interface {
	// GetForUpdate locks the rows of ids (SELECT ... FOR UPDATE) and returns
	// the orders that exist. Missing ids are simply absent from the result.
	GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*freight.Order, error)

	// ActiveOwners maps each of ids that is a member of a non-canceled bundle
	// of side to that bundle's id.
	ActiveOwners(ctx context.Context, side kernel.Side, ids []kernel.UUID) (map[kernel.UUID]kernel.UUID, error)
}
