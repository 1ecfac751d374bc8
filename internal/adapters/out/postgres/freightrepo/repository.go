package freightrepo

import (
	"context"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFreightOrderRepository implements FreightOrderRepository using GORM.
type GormFreightOrderRepository struct {
	db *gorm.DB
}

// NewGormFreightOrderRepository creates a repository on db, which may be a
// transaction.
func NewGormFreightOrderRepository(db *gorm.DB) *GormFreightOrderRepository {
	return &GormFreightOrderRepository{db: db}
}

// GetForUpdate locks the rows of the given orders in id order, so that two
// transactions selecting overlapping sets cannot deadlock each other.
func (r *GormFreightOrderRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*freight.Order, error) {
	if len(ids) == 0 {
		return []*freight.Order{}, nil
	}

	var dtos []FreightOrderDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ANY(?)", pq.Array(rawIDs(ids))).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*freight.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// ActiveOwners looks the memberships up live through bundle_items and
// bundles. An order is owned while its bundle of that side is not canceled.
func (r *GormFreightOrderRepository) ActiveOwners(
	ctx context.Context,
	side kernel.Side,
	ids []kernel.UUID,
) (map[kernel.UUID]kernel.UUID, error) {
	owners := make(map[kernel.UUID]kernel.UUID)
	if len(ids) == 0 {
		return owners, nil
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT bi.order_id, bi.bundle_id
		FROM bundle_items bi
		JOIN bundles b ON b.id = bi.bundle_id
		WHERE b.side = ?
		  AND b.status <> ?
		  AND bi.order_id = ANY(?)
	`, int(side), int(bundle.Canceled), pq.Array(rawIDs(ids))).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, bundleID uuid.UUID
		if err = rows.Scan(&orderID, &bundleID); err != nil {
			return nil, err
		}

		oID, idErr := kernel.UUIDFrom(orderID)
		if idErr != nil {
			return nil, idErr
		}
		bID, idErr := kernel.UUIDFrom(bundleID)
		if idErr != nil {
			return nil, idErr
		}
		owners[oID] = bID
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return owners, nil
}

func rawIDs(ids []kernel.UUID) []string {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	return raw
}
