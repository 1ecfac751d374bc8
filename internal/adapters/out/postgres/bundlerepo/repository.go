package bundlerepo

import (
	"context"
	"errors"

	"settlement/internal/adapters/out/postgres/pgerrs"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBundleRepository implements BundleRepository using GORM.
type GormBundleRepository struct {
	db *gorm.DB
}

// NewGormBundleRepository creates a bundle repository on db, which may be a
// transaction.
func NewGormBundleRepository(db *gorm.DB) *GormBundleRepository {
	return &GormBundleRepository{db: db}
}

// Add inserts the header and every child row. Children are inserted
// explicitly rather than as associations so that a violation of the active
// membership index surfaces as a ConflictError instead of being skipped.
func (r *GormBundleRepository) Add(ctx context.Context, aggregate *bundle.Bundle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "bundle", aggregate.ID().String())
	}
	if err := r.insertChildren(db, dto); err != nil {
		return err
	}

	return nil
}

// Update writes the header guarded by the version the aggregate was loaded
// with, then rewrites membership flags and adjustments.
func (r *GormBundleRepository) Update(ctx context.Context, aggregate *bundle.Bundle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&BundleDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at", "created_by", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "bundle", aggregate.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictErrorWithCause("bundle", aggregate.ID().String(),
			errors.New("bundle was modified or deleted by another transaction"))
	}

	if err := db.Model(&BundleItemDTO{}).
		Where("bundle_id = ?", dto.ID).
		Update("active", aggregate.Status() != bundle.Canceled).Error; err != nil {
		return pgerrs.Translate(err, "bundle", aggregate.ID().String())
	}

	if err := r.replaceAdjustments(db, dto); err != nil {
		return err
	}

	return nil
}

// Delete hard-deletes the bundle. Items and adjustments go with it through
// ON DELETE CASCADE.
func (r *GormBundleRepository) Delete(ctx context.Context, aggregate *bundle.Bundle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", aggregate.ID().Value(), aggregate.Version()).
		Delete(&BundleDTO{})
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "bundle", aggregate.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictErrorWithCause("bundle", aggregate.ID().String(),
			errors.New("bundle was modified or deleted by another transaction"))
	}

	return nil
}

// Get retrieves a bundle by ID without locking it.
func (r *GormBundleRepository) Get(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.load(ctx, id.Value())
}

// GetForUpdate locks the header row for the rest of the transaction and then
// loads the aggregate.
func (r *GormBundleRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var locked BundleDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bundle", id.String())
		}
		return nil, pgerrs.Translate(err, "bundle", id.String())
	}

	return r.load(ctx, locked.ID)
}

// FindByItemID locks and loads the bundle owning the item.
func (r *GormBundleRepository) FindByItemID(ctx context.Context, itemID kernel.UUID) (*bundle.Bundle, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var item BundleItemDTO
	if err := r.db.WithContext(ctx).Select("id", "bundle_id").First(&item, "id = ?", itemID.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bundleItem", itemID.String())
		}
		return nil, err
	}

	bundleID, err := kernel.UUIDFrom(item.BundleID)
	if err != nil {
		return nil, err
	}
	return r.GetForUpdate(ctx, bundleID)
}

// FindByAdjustmentID locks and loads the bundle owning the adjustment at
// either level.
func (r *GormBundleRepository) FindByAdjustmentID(ctx context.Context, adjustmentID kernel.UUID) (*bundle.Bundle, error) {
	if err := adjustmentID.Validate(); err != nil {
		return nil, err
	}

	var owners []uuid.UUID
	if err := r.db.WithContext(ctx).Raw(`
		SELECT bundle_id FROM bundle_adjustments WHERE id = ?
		UNION ALL
		SELECT bi.bundle_id
		FROM item_adjustments ia
		JOIN bundle_items bi ON bi.id = ia.bundle_item_id
		WHERE ia.id = ?
	`, adjustmentID.Value(), adjustmentID.Value()).Scan(&owners).Error; err != nil {
		return nil, err
	}
	if len(owners) == 0 {
		return nil, errs.NewObjectNotFoundError("adjustment", adjustmentID.String())
	}

	bundleID, err := kernel.UUIDFrom(owners[0])
	if err != nil {
		return nil, err
	}
	return r.GetForUpdate(ctx, bundleID)
}

func (r *GormBundleRepository) load(ctx context.Context, id uuid.UUID) (*bundle.Bundle, error) {
	var dto BundleDTO
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Items.Adjustments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Preload("Adjustments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bundle", id.String())
		}
		return nil, err
	}

	return ToDomain(dto)
}

func (r *GormBundleRepository) insertChildren(db *gorm.DB, dto BundleDTO) error {
	id := dto.ID.String()

	if len(dto.Items) > 0 {
		if err := db.Omit(clause.Associations).Create(&dto.Items).Error; err != nil {
			return pgerrs.Translate(err, "order", id)
		}
	}

	return r.insertAdjustments(db, dto)
}

func (r *GormBundleRepository) replaceAdjustments(db *gorm.DB, dto BundleDTO) error {
	id := dto.ID.String()

	if err := db.Where("bundle_id = ?", dto.ID).Delete(&BundleAdjustmentDTO{}).Error; err != nil {
		return pgerrs.Translate(err, "bundle", id)
	}
	if err := db.
		Where("bundle_item_id IN (?)", db.Model(&BundleItemDTO{}).Select("id").Where("bundle_id = ?", dto.ID)).
		Delete(&ItemAdjustmentDTO{}).Error; err != nil {
		return pgerrs.Translate(err, "bundle", id)
	}

	return r.insertAdjustments(db, dto)
}

func (r *GormBundleRepository) insertAdjustments(db *gorm.DB, dto BundleDTO) error {
	id := dto.ID.String()

	if len(dto.Adjustments) > 0 {
		if err := db.Create(&dto.Adjustments).Error; err != nil {
			return pgerrs.Translate(err, "bundle", id)
		}
	}

	itemAdjustments := make([]ItemAdjustmentDTO, 0)
	for _, item := range dto.Items {
		itemAdjustments = append(itemAdjustments, item.Adjustments...)
	}
	if len(itemAdjustments) > 0 {
		if err := db.Create(&itemAdjustments).Error; err != nil {
			return pgerrs.Translate(err, "bundle", id)
		}
	}

	return nil
}
