package counterpartyrepo

import (
	"context"
	"errors"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCounterpartyDirectory implements CounterpartyDirectory using GORM.
type GormCounterpartyDirectory struct {
	db *gorm.DB
}

// NewGormCounterpartyDirectory creates a directory on db, which may be a
// transaction.
func NewGormCounterpartyDirectory(db *gorm.DB) *GormCounterpartyDirectory {
	return &GormCounterpartyDirectory{db: db}
}

// GetSnapshot copies the current billing facts of a counterparty.
func (d *GormCounterpartyDirectory) GetSnapshot(ctx context.Context, id kernel.UUID) (bundle.CounterpartySnapshot, error) {
	if err := id.Validate(); err != nil {
		return bundle.CounterpartySnapshot{}, err
	}

	var dto CounterpartyDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bundle.CounterpartySnapshot{}, errs.NewObjectNotFoundError("counterparty", id.String())
		}
		return bundle.CounterpartySnapshot{}, err
	}

	return toSnapshot(dto)
}

// Exists reports whether a counterparty with id is registered.
func (d *GormCounterpartyDirectory) Exists(ctx context.Context, id kernel.UUID) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := d.db.WithContext(ctx).Model(&CounterpartyDTO{}).Where("id = ?", id.Value()).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
