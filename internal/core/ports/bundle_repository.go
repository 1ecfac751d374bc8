package ports

import (
	"context"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
)

// BundleRepository persists the bundle aggregate with its items and
// adjustments.
type BundleRepository interface {
	// Add inserts the header, items and adjustments. A second active
	// membership of an order on the same side is reported as a ConflictError.
	Add(ctx context.Context, aggregate *bundle.Bundle) error

	// Update writes the aggregate guarded by its version. When another writer
	// changed the row first it returns a ConflictError.
	Update(ctx context.Context, aggregate *bundle.Bundle) error

	// Delete hard-deletes the bundle and everything it owns.
	Delete(ctx context.Context, aggregate *bundle.Bundle) error

	Get(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error)

	// GetForUpdate loads the bundle after locking its row.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error)

	// FindByItemID locks and loads the bundle that owns the item.
	FindByItemID(ctx context.Context, itemID kernel.UUID) (*bundle.Bundle, error)

	// FindByAdjustmentID locks and loads the bundle that owns the adjustment,
	// whether it hangs off the bundle or one of its items.
	FindByAdjustmentID(ctx context.Context, adjustmentID kernel.UUID) (*bundle.Bundle, error)
}
