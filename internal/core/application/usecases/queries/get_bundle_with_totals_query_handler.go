package queries

import (
	"context"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
)

// BundleReader loads a bundle without locking it.
type BundleReader interface {
	Get(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error)
}

// GetBundleWithTotalsQueryHandler rebuilds the aggregate and recomputes its
// totals with the calculator instead of trusting the cached columns.
type GetBundleWithTotalsQueryHandler struct {
	reader BundleReader
}

// NewGetBundleWithTotalsQueryHandler reads bundles through reader.
func NewGetBundleWithTotalsQueryHandler(reader BundleReader) GetBundleWithTotalsQueryHandler {
	return GetBundleWithTotalsQueryHandler{reader: reader}
}

// Handle returns an ObjectNotFoundError for an unknown bundle.
func (h GetBundleWithTotalsQueryHandler) Handle(ctx context.Context, query GetBundleWithTotalsQuery) (BundleView, error) {
	if err := query.Validate(); err != nil {
		return BundleView{}, err
	}

	b, err := h.reader.Get(ctx, query.BundleID())
	if err != nil {
		return BundleView{}, err
	}

	return NewBundleView(b), nil
}
