package ports

import (
	"context"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
)

// CounterpartyDirectory exposes shippers, carriers and drivers as the
// organization directory knows them today.
type CounterpartyDirectory interface {
	// GetSnapshot returns the current billing facts of the counterparty, or an
	// ObjectNotFoundError.
	GetSnapshot(ctx context.Context, id kernel.UUID) (bundle.CounterpartySnapshot, error)

	Exists(ctx context.Context, id kernel.UUID) (bool, error)
}
