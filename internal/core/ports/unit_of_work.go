package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one mutating operation. Every
// repository it hands out runs inside the transaction started by Begin, so a
// Rollback discards all of their writes.
type UnitOfWork interface {
	// Begin starts a read-committed transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns an error if there is no active transaction or the commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns an error if there is no active transaction.
	Rollback(ctx context.Context) error

	BundleRepository() BundleRepository

	FreightOrderRepository() FreightOrderRepository

	CounterpartyDirectory() CounterpartyDirectory
}
