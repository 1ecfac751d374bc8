// Package postgres provides the GORM-based Unit of Work that every settlement
// command runs in, together with the schema migration.
//
// A unit of work owns one read-committed transaction. Repositories handed
// out after Begin share it, so a bundle, its items and its adjustments are
// written atomically and row locks taken through one repository hold for the
// others.
//
// Usage:
//
//	uow := NewGormUnitOfWorkFactory(db).Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	b, err := uow.BundleRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if err := b.Cancel(reason, time.Now()); err != nil {
//	    return err
//	}
//	if err := uow.BundleRepository().Update(ctx, b); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is meant for a single goroutine and a single
// command.
package postgres

import (
	"context"
	"database/sql"

	"settlement/internal/adapters/out/postgres/bundlerepo"
	"settlement/internal/adapters/out/postgres/counterpartyrepo"
	"settlement/internal/adapters/out/postgres/freightrepo"
	"settlement/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory returns a factory over db.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a read-committed transaction. Calling it again while a
// transaction is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit finalizes the current transaction.
// Returns gorm.ErrInvalidTransaction if none is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the current transaction. After a successful Commit it
// returns gorm.ErrInvalidTransaction, which command handlers ignore in their
// deferred rollback.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// BundleRepository runs inside the open transaction, or directly on the pool
// when none is open.
func (uow *GormUnitOfWork) BundleRepository() ports.BundleRepository {
	return bundlerepo.NewGormBundleRepository(uow.conn())
}

// FreightOrderRepository shares the open transaction, so its row locks
// hold until Commit.
func (uow *GormUnitOfWork) FreightOrderRepository() ports.FreightOrderRepository {
	return freightrepo.NewGormFreightOrderRepository(uow.conn())
}

// CounterpartyDirectory reads through the open transaction.
func (uow *GormUnitOfWork) CounterpartyDirectory() ports.CounterpartyDirectory {
	return counterpartyrepo.NewGormCounterpartyDirectory(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
