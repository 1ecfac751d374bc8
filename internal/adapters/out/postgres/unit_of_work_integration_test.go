package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "settlement/internal/adapters/out/postgres"
	"settlement/internal/adapters/out/postgres/pgtest"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/core/ports"
	"settlement/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real
// PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	factory  ports.UnitOfWorkFactory

	shipperID kernel.UUID
	order     *freight.Order
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.database = database
	suite.Require().NoError(err)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.database.Truncate())

	var err error
	suite.shipperID, err = suite.database.AddCounterparty(ctx, "shipper", "Acme Logistics", "123-45-67890")
	suite.Require().NoError(err)

	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	suite.order, err = suite.database.AddOrder(ctx, suite.shipperID, kernel.NewUUID(), "300000", "250000", day, day)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.BundleRepository())
	suite.NotNil(uow1.FreightOrderRepository())
	suite.NotNil(uow1.CounterpartyDirectory())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx), "Should error when committing without active transaction")
	suite.Require().Error(uow.Rollback(ctx), "Should error when rolling back without active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsBundle() {
	ctx := context.Background()
	uow := suite.factory.Create()
	b := suite.newBundle()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.BundleRepository().Add(ctx, b))

	owners, err := uow.FreightOrderRepository().ActiveOwners(ctx, kernel.Sales, []kernel.UUID{suite.order.ID()})
	suite.Require().NoError(err)
	suite.Equal(b.ID(), owners[suite.order.ID()], "Membership should be visible inside the transaction")

	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().BundleRepository().Get(ctx, b.ID())
	suite.Require().NoError(err)
	suite.Equal(b.ID(), loaded.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsHeaderAndItems() {
	ctx := context.Background()
	uow := suite.factory.Create()
	b := suite.newBundle()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.BundleRepository().Add(ctx, b))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().BundleRepository().Get(ctx, b.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	var items int64
	suite.Require().NoError(suite.database.DB.Table("bundle_items").Count(&items).Error)
	suite.Zero(items)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConflictRollsBackPartialInsert() {
	ctx := context.Background()

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	suite.Require().NoError(first.BundleRepository().Add(ctx, suite.newBundle()))
	suite.Require().NoError(first.Commit(ctx))

	second := suite.factory.Create()
	suite.Require().NoError(second.Begin(ctx))
	duplicate := suite.newBundle()
	err := second.BundleRepository().Add(ctx, duplicate)
	suite.Require().ErrorIs(err, errs.ErrConflict)
	suite.Require().NoError(second.Rollback(ctx))

	_, err = suite.factory.Create().BundleRepository().Get(ctx, duplicate.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound, "Header of the losing bundle must not survive")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitWithoutBegin_ReturnsError() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	b := suite.newBundle()

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.BundleRepository().Add(ctx, b))

	_, err := uow2.BundleRepository().Get(ctx, b.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound, "Uncommitted bundle must not be visible to another unit of work")

	suite.Require().NoError(uow1.Commit(ctx))

	_, err = uow2.BundleRepository().Get(ctx, b.ID())
	suite.NoError(err, "Read committed sees the bundle after commit")
	suite.Require().NoError(uow2.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) newBundle() *bundle.Bundle {
	item, err := bundle.NewItem(suite.order.ID(), suite.order.BaseAmount(), suite.order.PickupDate(), suite.order.DeliveryDate())
	suite.Require().NoError(err)
	snapshot, err := bundle.NewCounterpartySnapshot("Acme Logistics", "123-45-67890", "", "", "", "", "")
	suite.Require().NoError(err)

	b, err := bundle.NewBundle(bundle.Header{
		Side:           kernel.Sales,
		CounterpartyID: suite.shipperID,
		Counterparty:   snapshot,
		PeriodType:     kernel.Departure,
		Policy:         bundle.DefaultPolicy(),
	}, []*bundle.Item{item}, time.Now().UTC())
	suite.Require().NoError(err)
	return b
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
