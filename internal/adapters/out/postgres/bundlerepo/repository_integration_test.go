package bundlerepo_test

import (
	"context"
	"testing"
	"time"

	"settlement/internal/adapters/out/postgres/bundlerepo"
	"settlement/internal/adapters/out/postgres/pgtest"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BundleRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *bundlerepo.GormBundleRepository

	shipperID kernel.UUID
	carrierID kernel.UUID
	orders    []*freight.Order
}

func (suite *BundleRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.database = database
	suite.Require().NoError(err)
}

func (suite *BundleRepositoryIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.database.Truncate())

	suite.repository = bundlerepo.NewGormBundleRepository(suite.database.DB)

	var err error
	suite.shipperID, err = suite.database.AddCounterparty(ctx, "shipper", "Acme Logistics", "123-45-67890")
	suite.Require().NoError(err)
	suite.carrierID, err = suite.database.AddCounterparty(ctx, "carrier", "Fast Trucks", "987-65-43210")
	suite.Require().NoError(err)

	suite.orders = nil
	for _, amounts := range [][2]string{{"100000", "80000"}, {"200000", "170000"}, {"150000", "120000"}} {
		day := time.Date(2024, 1, 5+len(suite.orders), 0, 0, 0, 0, time.UTC)
		o, addErr := suite.database.AddOrder(ctx, suite.shipperID, suite.carrierID, amounts[0], amounts[1], day, day.AddDate(0, 0, 1))
		suite.Require().NoError(addErr)
		suite.orders = append(suite.orders, o)
	}
}

func (suite *BundleRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *BundleRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTripsAggregate() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders...)

	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), loaded.ID())
	suite.Equal(kernel.Sales, loaded.Side())
	suite.Equal(bundle.Draft, loaded.Status())
	suite.Equal(1, loaded.Version())
	suite.Equal(3, loaded.OrderCount())
	suite.Equal(original.OrderIDs(), loaded.OrderIDs())
	suite.Equal("Acme Logistics", loaded.Counterparty().Name())
	suite.Equal("123-45-67890", loaded.Counterparty().TaxID())
	suite.True(loaded.PeriodFrom().Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	suite.True(loaded.PeriodTo().Equal(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)))
	suite.True(loaded.Totals().TotalAmount.Equal(decimal.RequireFromString("450000")))
	suite.True(loaded.Totals().TotalAmountWithTax.Equal(decimal.RequireFromString("495000")))
	suite.True(loaded.Policy().TaxRate.Equal(bundle.DefaultTaxRate))
	suite.False(loaded.HasTotalsDrift())
}

func (suite *BundleRepositoryIntegrationTestSuite) TestAdd_PersistsAdjustmentsAtBothLevels() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders...)
	itemAdj := suite.newAdjustment(bundle.Surcharge, "waiting time", "10000", "1000")
	bundleAdj := suite.newAdjustment(bundle.Discount, "volume discount", "50000", "5000")
	suite.Require().NoError(original.AddItemAdjustment(original.Items()[0].ID(), itemAdj, suite.now()))
	suite.Require().NoError(original.AddAdjustment(bundleAdj, suite.now()))

	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Require().Len(loaded.Adjustments(), 1)
	suite.Equal(bundleAdj.ID(), loaded.Adjustments()[0].ID())
	suite.Equal(bundle.Discount, loaded.Adjustments()[0].Type())
	suite.Require().Len(loaded.Items()[0].Adjustments(), 1)
	suite.Equal(itemAdj.ID(), loaded.Items()[0].Adjustments()[0].ID())
	suite.True(loaded.Totals().TotalAmount.Equal(decimal.RequireFromString("410000")))
	suite.True(loaded.Totals().TotalTaxAmount.Equal(decimal.RequireFromString("41000")))
	suite.False(loaded.HasTotalsDrift())
}

func (suite *BundleRepositoryIntegrationTestSuite) TestAdd_FractionalAdjustments_CachedTotalsMatchStoredRows() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders...)
	suite.Require().NoError(original.AddAdjustment(suite.newAdjustment(bundle.Discount, "rounding", "0.0001", "0"), suite.now()))
	suite.Require().NoError(original.AddAdjustment(suite.newAdjustment(bundle.Discount, "rounding", "0.0001", "0.0001"), suite.now()))
	suite.Require().NoError(original.AddItemAdjustment(original.Items()[0].ID(),
		suite.newAdjustment(bundle.Surcharge, "toll", "12.3456", "1.2345"), suite.now()))

	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.True(loaded.Totals().Equal(original.Totals()), loaded.Totals().String())
	suite.True(loaded.Totals().BundleExtraAmount.Equal(decimal.RequireFromString("-0.0002")))
	suite.False(loaded.HasTotalsDrift())
}

func (suite *BundleRepositoryIntegrationTestSuite) TestAdd_OrderActiveOnSameSide_ReturnsConflict() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newBundle(kernel.Sales, suite.orders[0], suite.orders[1])))

	err := suite.repository.Add(ctx, suite.newBundle(kernel.Sales, suite.orders[1], suite.orders[2]))

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)
}

func (suite *BundleRepositoryIntegrationTestSuite) TestAdd_OrderActiveOnOtherSide_Succeeds() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newBundle(kernel.Sales, suite.orders[0])))

	err := suite.repository.Add(ctx, suite.newBundle(kernel.Purchase, suite.orders[0]))

	suite.Require().NoError(err)
}

func (suite *BundleRepositoryIntegrationTestSuite) TestUpdate_CanceledBundleReleasesOrders() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders[0])
	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.GetForUpdate(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Cancel("wrong counterparty", suite.now()))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	suite.Require().NoError(suite.repository.Add(ctx, suite.newBundle(kernel.Sales, suite.orders[0])))

	canceled, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(bundle.Canceled, canceled.Status())
	suite.Equal("wrong counterparty", canceled.CancelReason())
	suite.Equal(1, canceled.OrderCount())
	suite.Equal(2, canceled.Version())
	suite.NotNil(canceled.CanceledAt())
}

func (suite *BundleRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConflict() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders[0])
	suite.Require().NoError(suite.repository.Add(ctx, original))

	first, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.AddAdjustment(suite.newAdjustment(bundle.Surcharge, "toll", "5000", "500"), suite.now()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.AddAdjustment(suite.newAdjustment(bundle.Surcharge, "toll", "7000", "700"), suite.now()))
	err = suite.repository.Update(ctx, second)

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConflict)

	stored, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Require().Len(stored.Adjustments(), 1)
	suite.True(stored.Adjustments()[0].Amount().Decimal().Equal(decimal.RequireFromString("5000")))
}

func (suite *BundleRepositoryIntegrationTestSuite) TestUpdate_RemovedAdjustmentIsDeleted() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders[0])
	adj := suite.newAdjustment(bundle.Surcharge, "toll", "5000", "500")
	suite.Require().NoError(original.AddItemAdjustment(original.Items()[0].ID(), adj, suite.now()))
	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.FindByAdjustmentID(ctx, adj.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.RemoveAdjustment(adj.ID(), suite.now()))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	stored, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Empty(stored.Items()[0].Adjustments())
	suite.True(stored.Totals().TotalAmount.Equal(decimal.RequireFromString("100000")))

	_, err = suite.repository.FindByAdjustmentID(ctx, adj.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BundleRepositoryIntegrationTestSuite) TestDelete_CascadesToChildren() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders...)
	suite.Require().NoError(original.AddItemAdjustment(
		original.Items()[0].ID(), suite.newAdjustment(bundle.Surcharge, "toll", "5000", "500"), suite.now()))
	suite.Require().NoError(original.AddAdjustment(suite.newAdjustment(bundle.Discount, "promo", "1000", "100"), suite.now()))
	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.GetForUpdate(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Delete(ctx, loaded))

	_, err = suite.repository.Get(ctx, original.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
	for _, table := range []string{"bundle_items", "bundle_adjustments", "item_adjustments"} {
		suite.assertRowCount(table, 0)
	}
}

func (suite *BundleRepositoryIntegrationTestSuite) TestFindByItemID() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Purchase, suite.orders[0], suite.orders[1])
	suite.Require().NoError(suite.repository.Add(ctx, original))

	found, err := suite.repository.FindByItemID(ctx, original.Items()[1].ID())
	suite.Require().NoError(err)
	suite.Equal(original.ID(), found.ID())
	suite.True(found.Items()[1].BaseAmount().Decimal().Equal(decimal.RequireFromString("170000")))

	_, err = suite.repository.FindByItemID(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("bundleItem", notFound.ParamName)
}

func (suite *BundleRepositoryIntegrationTestSuite) TestFindByAdjustmentID_BundleLevel() {
	ctx := context.Background()
	original := suite.newBundle(kernel.Sales, suite.orders[0])
	adj := suite.newAdjustment(bundle.Discount, "promo", "1000", "100")
	suite.Require().NoError(original.AddAdjustment(adj, suite.now()))
	suite.Require().NoError(suite.repository.Add(ctx, original))

	found, err := suite.repository.FindByAdjustmentID(ctx, adj.ID())

	suite.Require().NoError(err)
	suite.Equal(original.ID(), found.ID())
	suite.True(found.HasAdjustment(adj.ID()))
}

func (suite *BundleRepositoryIntegrationTestSuite) TestGet_NonExistentBundle_ReturnsNotFoundError() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("bundle", notFound.ParamName)
}

func (suite *BundleRepositoryIntegrationTestSuite) TestAdd_NotConstructedBundle_ReturnsError() {
	err := suite.repository.Add(context.Background(), &bundle.Bundle{})

	suite.ErrorIs(err, bundle.ErrBundleIsNotConstructed)
	suite.assertRowCount("bundles", 0)
}

func (suite *BundleRepositoryIntegrationTestSuite) newBundle(side kernel.Side, orders ...*freight.Order) *bundle.Bundle {
	items := make([]*bundle.Item, 0, len(orders))
	for _, o := range orders {
		amount, err := o.AmountFor(side)
		suite.Require().NoError(err)
		item, err := bundle.NewItem(o.ID(), amount, o.PickupDate(), o.DeliveryDate())
		suite.Require().NoError(err)
		items = append(items, item)
	}

	counterpartyID, name, taxID := suite.shipperID, "Acme Logistics", "123-45-67890"
	if side == kernel.Purchase {
		counterpartyID, name, taxID = suite.carrierID, "Fast Trucks", "987-65-43210"
	}
	snapshot, err := bundle.NewCounterpartySnapshot(name, taxID, "004", "123-45-6789", name, "Kim", "010-0000-0000")
	suite.Require().NoError(err)

	b, err := bundle.NewBundle(bundle.Header{
		Side:           side,
		CounterpartyID: counterpartyID,
		Counterparty:   snapshot,
		PeriodType:     kernel.Departure,
		Policy:         bundle.DefaultPolicy(),
		CreatedBy:      "tester",
	}, items, suite.now())
	suite.Require().NoError(err)
	return b
}

func (suite *BundleRepositoryIntegrationTestSuite) newAdjustment(kind bundle.AdjustmentType, description, amount, tax string) *bundle.Adjustment {
	adj, err := bundle.NewAdjustment(kind, description, kernel.MustAmount(amount), kernel.MustAmount(tax), "tester", suite.now())
	suite.Require().NoError(err)
	return adj
}

func (suite *BundleRepositoryIntegrationTestSuite) now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *BundleRepositoryIntegrationTestSuite) assertRowCount(table string, expected int64) {
	var count int64
	suite.Require().NoError(suite.database.DB.Table(table).Count(&count).Error)
	suite.Equal(expected, count, table)
}

func TestBundleRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BundleRepositoryIntegrationTestSuite))
}
