package cmd

import (
	"log/slog"

	"settlement/internal/adapters/in/http"
	"settlement/internal/adapters/out/postgres"
	"settlement/internal/adapters/out/postgres/bundlerepo"
	"settlement/internal/core/application/usecases/commands"
	"settlement/internal/core/application/usecases/queries"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/pkg/metrics"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use cases. It holds no request state.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	policy     bundle.Policy
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewCompositionRoot derives the tax policy from cfg and fails if it is
// invalid.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, m *metrics.Metrics, logger *slog.Logger) (CompositionRoot, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return CompositionRoot{}, err
	}
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		policy:     policy,
		metrics:    m,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) bundleUoWFactory() commands.BundleUoWFactory {
	return FuncBundleUoWFactory(func() commands.BundleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// CreateCreateBundleCommandHandler returns the handler that creates bundles from waiting orders.
func (c *CompositionRoot) CreateCreateBundleCommandHandler() commands.CreateBundleCommandHandler {
	return commands.NewCreateBundleCommandHandler(c.uoWFactory(), c.policy, c.metrics)
}

// CreateUpdateBundleCommandHandler returns the handler that edits bundle headers.
func (c *CompositionRoot) CreateUpdateBundleCommandHandler() commands.UpdateBundleCommandHandler {
	return commands.NewUpdateBundleCommandHandler(c.uoWFactory(), c.metrics)
}

// CreateDeleteBundleCommandHandler returns the handler that hard-deletes mutable bundles.
func (c *CompositionRoot) CreateDeleteBundleCommandHandler() commands.DeleteBundleCommandHandler {
	return commands.NewDeleteBundleCommandHandler(c.bundleUoWFactory(), c.metrics)
}

// CreateCompleteBundleCommandHandler returns the handler that marks bundles paid.
func (c *CompositionRoot) CreateCompleteBundleCommandHandler() commands.CompleteBundleCommandHandler {
	return commands.NewCompleteBundleCommandHandler(c.bundleUoWFactory(), c.metrics)
}

// CreateCancelBundleCommandHandler returns the handler that cancels mutable bundles.
func (c *CompositionRoot) CreateCancelBundleCommandHandler() commands.CancelBundleCommandHandler {
	return commands.NewCancelBundleCommandHandler(c.bundleUoWFactory(), c.metrics)
}

// CreateAddBundleAdjustmentCommandHandler returns the handler that adds bundle-level adjustments.
func (c *CompositionRoot) CreateAddBundleAdjustmentCommandHandler() commands.AddBundleAdjustmentCommandHandler {
	return commands.NewAddBundleAdjustmentCommandHandler(c.bundleUoWFactory())
}

// CreateAddItemAdjustmentCommandHandler returns the handler that adds item-level adjustments.
func (c *CompositionRoot) CreateAddItemAdjustmentCommandHandler() commands.AddItemAdjustmentCommandHandler {
	return commands.NewAddItemAdjustmentCommandHandler(c.bundleUoWFactory())
}

// CreateRemoveAdjustmentCommandHandler returns the handler that removes adjustments at either level.
func (c *CompositionRoot) CreateRemoveAdjustmentCommandHandler() commands.RemoveAdjustmentCommandHandler {
	return commands.NewRemoveAdjustmentCommandHandler(c.bundleUoWFactory())
}

// CreateListWaitingOrdersQueryHandler returns the waiting pool reader.
func (c *CompositionRoot) CreateListWaitingOrdersQueryHandler() queries.ListWaitingOrdersQueryHandler {
	return queries.NewListWaitingOrdersQueryHandler(c.gormDB)
}

// CreateListBundlesQueryHandler returns the bundle list reader.
func (c *CompositionRoot) CreateListBundlesQueryHandler() queries.ListBundlesQueryHandler {
	return queries.NewListBundlesQueryHandler(c.gormDB)
}

// CreateGetBundleWithTotalsQueryHandler reads through a repository on the
// pool, outside any transaction.
func (c *CompositionRoot) CreateGetBundleWithTotalsQueryHandler() queries.GetBundleWithTotalsQueryHandler {
	return queries.NewGetBundleWithTotalsQueryHandler(bundlerepo.NewGormBundleRepository(c.gormDB))
}

// CreateServer builds the HTTP server with every handler.
func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateBundle:        c.CreateCreateBundleCommandHandler(),
		UpdateBundle:        c.CreateUpdateBundleCommandHandler(),
		DeleteBundle:        c.CreateDeleteBundleCommandHandler(),
		CompleteBundle:      c.CreateCompleteBundleCommandHandler(),
		CancelBundle:        c.CreateCancelBundleCommandHandler(),
		AddBundleAdjustment: c.CreateAddBundleAdjustmentCommandHandler(),
		AddItemAdjustment:   c.CreateAddItemAdjustmentCommandHandler(),
		RemoveAdjustment:    c.CreateRemoveAdjustmentCommandHandler(),
		ListWaitingOrders:   c.CreateListWaitingOrdersQueryHandler(),
		ListBundles:         c.CreateListBundlesQueryHandler(),
		GetBundleWithTotals: c.CreateGetBundleWithTotalsQueryHandler(),
	}, c.logger)
}

// FuncBundleUoWFactory adapts a function to commands.BundleUoWFactory.
type FuncBundleUoWFactory func() commands.BundleUoW

// Create calls f.
func (f FuncBundleUoWFactory) Create() commands.BundleUoW {
	return f()
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

// Create calls f.
func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
