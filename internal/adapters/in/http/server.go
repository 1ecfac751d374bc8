package http

import (
	"context"
	"log/slog"

	"settlement/internal/core/application/usecases/commands"
	"settlement/internal/core/application/usecases/queries"
	"settlement/internal/core/domain/model/kernel"
)

type (
	CreateBundleHandler interface {
		Handle(ctx context.Context, cmd commands.CreateBundleCommand) (kernel.UUID, error)
	}

	UpdateBundleHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateBundleCommand) error
	}

	DeleteBundleHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteBundleCommand) error
	}

	CompleteBundleHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteBundleCommand) error
	}

	CancelBundleHandler interface {
		Handle(ctx context.Context, cmd commands.CancelBundleCommand) error
	}

	AddBundleAdjustmentHandler interface {
		Handle(ctx context.Context, cmd commands.AddBundleAdjustmentCommand) (kernel.UUID, error)
	}

	AddItemAdjustmentHandler interface {
		Handle(ctx context.Context, cmd commands.AddItemAdjustmentCommand) (kernel.UUID, error)
	}

	RemoveAdjustmentHandler interface {
		Handle(ctx context.Context, cmd commands.RemoveAdjustmentCommand) error
	}

	ListWaitingOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListWaitingOrdersQuery) ([]queries.WaitingOrder, error)
	}

	ListBundlesHandler interface {
		Handle(ctx context.Context, query queries.ListBundlesQuery) ([]queries.BundleSummary, error)
	}

	GetBundleWithTotalsHandler interface {
		Handle(ctx context.Context, query queries.GetBundleWithTotalsQuery) (queries.BundleView, error)
	}
)

// Handlers groups the use cases the API exposes.
type Handlers struct {
	// Command handlers
	CreateBundle        CreateBundleHandler
	UpdateBundle        UpdateBundleHandler
	DeleteBundle        DeleteBundleHandler
	CompleteBundle      CompleteBundleHandler
	CancelBundle        CancelBundleHandler
	AddBundleAdjustment AddBundleAdjustmentHandler
	AddItemAdjustment   AddItemAdjustmentHandler
	RemoveAdjustment    RemoveAdjustmentHandler

	// Query handlers
	ListWaitingOrders   ListWaitingOrdersHandler
	ListBundles         ListBundlesHandler
	GetBundleWithTotals GetBundleWithTotalsHandler
}

// Server handles the settlement HTTP API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
	}
}
