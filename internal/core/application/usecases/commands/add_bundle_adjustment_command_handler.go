package commands

import (
	"context"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
)

// AddBundleAdjustmentCommandHandler records a bundle-level discount or
// surcharge and persists the recomputed totals in the same transaction.
type AddBundleAdjustmentCommandHandler struct {
	uowFactory BundleUoWFactory
	now        func() time.Time
}

// NewAddBundleAdjustmentCommandHandler creates a handler running each
// command in its own unit of work.
func NewAddBundleAdjustmentCommandHandler(uowFactory BundleUoWFactory) AddBundleAdjustmentCommandHandler {
	return AddBundleAdjustmentCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle returns the id of the new adjustment.
func (h AddBundleAdjustmentCommandHandler) Handle(ctx context.Context, cmd AddBundleAdjustmentCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bundleRepo := uow.BundleRepository()
	aggregate, err := bundleRepo.GetForUpdate(ctx, cmd.BundleID())
	if err != nil {
		return kernel.UUID{}, err
	}

	now := h.now().UTC()
	adj, err := bundle.NewAdjustment(cmd.Type(), cmd.Description(), cmd.Amount(), cmd.TaxAmount(), cmd.CreatedBy(), now)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = aggregate.AddAdjustment(adj, now); err != nil {
		return kernel.UUID{}, err
	}

	if err = bundleRepo.Update(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return adj.ID(), nil
}
