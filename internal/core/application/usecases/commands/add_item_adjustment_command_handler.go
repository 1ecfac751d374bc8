package commands

import (
	"context"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
)

// AddItemAdjustmentCommandHandler records a discount or surcharge on one
// bundle item. The owning bundle is located and locked through the item id.
type AddItemAdjustmentCommandHandler struct {
	uowFactory BundleUoWFactory
	now        func() time.Time
}

// NewAddItemAdjustmentCommandHandler creates a handler running each command
// in its own unit of work.
func NewAddItemAdjustmentCommandHandler(uowFactory BundleUoWFactory) AddItemAdjustmentCommandHandler {
	return AddItemAdjustmentCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle finds the bundle owning the item, adds the adjustment and returns
// its id. NotFound if no bundle holds the item.
func (h AddItemAdjustmentCommandHandler) Handle(ctx context.Context, cmd AddItemAdjustmentCommand) (kernel.UUID, error) {
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
	aggregate, err := bundleRepo.FindByItemID(ctx, cmd.BundleItemID())
	if err != nil {
		return kernel.UUID{}, err
	}

	now := h.now().UTC()
	adj, err := bundle.NewAdjustment(cmd.Type(), cmd.Description(), cmd.Amount(), cmd.TaxAmount(), cmd.CreatedBy(), now)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = aggregate.AddItemAdjustment(cmd.BundleItemID(), adj, now); err != nil {
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
