package commands

import (
	"context"
	"time"
)

// RemoveAdjustmentCommandHandler deletes an adjustment of either level and
// persists the recomputed totals.
type RemoveAdjustmentCommandHandler struct {
	uowFactory BundleUoWFactory
	now        func() time.Time
}

// NewRemoveAdjustmentCommandHandler creates a handler running each command
// in its own unit of work.
func NewRemoveAdjustmentCommandHandler(uowFactory BundleUoWFactory) RemoveAdjustmentCommandHandler {
	return RemoveAdjustmentCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle removes the adjustment from whichever level holds it and
// persists the recomputed totals.
func (h RemoveAdjustmentCommandHandler) Handle(ctx context.Context, cmd RemoveAdjustmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	bundleRepo := uow.BundleRepository()
	aggregate, err := bundleRepo.FindByAdjustmentID(ctx, cmd.AdjustmentID())
	if err != nil {
		return err
	}

	if err = aggregate.RemoveAdjustment(cmd.AdjustmentID(), h.now().UTC()); err != nil {
		return err
	}

	if err = bundleRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
