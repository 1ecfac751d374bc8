package commands

import (
	"context"
	"time"
)

// CancelBundleCommandHandler cancels a bundle. Its items stay in storage but
// stop counting as active memberships.
type CancelBundleCommandHandler struct {
	uowFactory BundleUoWFactory
	recorder   TransitionRecorder
	now        func() time.Time
}

// NewCancelBundleCommandHandler creates a handler that reports committed
// cancellations to recorder.
func NewCancelBundleCommandHandler(uowFactory BundleUoWFactory, recorder TransitionRecorder) CancelBundleCommandHandler {
	return CancelBundleCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
		now:        time.Now,
	}
}

// Handle cancels a draft or issued bundle, which releases its orders to
// the waiting pool.
func (h CancelBundleCommandHandler) Handle(ctx context.Context, cmd CancelBundleCommand) error {
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
	aggregate, err := bundleRepo.GetForUpdate(ctx, cmd.BundleID())
	if err != nil {
		return err
	}

	if err = aggregate.Cancel(cmd.Reason(), h.now().UTC()); err != nil {
		return err
	}

	if err = bundleRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.RecordTransition(aggregate.Side(), aggregate.Status())
	return nil
}
