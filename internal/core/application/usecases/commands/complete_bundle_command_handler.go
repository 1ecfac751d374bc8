package commands

import (
	"context"
	"time"
)

// CompleteBundleCommandHandler moves an issued bundle to paid once both the
// invoice date and the deposit date are recorded. A draft bundle with both
// dates is issued and completed in the same step.
//
// Example:
//
//	cmd, _ := NewCompleteBundleCommand(bundleID)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInvalidState) {
//	    // a payment date is missing or the bundle is already closed
//	}
type CompleteBundleCommandHandler struct {
	uowFactory BundleUoWFactory
	recorder   TransitionRecorder
	now        func() time.Time
}

// NewCompleteBundleCommandHandler creates a handler that reports committed
// transitions to recorder.
func NewCompleteBundleCommandHandler(uowFactory BundleUoWFactory, recorder TransitionRecorder) CompleteBundleCommandHandler {
	return CompleteBundleCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
		now:        time.Now,
	}
}

// Handle marks the bundle paid. Both payment dates must be recorded.
func (h CompleteBundleCommandHandler) Handle(ctx context.Context, cmd CompleteBundleCommand) error {
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

	if err = aggregate.Complete(h.now().UTC()); err != nil {
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
