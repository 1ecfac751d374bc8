package commands

import (
	"context"
)

// DeleteBundleCommandHandler removes a bundle with its items and adjustments,
// which returns its orders to the waiting pool. Paid and canceled bundles
// are kept.
type DeleteBundleCommandHandler struct {
	uowFactory BundleUoWFactory
	recorder   TransitionRecorder
}

// NewDeleteBundleCommandHandler creates a handler that counts committed
// deletions through recorder.
func NewDeleteBundleCommandHandler(uowFactory BundleUoWFactory, recorder TransitionRecorder) DeleteBundleCommandHandler {
	return DeleteBundleCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle hard-deletes a draft or issued bundle with its items and
// adjustments.
func (h DeleteBundleCommandHandler) Handle(ctx context.Context, cmd DeleteBundleCommand) error {
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

	if err = aggregate.ValidateDelete(); err != nil {
		return err
	}

	if err = bundleRepo.Delete(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.RecordDeletion(aggregate.Side())
	return nil
}
