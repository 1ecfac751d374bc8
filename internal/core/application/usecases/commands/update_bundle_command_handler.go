package commands

import (
	"context"
	"time"

	"settlement/internal/core/domain/model/bundle"
)

// UpdateBundleCommandHandler edits a draft or issued bundle: counterparty
// snapshot, period, payment info and tax-free flag. Totals are recomputed in
// the same transaction.
type UpdateBundleCommandHandler struct {
	uowFactory UoWFactory
	recorder   TransitionRecorder
	now        func() time.Time
}

// NewUpdateBundleCommandHandler creates a handler that reports an issue
// transition to recorder.
func NewUpdateBundleCommandHandler(uowFactory UoWFactory, recorder TransitionRecorder) UpdateBundleCommandHandler {
	return UpdateBundleCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
		now:        time.Now,
	}
}

// Handle replaces the editable header of a draft or issued bundle and
// recomputes its totals.
func (h UpdateBundleCommandHandler) Handle(ctx context.Context, cmd UpdateBundleCommand) error {
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

	if err = aggregate.Status().ValidateMutation("update"); err != nil {
		return err
	}

	var snapshot bundle.CounterpartySnapshot
	if supplied := cmd.Counterparty(); supplied != nil {
		snapshot = *supplied
	} else {
		snapshot, err = uow.CounterpartyDirectory().GetSnapshot(ctx, aggregate.CounterpartyID())
		if err != nil {
			return err
		}
	}

	previous := aggregate.Status()
	if err = aggregate.Update(cmd.Changes(snapshot), h.now().UTC()); err != nil {
		return err
	}

	if err = bundleRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if aggregate.Status() != previous {
		h.recorder.RecordTransition(aggregate.Side(), aggregate.Status())
	}
	return nil
}
