package commands

import (
	"context"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/core/domain/services"
	"settlement/internal/pkg/errs"
)

// CreateBundleCommandHandler builds a draft bundle from waiting orders.
//
// Inside one transaction it locks the selected order rows, re-checks their
// active memberships, captures the counterparty snapshot when the caller did
// not send one and inserts the bundle with its items. Any failure rolls the
// whole transaction back.
//
// Example:
//
//	handler := NewCreateBundleCommandHandler(uowFactory, bundle.DefaultPolicy(), recorder)
//	bundleID, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // refresh the waiting pool and let the operator retry
//	}
type CreateBundleCommandHandler struct {
	uowFactory UoWFactory
	policy     bundle.Policy
	recorder   TransitionRecorder
	builder    services.BundleBuilder
	now        func() time.Time
}

// NewCreateBundleCommandHandler creates a handler that stamps new bundles
// with policy.
func NewCreateBundleCommandHandler(
	uowFactory UoWFactory,
	policy bundle.Policy,
	recorder TransitionRecorder,
) CreateBundleCommandHandler {
	return CreateBundleCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		recorder:   recorder,
		builder:    services.NewBundleBuilder(),
		now:        time.Now,
	}
}

// Handle returns the id of the new bundle.
func (h CreateBundleCommandHandler) Handle(ctx context.Context, cmd CreateBundleCommand) (kernel.UUID, error) {
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

	orderRepo := uow.FreightOrderRepository()
	orders, err := orderRepo.GetForUpdate(ctx, cmd.OrderIDs())
	if err != nil {
		return kernel.UUID{}, err
	}

	owners, err := orderRepo.ActiveOwners(ctx, cmd.Side(), cmd.OrderIDs())
	if err != nil {
		return kernel.UUID{}, err
	}

	snapshot, err := h.captureSnapshot(ctx, uow, cmd)
	if err != nil {
		return kernel.UUID{}, err
	}

	aggregate, err := h.builder.Build(bundle.Header{
		Side:           cmd.Side(),
		CounterpartyID: cmd.CounterpartyID(),
		Counterparty:   snapshot,
		PeriodType:     cmd.PeriodType(),
		PeriodFrom:     cmd.PeriodFrom(),
		PeriodTo:       cmd.PeriodTo(),
		Payment:        cmd.Payment(),
		Policy:         h.policy,
		CreatedBy:      cmd.CreatedBy(),
	}, cmd.OrderIDs(), orders, owners, h.now().UTC())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.BundleRepository().Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.recorder.RecordTransition(aggregate.Side(), aggregate.Status())
	return aggregate.ID(), nil
}

func (h CreateBundleCommandHandler) captureSnapshot(
	ctx context.Context,
	uow UoW,
	cmd CreateBundleCommand,
) (bundle.CounterpartySnapshot, error) {
	directory := uow.CounterpartyDirectory()

	if supplied := cmd.Counterparty(); supplied != nil {
		exists, err := directory.Exists(ctx, cmd.CounterpartyID())
		if err != nil {
			return bundle.CounterpartySnapshot{}, err
		}
		if !exists {
			return bundle.CounterpartySnapshot{}, errs.NewObjectNotFoundError("counterparty", cmd.CounterpartyID().String())
		}
		return *supplied, nil
	}

	return directory.GetSnapshot(ctx, cmd.CounterpartyID())
}
