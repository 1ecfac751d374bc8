package commands

import (
	"context"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	BundleRepoFactory interface {
		BundleRepository() ports.BundleRepository
	}

	FreightOrderRepoFactory interface {
		FreightOrderRepository() ports.FreightOrderRepository
	}

	CounterpartyDirectoryFactory interface {
		CounterpartyDirectory() ports.CounterpartyDirectory
	}

	// BundleUoW serves the commands that only touch an existing bundle.
	BundleUoW interface {
		TxManager
		BundleRepoFactory
	}

	BundleUoWFactory interface {
		Create() BundleUoW
	}

	// UoW serves the commands that also read the order ledger or the
	// counterparty directory.
	UoW interface {
		TxManager
		BundleRepoFactory
		FreightOrderRepoFactory
		CounterpartyDirectoryFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// TransitionRecorder observes lifecycle changes after they are committed.
	TransitionRecorder interface {
		RecordTransition(side kernel.Side, to bundle.Status)
		RecordDeletion(side kernel.Side)
	}
)
