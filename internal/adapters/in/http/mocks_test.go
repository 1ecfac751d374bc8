package http_test

import (
	"context"

	"settlement/internal/core/application/usecases/commands"
	"settlement/internal/core/application/usecases/queries"
	"settlement/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/mock"
)

type MockCreateBundleHandler struct{ mock.Mock }

func (m *MockCreateBundleHandler) Handle(ctx context.Context, cmd commands.CreateBundleCommand) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	id, _ := args.Get(0).(kernel.UUID)
	return id, args.Error(1)
}

type MockUpdateBundleHandler struct{ mock.Mock }

func (m *MockUpdateBundleHandler) Handle(ctx context.Context, cmd commands.UpdateBundleCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockDeleteBundleHandler struct{ mock.Mock }

func (m *MockDeleteBundleHandler) Handle(ctx context.Context, cmd commands.DeleteBundleCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockCompleteBundleHandler struct{ mock.Mock }

func (m *MockCompleteBundleHandler) Handle(ctx context.Context, cmd commands.CompleteBundleCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockCancelBundleHandler struct{ mock.Mock }

func (m *MockCancelBundleHandler) Handle(ctx context.Context, cmd commands.CancelBundleCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockAddBundleAdjustmentHandler struct{ mock.Mock }

func (m *MockAddBundleAdjustmentHandler) Handle(
	ctx context.Context,
	cmd commands.AddBundleAdjustmentCommand,
) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	id, _ := args.Get(0).(kernel.UUID)
	return id, args.Error(1)
}

type MockAddItemAdjustmentHandler struct{ mock.Mock }

func (m *MockAddItemAdjustmentHandler) Handle(
	ctx context.Context,
	cmd commands.AddItemAdjustmentCommand,
) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	id, _ := args.Get(0).(kernel.UUID)
	return id, args.Error(1)
}

type MockRemoveAdjustmentHandler struct{ mock.Mock }

func (m *MockRemoveAdjustmentHandler) Handle(ctx context.Context, cmd commands.RemoveAdjustmentCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockListWaitingOrdersHandler struct{ mock.Mock }

func (m *MockListWaitingOrdersHandler) Handle(
	ctx context.Context,
	query queries.ListWaitingOrdersQuery,
) ([]queries.WaitingOrder, error) {
	args := m.Called(ctx, query)
	orders, _ := args.Get(0).([]queries.WaitingOrder)
	return orders, args.Error(1)
}

type MockListBundlesHandler struct{ mock.Mock }

func (m *MockListBundlesHandler) Handle(
	ctx context.Context,
	query queries.ListBundlesQuery,
) ([]queries.BundleSummary, error) {
	args := m.Called(ctx, query)
	summaries, _ := args.Get(0).([]queries.BundleSummary)
	return summaries, args.Error(1)
}

type MockGetBundleWithTotalsHandler struct{ mock.Mock }

func (m *MockGetBundleWithTotalsHandler) Handle(
	ctx context.Context,
	query queries.GetBundleWithTotalsQuery,
) (queries.BundleView, error) {
	args := m.Called(ctx, query)
	view, _ := args.Get(0).(queries.BundleView)
	return view, args.Error(1)
}
