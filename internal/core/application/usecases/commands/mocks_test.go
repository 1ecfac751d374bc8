package commands_test

import (
	"context"
	"testing"
	"time"

	"settlement/internal/core/application/usecases/commands"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/freight"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBundleRepository struct{ mock.Mock }

func (m *MockBundleRepository) Add(ctx context.Context, b *bundle.Bundle) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBundleRepository) Update(ctx context.Context, b *bundle.Bundle) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBundleRepository) Delete(ctx context.Context, b *bundle.Bundle) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBundleRepository) Get(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*bundle.Bundle)
	return b, args.Error(1)
}

func (m *MockBundleRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*bundle.Bundle)
	return b, args.Error(1)
}

func (m *MockBundleRepository) FindByItemID(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*bundle.Bundle)
	return b, args.Error(1)
}

func (m *MockBundleRepository) FindByAdjustmentID(ctx context.Context, id kernel.UUID) (*bundle.Bundle, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*bundle.Bundle)
	return b, args.Error(1)
}

type MockFreightOrderRepository struct{ mock.Mock }

func (m *MockFreightOrderRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*freight.Order, error) {
	args := m.Called(ctx, ids)
	orders, _ := args.Get(0).([]*freight.Order)
	return orders, args.Error(1)
}

func (m *MockFreightOrderRepository) ActiveOwners(
	ctx context.Context,
	side kernel.Side,
	ids []kernel.UUID,
) (map[kernel.UUID]kernel.UUID, error) {
	args := m.Called(ctx, side, ids)
	owners, _ := args.Get(0).(map[kernel.UUID]kernel.UUID)
	return owners, args.Error(1)
}

type MockCounterpartyDirectory struct{ mock.Mock }

func (m *MockCounterpartyDirectory) GetSnapshot(ctx context.Context, id kernel.UUID) (bundle.CounterpartySnapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(bundle.CounterpartySnapshot), args.Error(1)
}

func (m *MockCounterpartyDirectory) Exists(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) BundleRepository() ports.BundleRepository {
	return m.Called().Get(0).(ports.BundleRepository)
}

func (m *MockUoW) FreightOrderRepository() ports.FreightOrderRepository {
	return m.Called().Get(0).(ports.FreightOrderRepository)
}

func (m *MockUoW) CounterpartyDirectory() ports.CounterpartyDirectory {
	return m.Called().Get(0).(ports.CounterpartyDirectory)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockBundleUoWFactory struct{ mock.Mock }

func (m *MockBundleUoWFactory) Create() commands.BundleUoW {
	return m.Called().Get(0).(commands.BundleUoW)
}

type MockTransitionRecorder struct{ mock.Mock }

func (m *MockTransitionRecorder) RecordTransition(side kernel.Side, to bundle.Status) {
	m.Called(side, to)
}

func (m *MockTransitionRecorder) RecordDeletion(side kernel.Side) {
	m.Called(side)
}

var now = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func newSnapshot(t *testing.T, name string) bundle.CounterpartySnapshot {
	t.Helper()
	s, err := bundle.NewCounterpartySnapshot(name, "220-81-12345", "004", "110-220", name, "", "")
	require.NoError(t, err)
	return s
}

// newBundle returns a sales bundle of three items summing to 450,000.
func newBundle(t *testing.T, payment bundle.PaymentInfo) *bundle.Bundle {
	t.Helper()
	items := make([]*bundle.Item, 0, 3)
	for i, amount := range []string{"100000", "200000", "150000"} {
		item, err := bundle.NewItem(kernel.NewUUID(), kernel.MustAmount(amount),
			now.AddDate(0, 0, -10+i), now.AddDate(0, 0, -9+i))
		require.NoError(t, err)
		items = append(items, item)
	}

	b, err := bundle.NewBundle(bundle.Header{
		Side:           kernel.Sales,
		CounterpartyID: kernel.NewUUID(),
		Counterparty:   newSnapshot(t, "Acme Shipping"),
		PeriodType:     kernel.Departure,
		Payment:        payment,
		Policy:         bundle.DefaultPolicy(),
	}, items, now)
	require.NoError(t, err)
	return b
}

func newPaidBundle(t *testing.T) *bundle.Bundle {
	t.Helper()
	b := newBundle(t, bundle.PaymentInfo{InvoiceIssuedAt: ptr(now), DepositReceivedAt: ptr(now)})
	require.NoError(t, b.Complete(now))
	return b
}
