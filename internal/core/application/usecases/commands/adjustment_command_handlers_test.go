package commands_test

import (
	"testing"

	"settlement/internal/core/application/usecases/commands"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectBundleUoW(ctx any, factory *MockBundleUoWFactory, uow *MockUoW, repo *MockBundleRepository) {
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("BundleRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

func TestAddBundleAdjustmentCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	b := newBundle(t, bundle.PaymentInfo{})
	repo := new(MockBundleRepository)
	uow := new(MockUoW)
	factory := new(MockBundleUoWFactory)
	expectBundleUoW(ctx, factory, uow, repo)
	repo.On("GetForUpdate", ctx, b.ID()).Return(b, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(updated *bundle.Bundle) bool {
		totals := updated.Totals()
		return totals.TotalAmount.Equal(decimal.NewFromInt(460000)) &&
			totals.TotalTaxAmount.Equal(decimal.NewFromInt(46000)) &&
			totals.TotalAmountWithTax.Equal(decimal.NewFromInt(506000))
	})).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewAddBundleAdjustmentCommand(b.ID(), bundle.Surcharge, "waiting time",
		kernel.MustAmount("10000"), kernel.MustAmount("1000"), "ops")
	require.NoError(t, err)

	id, err := commands.NewAddBundleAdjustmentCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NoError(t, id.Validate())
	require.Len(t, b.Adjustments(), 1)
	assert.True(t, b.Adjustments()[0].ID().IsEqual(id))
	assert.Equal(t, "ops", b.Adjustments()[0].CreatedBy())
	mock.AssertExpectationsForObjects(t, factory, uow, repo)
}

func TestAddBundleAdjustmentCommandHandler_Handle_FrozenBundle(t *testing.T) {
	ctx := t.Context()
	b := newPaidBundle(t)
	before := b.Totals()
	repo := new(MockBundleRepository)
	uow := new(MockUoW)
	factory := new(MockBundleUoWFactory)
	expectBundleUoW(ctx, factory, uow, repo)
	repo.On("GetForUpdate", ctx, b.ID()).Return(b, nil).Once()

	cmd, err := commands.NewAddBundleAdjustmentCommand(b.ID(), bundle.Discount, "late",
		kernel.MustAmount("100"), kernel.MustAmount("10"), "ops")
	require.NoError(t, err)

	_, err = commands.NewAddBundleAdjustmentCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.True(t, before.Equal(b.Totals()))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAddItemAdjustmentCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	b := newBundle(t, bundle.PaymentInfo{})
	item := b.Items()[0]
	repo := new(MockBundleRepository)
	uow := new(MockUoW)
	factory := new(MockBundleUoWFactory)
	expectBundleUoW(ctx, factory, uow, repo)
	repo.On("FindByItemID", ctx, item.ID()).Return(b, nil).Once()
	repo.On("Update", ctx, b).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewAddItemAdjustmentCommand(item.ID(), bundle.Discount, "damaged pallet",
		kernel.MustAmount("5000"), kernel.MustAmount("500"), "ops")
	require.NoError(t, err)

	id, err := commands.NewAddItemAdjustmentCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, item.Adjustments(), 1)
	assert.True(t, item.Adjustments()[0].ID().IsEqual(id))
	assert.True(t, b.Totals().TotalAmount.Equal(decimal.NewFromInt(445000)))
	assert.True(t, b.Totals().TotalTaxAmount.Equal(decimal.NewFromInt(44500)))
	mock.AssertExpectationsForObjects(t, factory, uow, repo)
}

func TestAddItemAdjustmentCommandHandler_Handle_UnknownItem(t *testing.T) {
	ctx := t.Context()
	itemID := kernel.NewUUID()
	repo := new(MockBundleRepository)
	uow := new(MockUoW)
	factory := new(MockBundleUoWFactory)
	expectBundleUoW(ctx, factory, uow, repo)
	repo.On("FindByItemID", ctx, itemID).Return(nil, errs.NewObjectNotFoundError("bundleItem", itemID.String())).Once()

	cmd, err := commands.NewAddItemAdjustmentCommand(itemID, bundle.Discount, "x",
		kernel.MustAmount("1"), kernel.MustAmount("0"), "")
	require.NoError(t, err)

	_, err = commands.NewAddItemAdjustmentCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestRemoveAdjustmentCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	b := newBundle(t, bundle.PaymentInfo{})
	adj, err := bundle.NewAdjustment(bundle.Surcharge, "night run", kernel.MustAmount("10000"), kernel.MustAmount("1000"), "ops", now)
	require.NoError(t, err)
	require.NoError(t, b.AddItemAdjustment(b.Items()[1].ID(), adj, now))

	repo := new(MockBundleRepository)
	uow := new(MockUoW)
	factory := new(MockBundleUoWFactory)
	expectBundleUoW(ctx, factory, uow, repo)
	repo.On("FindByAdjustmentID", ctx, adj.ID()).Return(b, nil).Once()
	repo.On("Update", ctx, b).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewRemoveAdjustmentCommand(adj.ID())
	require.NoError(t, err)

	require.NoError(t, commands.NewRemoveAdjustmentCommandHandler(factory).Handle(ctx, cmd))

	assert.False(t, b.HasAdjustment(adj.ID()))
	assert.True(t, b.Totals().TotalAmount.Equal(decimal.NewFromInt(450000)))
	mock.AssertExpectationsForObjects(t, factory, uow, repo)
}

func TestNewAdjustmentCommands_Validation(t *testing.T) {
	t.Run("should collect every invalid field", func(t *testing.T) {
		_, err := commands.NewAddBundleAdjustmentCommand(kernel.UUID{}, bundle.UnknownAdjustmentType, " ",
			kernel.Amount{}, kernel.Amount{}, "")

		require.ErrorIs(t, err, errs.ErrValidation)
		for _, field := range []string{"bundleId", "type", "description", "amount", "taxAmount"} {
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("negative amounts never reach the command", func(t *testing.T) {
		_, err := kernel.AmountFromString("-10")

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("item command requires item id", func(t *testing.T) {
		_, err := commands.NewAddItemAdjustmentCommand(kernel.UUID{}, bundle.Discount, "x",
			kernel.MustAmount("1"), kernel.MustAmount("0"), "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("remove requires adjustment id", func(t *testing.T) {
		_, err := commands.NewRemoveAdjustmentCommand(kernel.UUID{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, commands.RemoveAdjustmentCommand{}.Validate(), commands.ErrRemoveAdjustmentCommandIsNotConstructed)
	})
}
