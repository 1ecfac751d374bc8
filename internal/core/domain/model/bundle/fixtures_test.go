package bundle_test

import (
	"testing"
	"time"

	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snapshot(t *testing.T) bundle.CounterpartySnapshot {
	t.Helper()
	s, err := bundle.NewCounterpartySnapshot("Hanbit Logistics", "123-45-67890", "004", "110-220-330", "Hanbit Logistics", "J. Park", "010-0000-0000")
	require.NoError(t, err)
	return s
}

func item(t *testing.T, amount string, pickupDay int) *bundle.Item {
	t.Helper()
	i, err := bundle.NewItem(kernel.NewUUID(), kernel.MustAmount(amount), day(pickupDay), day(pickupDay+1))
	require.NoError(t, err)
	return i
}

func adjustment(t *testing.T, kind bundle.AdjustmentType, amount, tax string) *bundle.Adjustment {
	t.Helper()
	a, err := bundle.NewAdjustment(kind, "fuel "+kind.String(), kernel.MustAmount(amount), kernel.MustAmount(tax), "ops", now)
	require.NoError(t, err)
	return a
}

func header(t *testing.T) bundle.Header {
	t.Helper()
	return bundle.Header{
		Side:           kernel.Sales,
		CounterpartyID: kernel.NewUUID(),
		Counterparty:   snapshot(t),
		PeriodType:     kernel.Departure,
		Policy:         bundle.DefaultPolicy(),
		CreatedBy:      "ops",
	}
}

// threeOrderBundle is the three-order sales bundle summing to 450,000.
func threeOrderBundle(t *testing.T) *bundle.Bundle {
	t.Helper()
	b, err := bundle.NewBundle(header(t), []*bundle.Item{
		item(t, "100000", 3),
		item(t, "200000", 5),
		item(t, "150000", 4),
	}, now)
	require.NoError(t, err)
	return b
}
