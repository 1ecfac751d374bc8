package kernel_test

import (
	"testing"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmount(t *testing.T) {
	t.Run("should accept zero and positive values", func(t *testing.T) {
		for _, s := range []string{"0", "100000", "1234.56"} {
			a, err := kernel.AmountFromString(s)

			require.NoError(t, err)
			require.NoError(t, a.Validate())
			assert.True(t, a.Decimal().Equal(decimal.RequireFromString(s)))
		}
	})

	t.Run("should reject negative values", func(t *testing.T) {
		_, err := kernel.NewAmount(decimal.NewFromInt(-1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("should accept four decimal places and redundant trailing zeros", func(t *testing.T) {
		for _, s := range []string{"0.0001", "1234.5678", "10.500000"} {
			_, err := kernel.AmountFromString(s)

			assert.NoError(t, err, s)
		}
	})

	t.Run("should reject values finer than the stored scale", func(t *testing.T) {
		for _, s := range []string{"0.00005", "1234.56789"} {
			_, err := kernel.AmountFromString(s)

			assert.ErrorIs(t, err, errs.ErrValueIsInvalid, s)
			assert.ErrorIs(t, err, errs.ErrValidation, s)
		}
	})

	t.Run("should reject values that do not fit the stored precision", func(t *testing.T) {
		_, err := kernel.AmountFromString("100000000000000")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject non numeric strings", func(t *testing.T) {
		_, err := kernel.AmountFromString("12,000")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var a kernel.Amount

		require.ErrorIs(t, a.Validate(), kernel.ErrAmountIsNotConstructed)
		require.NoError(t, kernel.ZeroAmount().Validate())
	})
}

func TestAmount_IsEqual(t *testing.T) {
	assert.True(t, kernel.MustAmount("100").IsEqual(kernel.MustAmount("100.00")))
	assert.False(t, kernel.MustAmount("100").IsEqual(kernel.MustAmount("100.01")))
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in    string
		scale int32
		want  string
	}{
		{"45000.5", 0, "45001"},
		{"45000.4", 0, "45000"},
		{"12.345", 2, "12.35"},
		{"12.344", 2, "12.34"},
		{"2.5", 0, "3"},
	}

	for _, tc := range cases {
		got := kernel.RoundHalfUp(decimal.RequireFromString(tc.in), tc.scale)
		assert.Truef(t, got.Equal(decimal.RequireFromString(tc.want)), "%s -> %s, got %s", tc.in, tc.want, got)
	}
}
