package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"settlement/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("bundleId", "b-1")

		assert.Equal(t, "bundleId", err.ParamName)
		assert.Equal(t, "b-1", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: b-1", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "o-7", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: o-7 (cause: record not found)",
			err.Error())
	})
}

func TestValidationFamily(t *testing.T) {
	t.Run("invalid value", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("side", errors.New("unknown side \"x\""))

		assert.Equal(t, "value is invalid: side (cause: unknown side \"x\")", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("amount", "-5", "0", "∞")

		assert.Equal(t, "value is invalid: -5 is amount, min value is 0, max value is ∞", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("out of range sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("memo", "line1\nline2", 0, 10, errors.New("too long"))

		assert.Contains(t, err.Error(), "line1 line2")
		assert.Contains(t, err.Error(), "(cause: too long)")
		assert.NotContains(t, err.Error(), "\n")
	})

	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("orderIds")

		assert.Equal(t, "value is required: orderIds", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("joined validation errors still classify", func(t *testing.T) {
		err := errors.Join(
			errs.NewValueIsRequiredError("counterparty.name"),
			errs.NewValueIsRequiredError("counterparty.taxId"),
		)

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("other kinds are not validation errors", func(t *testing.T) {
		assert.NotErrorIs(t, errs.NewConflictError("order", "o-1"), errs.ErrValidation)
		assert.NotErrorIs(t, errs.NewInvalidStateError("complete", "draft"), errs.ErrValidation)
		assert.NotErrorIs(t, errs.NewObjectNotFoundError("bundle", "b-1"), errs.ErrValidation)
	})
}

func TestConflictError(t *testing.T) {
	err := errs.NewConflictError("order", "o-1")
	assert.Equal(t, "conflict: order o-1", err.Error())
	require.ErrorIs(t, err, errs.ErrConflict)

	cause := errors.New("duplicated key not allowed")
	err = errs.NewConflictErrorWithCause("bundle", "b-1", cause)
	assert.Equal(t, "conflict: bundle b-1 (cause: duplicated key not allowed)", err.Error())
}

func TestInvalidStateError(t *testing.T) {
	err := errs.NewInvalidStateError("add adjustment", "paid")
	assert.Equal(t, "invalid state: add adjustment is not allowed in paid state", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidState)

	wrapped := fmt.Errorf("complete bundle: %w",
		errs.NewInvalidStateErrorWithCause("complete", "issued", errors.New("depositReceivedAt is not set")))
	require.ErrorIs(t, wrapped, errs.ErrInvalidState)

	var target *errs.InvalidStateError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "issued", target.State)
}
