package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	api "settlement/internal/adapters/in/http"
	"settlement/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"required value", errs.NewValueIsRequiredError("side"), http.StatusBadRequest},
		{"invalid value", errs.NewValueIsInvalidError("side"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("limit", 500, 1, 200), http.StatusBadRequest},
		{"joined validation", errors.Join(errs.NewValueIsRequiredError("a"), errs.NewValueIsInvalidError("b")), http.StatusBadRequest},
		{"not found", errs.NewObjectNotFoundError("bundle", "x"), http.StatusNotFound},
		{"wrapped conflict", fmt.Errorf("update: %w", errs.NewConflictError("bundle", "x")), http.StatusConflict},
		{"invalid state", errs.NewInvalidStateError("cancel", "paid"), http.StatusUnprocessableEntity},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run("should map "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.StatusFor(tt.err))
		})
	}
}

type validated struct {
	Side  string   `json:"side" validate:"required,oneof=sales purchase"`
	Items []string `json:"items" validate:"required,min=1"`
	Inner *struct {
		Name string `json:"name" validate:"required"`
	} `json:"inner"`
}

func TestRequestValidator(t *testing.T) {
	v := api.NewRequestValidator()

	t.Run("should accept a valid struct", func(t *testing.T) {
		assert.NoError(t, v.Validate(&validated{Side: "sales", Items: []string{"a"}}))
	})

	t.Run("should report every failed field as a validation error", func(t *testing.T) {
		err := v.Validate(&validated{Side: "refund"})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.ErrorContains(t, err, "side")
		assert.ErrorContains(t, err, "items")
	})

	t.Run("should name nested fields by their json path", func(t *testing.T) {
		err := v.Validate(&validated{Side: "sales", Items: []string{"a"}, Inner: &struct {
			Name string `json:"name" validate:"required"`
		}{}})

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorContains(t, err, "inner.name")
	})
}
