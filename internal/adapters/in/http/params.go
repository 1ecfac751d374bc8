package http

import (
	"errors"
	"net/url"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ListWaitingOrdersParams defines parameters for GET /api/v1/waiting-orders.
type ListWaitingOrdersParams struct {
	Side           string
	CounterpartyID *uuid.UUID
	PeriodType     string
	From           *openapi_types.Date
	To             *openapi_types.Date
}

// ListBundlesParams defines parameters for GET /api/v1/bundles.
type ListBundlesParams struct {
	Side           string
	Status         *string
	CounterpartyID *uuid.UUID
	Limit          *int
	Offset         *int
}

func bindListWaitingOrdersParams(c echo.Context) (ListWaitingOrdersParams, error) {
	var p ListWaitingOrdersParams
	q := c.QueryParams()

	err := errors.Join(
		bindQuery("side", true, q, &p.Side),
		bindQuery("counterparty_id", false, q, &p.CounterpartyID),
		bindQuery("period_type", true, q, &p.PeriodType),
		bindQuery("from", false, q, &p.From),
		bindQuery("to", false, q, &p.To),
	)
	return p, err
}

func bindListBundlesParams(c echo.Context) (ListBundlesParams, error) {
	var p ListBundlesParams
	q := c.QueryParams()

	err := errors.Join(
		bindQuery("side", true, q, &p.Side),
		bindQuery("status", false, q, &p.Status),
		bindQuery("counterparty_id", false, q, &p.CounterpartyID),
		bindQuery("limit", false, q, &p.Limit),
		bindQuery("offset", false, q, &p.Offset),
	)
	return p, err
}

func bindQuery(name string, required bool, values url.Values, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, values, dest); err != nil {
		if required && len(values[name]) == 0 {
			return errs.NewValueIsRequiredErrorWithCause(name, err)
		}
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

// bindPathUUID reads a uuid path parameter such as {id}.
func bindPathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	parsed, err := kernel.UUIDFrom(id)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return parsed, nil
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFrom(*id)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
