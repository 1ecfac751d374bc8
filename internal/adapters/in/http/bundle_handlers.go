package http

import (
	"errors"
	"net/http"

	"settlement/internal/core/application/usecases/commands"
	"settlement/internal/core/application/usecases/queries"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ListWaitingOrders handles GET /api/v1/waiting-orders.
func (s *Server) ListWaitingOrders(ctx echo.Context) error {
	params, err := bindListWaitingOrdersParams(ctx)
	if err != nil {
		return err
	}

	side, sideErr := kernel.ParseSide(params.Side)
	periodType, periodErr := kernel.ParsePeriodType(params.PeriodType)
	counterpartyID, idErr := optionalUUID(params.CounterpartyID)
	if err := errors.Join(sideErr, periodErr, idErr); err != nil {
		return err
	}

	query, err := queries.NewListWaitingOrdersQuery(side, counterpartyID, periodType,
		fromDatePtr(params.From), fromDatePtr(params.To))
	if err != nil {
		return err
	}

	orders, err := s.handlers.ListWaitingOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toWaitingOrders(orders))
}

// ListBundles handles GET /api/v1/bundles.
func (s *Server) ListBundles(ctx echo.Context) error {
	params, err := bindListBundlesParams(ctx)
	if err != nil {
		return err
	}

	side, sideErr := kernel.ParseSide(params.Side)
	counterpartyID, idErr := optionalUUID(params.CounterpartyID)
	var status *bundle.Status
	var statusErr error
	if params.Status != nil {
		parsed, err := bundle.ParseStatus(*params.Status)
		status, statusErr = &parsed, err
	}
	if err := errors.Join(sideErr, idErr, statusErr); err != nil {
		return err
	}

	query, err := queries.NewListBundlesQuery(side, status, counterpartyID,
		derefInt(params.Limit), derefInt(params.Offset))
	if err != nil {
		return err
	}

	summaries, err := s.handlers.ListBundles.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toBundleSummaries(summaries))
}

// CreateBundle handles POST /api/v1/bundles.
func (s *Server) CreateBundle(ctx echo.Context) error {
	var req NewBundle
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	side, sideErr := kernel.ParseSide(req.Side)
	periodType, periodErr := kernel.ParsePeriodType(req.PeriodType)
	counterpartyID, cpIDErr := kernel.UUIDFrom(req.CounterpartyID)
	orderIDs, ordersErr := toKernelUUIDs("order_ids", req.OrderIDs)
	snapshot, snapshotErr := req.Counterparty.toSnapshot()
	if err := errors.Join(sideErr, periodErr, cpIDErr, ordersErr, snapshotErr); err != nil {
		return err
	}

	cmd, err := commands.NewCreateBundleCommand(side, orderIDs, counterpartyID, snapshot, periodType,
		fromDatePtr(req.PeriodFrom), fromDatePtr(req.PeriodTo), req.Payment.toDomain(), req.CreatedBy)
	if err != nil {
		return err
	}

	id, err := s.handlers.CreateBundle.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx.Request().Context(), "bundle created",
		"bundle_id", id.String(), "side", side.String(), "orders", len(orderIDs))
	return ctx.JSON(http.StatusCreated, Created{ID: id.Value()})
}

// GetBundle handles GET /api/v1/bundles/{id}.
func (s *Server) GetBundle(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetBundleWithTotalsQuery(id)
	if err != nil {
		return err
	}

	view, err := s.handlers.GetBundleWithTotals.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	if view.TotalsDrift {
		s.logger.WarnContext(ctx.Request().Context(), "cached bundle totals differ from recalculated",
			"bundle_id", view.ID.String())
	}
	return ctx.JSON(http.StatusOK, toBundle(view))
}

// UpdateBundle handles PUT /api/v1/bundles/{id}.
func (s *Server) UpdateBundle(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req BundleUpdate
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	periodType := kernel.UnknownPeriodType
	var periodErr error
	if req.PeriodType != "" {
		periodType, periodErr = kernel.ParsePeriodType(req.PeriodType)
	}
	snapshot, snapshotErr := req.Counterparty.toSnapshot()
	if err := errors.Join(periodErr, snapshotErr); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateBundleCommand(id, snapshot, periodType,
		fromDatePtr(req.PeriodFrom), fromDatePtr(req.PeriodTo), req.Payment.toDomain(), req.Issue)
	if err != nil {
		return err
	}

	if err := s.handlers.UpdateBundle.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteBundle handles DELETE /api/v1/bundles/{id}.
func (s *Server) DeleteBundle(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteBundleCommand(id)
	if err != nil {
		return err
	}

	if err := s.handlers.DeleteBundle.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	s.logger.InfoContext(ctx.Request().Context(), "bundle deleted", "bundle_id", id.String())
	return ctx.NoContent(http.StatusNoContent)
}

// CompleteBundle handles POST /api/v1/bundles/{id}/complete.
func (s *Server) CompleteBundle(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteBundleCommand(id)
	if err != nil {
		return err
	}

	if err := s.handlers.CompleteBundle.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelBundle handles POST /api/v1/bundles/{id}/cancel.
func (s *Server) CancelBundle(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req CancelRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCancelBundleCommand(id, req.Reason)
	if err != nil {
		return err
	}

	if err := s.handlers.CancelBundle.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	s.logger.InfoContext(ctx.Request().Context(), "bundle canceled", "bundle_id", id.String())
	return ctx.NoContent(http.StatusNoContent)
}

// bindBody decodes the JSON body and runs the registered validator. An empty
// body leaves dest untouched.
func bindBody(ctx echo.Context, dest any) error {
	if err := (&echo.DefaultBinder{}).BindBody(ctx, dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return ctx.Validate(dest)
}

func toKernelUUIDs(param string, ids []uuid.UUID) ([]kernel.UUID, error) {
	result := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := kernel.UUIDFrom(id)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
		}
		result = append(result, parsed)
	}
	return result, nil
}

func (c *Counterparty) toSnapshot() (*bundle.CounterpartySnapshot, error) {
	if c == nil {
		return nil, nil
	}
	snapshot, err := bundle.NewCounterpartySnapshot(c.Name, c.TaxID, c.BankCode, c.BankAccount,
		c.BankAccountHolder, c.ManagerName, c.ManagerContact)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (p Payment) toDomain() bundle.PaymentInfo {
	return bundle.PaymentInfo{
		InvoiceIssuedAt:   fromDatePtr(p.InvoiceIssuedAt),
		DepositReceivedAt: fromDatePtr(p.DepositReceivedAt),
		TaxFree:           p.TaxFree,
		Memo:              p.Memo,
	}
}
