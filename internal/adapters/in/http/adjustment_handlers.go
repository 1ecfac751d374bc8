package http

import (
	"errors"
	"net/http"
	"strings"

	"settlement/internal/core/application/usecases/commands"
	"settlement/internal/core/domain/model/bundle"
	"settlement/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AddBundleAdjustment handles POST /api/v1/bundles/{id}/adjustments.
func (s *Server) AddBundleAdjustment(ctx echo.Context) error {
	bundleID, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req NewAdjustment
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	kind, amount, taxAmount, err := req.parse()
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddBundleAdjustmentCommand(bundleID, kind, req.Description, amount, taxAmount, req.CreatedBy)
	if err != nil {
		return err
	}

	id, err := s.handlers.AddBundleAdjustment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, Created{ID: id.Value()})
}

// AddItemAdjustment handles POST /api/v1/bundle-items/{itemId}/adjustments.
func (s *Server) AddItemAdjustment(ctx echo.Context) error {
	itemID, err := bindPathUUID(ctx, "itemId")
	if err != nil {
		return err
	}

	var req NewAdjustment
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	kind, amount, taxAmount, err := req.parse()
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddItemAdjustmentCommand(itemID, kind, req.Description, amount, taxAmount, req.CreatedBy)
	if err != nil {
		return err
	}

	id, err := s.handlers.AddItemAdjustment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, Created{ID: id.Value()})
}

// RemoveAdjustment handles DELETE /api/v1/adjustments/{adjustmentId}.
func (s *Server) RemoveAdjustment(ctx echo.Context) error {
	adjustmentID, err := bindPathUUID(ctx, "adjustmentId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveAdjustmentCommand(adjustmentID)
	if err != nil {
		return err
	}

	if err := s.handlers.RemoveAdjustment.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// parse converts the wire fields. A missing tax amount is zero.
func (a NewAdjustment) parse() (bundle.AdjustmentType, kernel.Amount, kernel.Amount, error) {
	kind, kindErr := bundle.ParseAdjustmentType(a.Type)
	amount, amountErr := kernel.AmountFromString(a.Amount)

	taxAmount := kernel.ZeroAmount()
	var taxErr error
	if tax := strings.TrimSpace(a.TaxAmount); tax != "" {
		taxAmount, taxErr = kernel.AmountFromString(tax)
	}

	if err := errors.Join(kindErr, amountErr, taxErr); err != nil {
		return bundle.UnknownAdjustmentType, kernel.Amount{}, kernel.Amount{}, err
	}
	return kind, amount, taxAmount, nil
}
