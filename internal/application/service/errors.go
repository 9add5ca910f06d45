package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sangkips/stockroom-api/internal/domain/billing"
	"github.com/sangkips/stockroom-api/internal/domain/production"
	"github.com/sangkips/stockroom-api/internal/infrastructure/session"
	"github.com/sangkips/stockroom-api/pkg/apperror"
)

// Reasons attached to AppErrors raised from domain rules.
const (
	ReasonStockLimitExceeded = "stock_limit_exceeded"
	ReasonInsufficientStock  = "insufficient_stock"
	ReasonItemNotInCart      = "item_not_in_cart"
	ReasonEmptyCart          = "empty_cart"
	ReasonCustomerRequired   = "customer_required"
	ReasonInvalidQuantity    = "invalid_quantity"
	ReasonSessionBusy        = "session_busy"
)

// mapDomainError turns billing and production sentinels into AppErrors.
// Anything else is returned unchanged.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var stockErr *billing.StockError
	if errors.As(err, &stockErr) {
		reason := ReasonInsufficientStock
		if errors.Is(err, billing.ErrStockLimitExceeded) {
			reason = ReasonStockLimitExceeded
		}
		return &apperror.AppError{
			Code:    http.StatusConflict,
			Message: fmt.Sprintf("Only %d of %s in stock", stockErr.Available, stockErr.Name),
			Reason:  reason,
		}
	}

	switch {
	case errors.Is(err, billing.ErrStockLimitExceeded):
		return &apperror.AppError{Code: http.StatusConflict, Message: "Stock limit exceeded", Reason: ReasonStockLimitExceeded}
	case errors.Is(err, billing.ErrInsufficientStock):
		return &apperror.AppError{Code: http.StatusConflict, Message: "Insufficient stock", Reason: ReasonInsufficientStock}
	case errors.Is(err, billing.ErrItemNotInCart):
		return &apperror.AppError{Code: http.StatusNotFound, Message: "Item is not in the cart", Reason: ReasonItemNotInCart}
	case errors.Is(err, billing.ErrEmptyCart):
		return apperror.NewRuleError(ReasonEmptyCart, "Add at least one item before generating a bill")
	case errors.Is(err, billing.ErrCustomerRequired):
		return apperror.NewRuleError(ReasonCustomerRequired, "Select a customer before generating a bill")
	case errors.Is(err, production.ErrInvalidQuantity):
		return apperror.NewRuleError(ReasonInvalidQuantity, "Quantity must be at least 1")
	case errors.Is(err, session.ErrNotFound):
		return apperror.NewNotFoundError("Billing session")
	}
	return err
}
