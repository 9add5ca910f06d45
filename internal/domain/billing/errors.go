package billing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrStockLimitExceeded is returned when adding one more unit would go
	// past the available stock.
	ErrStockLimitExceeded = errors.New("stock limit exceeded")
	// ErrInsufficientStock is returned when a requested quantity is larger
	// than what the ledger currently holds.
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrItemNotInCart     = errors.New("item not in cart")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCustomerRequired  = errors.New("customer is required")
)

// StockError carries the numbers behind a stock rejection. It unwraps to
// ErrStockLimitExceeded or ErrInsufficientStock.
type StockError struct {
	Err       error
	ItemID    uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: %s requested %d, only %d available", e.Err, e.Name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return e.Err
}
