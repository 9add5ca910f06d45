package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is one cashier's in-progress bill: the cart plus the bill-level
// choices made so far.
type Session struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Cart            *Cart           `json:"cart"`
	Customer        *CustomerRef    `json:"customer,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxEnabled      bool            `json:"tax_enabled"`
	Notes           string          `json:"notes"`
	LastBillID      *uuid.UUID      `json:"last_bill_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewSession starts an empty session for userID with tax enabled.
func NewSession(userID uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:              uuid.New(),
		UserID:          userID,
		Cart:            NewCart(),
		DiscountPercent: decimal.Zero,
		TaxEnabled:      true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Options returns the totals options for this session at taxRate.
func (s *Session) Options(taxRate decimal.Decimal) TotalsOptions {
	return TotalsOptions{
		DiscountPercent: s.DiscountPercent,
		TaxEnabled:      s.TaxEnabled,
		TaxRate:         taxRate,
	}
}

// Totals computes the current totals of the session's cart.
func (s *Session) Totals(taxRate decimal.Decimal) BillTotals {
	return CalculateTotals(s.Cart.Lines(), s.Options(taxRate))
}

// Reset clears the cart and every bill-level choice.
func (s *Session) Reset() {
	s.Cart.Clear()
	s.Customer = nil
	s.DiscountPercent = decimal.Zero
	s.TaxEnabled = true
	s.Notes = ""
}
