package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/pkg/utils"
)

// CustomerRef identifies the customer a bill is made out to.
type CustomerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BuildInput is everything needed to materialize a bill.
type BuildInput struct {
	Cart     *Cart
	Customer *CustomerRef
	Options  TotalsOptions
	Notes    string
	UserID   uuid.UUID
}

// Clock returns the current time. Tests pass a fixed one.
type Clock func() time.Time

// BuildBill snapshots the cart and its totals into a new Bill. The bill
// holds copies of the lines, so later cart changes do not reach it. Nothing
// is persisted here.
func BuildBill(in BuildInput, now Clock) (*entity.Bill, error) {
	if in.Cart == nil || in.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if in.Customer == nil || in.Customer.ID == uuid.Nil {
		return nil, ErrCustomerRequired
	}
	if now == nil {
		now = time.Now
	}

	lines := in.Cart.Lines()
	totals := CalculateTotals(lines, in.Options).Rounded()

	bill := &entity.Bill{
		ID:              uuid.New(),
		BillNo:          utils.GenerateBillNo(),
		UserID:          in.UserID,
		CustomerID:      in.Customer.ID,
		CustomerName:    in.Customer.Name,
		Subtotal:        totals.Subtotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		TaxEnabled:      totals.TaxEnabled,
		TaxRate:         totals.TaxRate,
		TaxAmount:       totals.TaxAmount,
		GrandTotal:      totals.GrandTotal,
		Status:          enum.BillStatusPaid,
		CreatedAt:       now(),
		Items:           make([]entity.BillItem, 0, len(lines)),
	}

	if notes := strings.TrimSpace(in.Notes); notes != "" {
		bill.Notes = &notes
	}

	for _, l := range lines {
		bill.Items = append(bill.Items, entity.BillItem{
			ID:        uuid.New(),
			BillID:    bill.ID,
			ProductID: l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.Round(2),
		})
	}

	return bill, nil
}
