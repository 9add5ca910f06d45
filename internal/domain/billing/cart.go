package billing

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one item in a cart.
type Line struct {
	ItemID                 uuid.UUID       `json:"item_id"`
	Name                   string          `json:"name"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	Quantity               int             `json:"quantity"`
	LineTotal              decimal.Decimal `json:"line_total"`
	AvailableStockSnapshot int             `json:"available_stock"`
}

func (l *Line) setQuantity(q int) {
	l.Quantity = q
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(q)))
}

// Cart holds the lines of a bill under construction, in insertion order.
// Every line satisfies 1 <= Quantity <= AvailableStockSnapshot and
// LineTotal == Quantity * UnitPrice. A Cart is not safe for concurrent use.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) index(id uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ItemID == id {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of entry. If the item is already in the cart its
// quantity is incremented. The cart is left untouched when the new quantity
// would exceed entry.AvailableQuantity.
func (c *Cart) AddItem(entry StockEntry) error {
	if i := c.index(entry.ID); i >= 0 {
		line := &c.lines[i]
		next := line.Quantity + 1
		if next > entry.AvailableQuantity {
			return &StockError{
				Err:       ErrStockLimitExceeded,
				ItemID:    entry.ID,
				Name:      line.Name,
				Requested: next,
				Available: entry.AvailableQuantity,
			}
		}
		line.AvailableStockSnapshot = entry.AvailableQuantity
		line.setQuantity(next)
		return nil
	}

	if entry.AvailableQuantity < 1 {
		return &StockError{
			Err:       ErrStockLimitExceeded,
			ItemID:    entry.ID,
			Name:      entry.Name,
			Requested: 1,
			Available: max(entry.AvailableQuantity, 0),
		}
	}

	c.lines = append(c.lines, Line{
		ItemID:                 entry.ID,
		Name:                   entry.Name,
		UnitPrice:              entry.UnitPrice,
		Quantity:               1,
		LineTotal:              entry.UnitPrice,
		AvailableStockSnapshot: entry.AvailableQuantity,
	})
	return nil
}

// SetQuantity sets an absolute quantity for a line already in the cart.
// A quantity of zero or less removes the line. Availability is re-read from
// ledger; an id the ledger does not know counts as zero available. A nil
// ledger falls back to the line's snapshot.
func (c *Cart) SetQuantity(ledger StockLedger, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(itemID)
		return nil
	}

	i := c.index(itemID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotInCart, itemID)
	}
	line := &c.lines[i]

	available := line.AvailableStockSnapshot
	if ledger != nil {
		available = 0
		if entry, ok := ledger.Lookup(itemID); ok {
			available = entry.AvailableQuantity
		}
	}

	if quantity > available {
		return &StockError{
			Err:       ErrInsufficientStock,
			ItemID:    itemID,
			Name:      line.Name,
			Requested: quantity,
			Available: available,
		}
	}

	line.AvailableStockSnapshot = available
	line.setQuantity(quantity)
	return nil
}

// RemoveItem deletes the line for itemID. Missing ids are ignored.
func (c *Cart) RemoveItem(itemID uuid.UUID) {
	if i := c.index(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for itemID.
func (c *Cart) Line(itemID uuid.UUID) (Line, bool) {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	return sumLines(c.lines)
}

func sumLines(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

type cartJSON struct {
	Lines []Line `json:"lines"`
}

// MarshalJSON encodes the cart for session storage.
func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(cartJSON{Lines: lines})
}

// UnmarshalJSON restores a stored cart, dropping lines that break the cart
// invariants and recomputing line totals.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.lines = c.lines[:0]
	seen := make(map[uuid.UUID]struct{}, len(raw.Lines))
	for _, l := range raw.Lines {
		if _, dup := seen[l.ItemID]; dup || l.Quantity < 1 || l.AvailableStockSnapshot < 1 {
			continue
		}
		seen[l.ItemID] = struct{}{}
		l.setQuantity(min(l.Quantity, l.AvailableStockSnapshot))
		c.lines = append(c.lines, l)
	}
	return nil
}
