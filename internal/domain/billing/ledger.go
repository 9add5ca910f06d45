package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEntry is a read-only view of one sellable item and how many units
// are on hand.
type StockEntry struct {
	ID                uuid.UUID
	Name              string
	UnitPrice         decimal.Decimal
	AvailableQuantity int
	Category          string
}

// StockLedger answers availability questions for the cart. The cart never
// writes to it.
type StockLedger interface {
	Lookup(id uuid.UUID) (StockEntry, bool)
}

// Ledger is a map-backed StockLedger snapshot.
type Ledger map[uuid.UUID]StockEntry

// NewLedger indexes entries by id. Negative availability is stored as zero.
func NewLedger(entries []StockEntry) Ledger {
	l := make(Ledger, len(entries))
	for _, e := range entries {
		if e.AvailableQuantity < 0 {
			e.AvailableQuantity = 0
		}
		l[e.ID] = e
	}
	return l
}

// Lookup implements StockLedger.
func (l Ledger) Lookup(id uuid.UUID) (StockEntry, bool) {
	e, ok := l[id]
	return e, ok
}
