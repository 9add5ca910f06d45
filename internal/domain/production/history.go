package production

import "sync"

// DefaultHistoryLimit is how many calculations a History keeps.
const DefaultHistoryLimit = 5

// History is a bounded, most-recent-first list of calculations. It is safe
// for concurrent use.
type History struct {
	mu    sync.Mutex
	limit int
	items []Calculation
}

// NewHistory returns a History holding at most limit entries. A limit
// below one uses DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record puts calc at the front, discarding the oldest entry when full.
func (h *History) Record(calc Calculation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]Calculation, 0, h.limit)
	items = append(items, calc)
	for _, c := range h.items {
		if len(items) == h.limit {
			break
		}
		items = append(items, c)
	}
	h.items = items
}

// Entries returns the calculations newest first.
func (h *History) Entries() []Calculation {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Calculation, len(h.items))
	copy(out, h.items)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
}

func (h *History) Limit() int {
	return h.limit
}
