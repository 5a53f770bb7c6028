package state

import (
	"sync"

	"main/internal/schema"
)

// PositionBook tracks net holdings per symbol. Entries are created lazily on
// the first fill and never deleted; quantity may return to zero but the
// record persists.
type PositionBook struct {
	mu        sync.RWMutex
	positions map[string]*schema.Position
}

// NewPositionBook creates an empty book.
func NewPositionBook() *PositionBook {
	return &PositionBook{positions: make(map[string]*schema.Position)}
}

// Apply folds a signed fill into the position and returns the new quantity.
// The average entry price follows the volume-weighted formula
// (prevQty*prevAvg + qty*price) / newQty; when the new quantity is exactly
// zero the division is skipped and the average price is left unchanged.
func (b *PositionBook) Apply(symbol string, signedQty, fillPrice float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	position, ok := b.positions[symbol]
	if !ok {
		position = &schema.Position{Symbol: symbol}
		b.positions[symbol] = position
	}

	totalCost := position.Quantity*position.AvgPrice + signedQty*fillPrice
	position.Quantity += signedQty

	if position.Quantity != 0 {
		position.AvgPrice = totalCost / position.Quantity
	}
	return position.Quantity
}

// Position returns a copy of the current position for a symbol.
func (b *PositionBook) Position(symbol string) (schema.Position, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	position, ok := b.positions[symbol]
	if !ok {
		return schema.Position{}, false
	}
	return *position, true
}

// Quantity returns the signed quantity for a symbol, zero when absent.
func (b *PositionBook) Quantity(symbol string) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if position, ok := b.positions[symbol]; ok {
		return position.Quantity
	}
	return 0
}

// Snapshot returns a copy of every tracked position.
func (b *PositionBook) Snapshot() []schema.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]schema.Position, 0, len(b.positions))
	for _, position := range b.positions {
		out = append(out, *position)
	}
	return out
}

// Count returns the number of tracked symbols.
func (b *PositionBook) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.positions)
}
