package state

import (
	"sync"

	"main/internal/schema"
)

const DefaultHistoryBound = 100

// HistoryStore keeps a bounded, per-symbol sequence of price samples in
// arrival order. Collectors append under the write lock while the decision
// loop snapshots under the read lock; appends to different symbols still
// serialize on the same lock, which is acceptable at polling frequencies.
type HistoryStore struct {
	mu     sync.RWMutex
	bound  int
	points map[string][]schema.PricePoint
}

// NewHistoryStore allocates a store keeping at most bound points per symbol.
func NewHistoryStore(bound int) *HistoryStore {
	if bound <= 0 {
		bound = DefaultHistoryBound
	}
	return &HistoryStore{
		bound:  bound,
		points: make(map[string][]schema.PricePoint),
	}
}

// Append records a price sample, evicting the oldest entry when the
// per-symbol bound is exceeded. Arrival order is preserved; samples are
// never reordered by price or timestamp value.
func (s *HistoryStore) Append(p schema.PricePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := append(s.points[p.Symbol], p)
	if len(points) > s.bound {
		points = points[len(points)-s.bound:]
	}
	s.points[p.Symbol] = points
}

// Snapshot returns a copy of every symbol's history taken under a single
// read lock. The copy is safe to iterate while collectors keep appending.
func (s *HistoryStore) Snapshot() map[string][]schema.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]schema.PricePoint, len(s.points))
	for symbol, points := range s.points {
		copied := make([]schema.PricePoint, len(points))
		copy(copied, points)
		out[symbol] = copied
	}
	return out
}

// History returns a copy of one symbol's samples in arrival order.
func (s *HistoryStore) History(symbol string) []schema.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.points[symbol]
	out := make([]schema.PricePoint, len(points))
	copy(out, points)
	return out
}

// Len returns the number of stored samples for a symbol.
func (s *HistoryStore) Len(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points[symbol])
}
