package strategy

import (
	"sync"

	"main/internal/schema"
)

// Strategy is a pluggable signal generator. Analyze inspects the price
// history (arrival order, newest last) together with a fresh order book
// snapshot and emits at most one signal per symbol per cycle.
type Strategy interface {
	Analyze(prices []schema.PricePoint, book schema.OrderBook) (schema.TradingSignal, bool)
	Name() string
}

// Registry holds the strategies evaluated each decision cycle. Every
// registered strategy runs independently; the orchestrator processes every
// emitted signal rather than picking a single best one.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a strategy to the evaluation set.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, s)
}

// All returns a copy of the registered strategies.
func (r *Registry) All() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}
