package og

import (
	"context"
	"sync"

	"github.com/yanun0323/logs"

	"main/internal/schema"
)

// Venue is the execution side of the venue client.
type Venue interface {
	SubmitOrder(ctx context.Context, order schema.Order) (string, error)
	CancelOrder(ctx context.Context, id string) error
}

// Gateway forwards approved orders to the venue and tracks in-flight orders.
// The pending list means "known to have been sent", not "still open": a
// successful submission deliberately leaves the order in the list.
type Gateway struct {
	venue Venue

	mu      sync.Mutex
	pending []schema.Order
}

// NewGateway creates a gateway over the venue client.
func NewGateway(venue Venue) *Gateway {
	return &Gateway{venue: venue}
}

// Submit records the order as pending before the venue call, so no
// submission is ever attempted without an in-memory record of intent. On
// failure the record is rolled back by id and the error returned; on success
// the venue's order id is returned and the record kept.
func (g *Gateway) Submit(ctx context.Context, order schema.Order) (string, error) {
	g.mu.Lock()
	g.pending = append(g.pending, order)
	g.mu.Unlock()

	venueID, err := g.venue.SubmitOrder(ctx, order)
	if err != nil {
		g.remove(order.ID)
		return "", err
	}
	return venueID, nil
}

// Cancel removes the order from the pending list by id. Removal of an
// unknown id is a successful no-op. The venue cancel is best-effort only:
// the in-memory record is authoritative and the venue outcome is not
// verified.
func (g *Gateway) Cancel(ctx context.Context, id string) error {
	if !g.remove(id) {
		return nil
	}

	if err := g.venue.CancelOrder(ctx, id); err != nil {
		logs.Errorf("cancel order %s at venue: %+v", id, err)
	}
	return nil
}

// Pending returns a copy of the orders recorded as sent.
func (g *Gateway) Pending() []schema.Order {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]schema.Order, len(g.pending))
	copy(out, g.pending)
	return out
}

// PendingIDs returns the ids of the orders recorded as sent.
func (g *Gateway) PendingIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, len(g.pending))
	for _, order := range g.pending {
		out = append(out, order.ID)
	}
	return out
}

func (g *Gateway) remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, order := range g.pending {
		if order.ID == id {
			g.pending = append(g.pending[:i], g.pending[i+1:]...)
			return true
		}
	}
	return false
}
