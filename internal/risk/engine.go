package risk

import (
	"math"
	"sync"

	"main/internal/schema"
	"main/internal/state"
)

// Limits defines static pre-trade risk limits.
type Limits struct {
	MaxPositionSize float64 `json:"maxPositionSize"`
	MaxLossPerTrade float64 `json:"maxLossPerTrade"`
	MaxDailyLoss    float64 `json:"maxDailyLoss"`
	StopLossPct     float64 `json:"stopLossPct"`
	TakeProfitPct   float64 `json:"takeProfitPct"`
}

// DefaultLimits mirrors the shipped defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize: 1000,
		MaxLossPerTrade: 100,
		MaxDailyLoss:    500,
		StopLossPct:     0.02,
		TakeProfitPct:   0.04,
	}
}

// Reason explains a rejected order.
type Reason uint16

const (
	ReasonNone Reason = iota
	ReasonDailyLoss
	ReasonPositionLimit
	ReasonTradeLoss
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonDailyLoss:
		return "daily loss limit exceeded"
	case ReasonPositionLimit:
		return "position size limit exceeded"
	case ReasonTradeLoss:
		return "potential loss per trade too high"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a pre-trade validation. A rejection is normal
// control flow, not an error.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Engine is the pre-trade gate and post-trade position bookkeeper. The
// position book is shared, injected state; the daily PnL accumulator is an
// exclusive-lock scalar because every reader immediately decides on it.
type Engine struct {
	limits Limits
	book   *state.PositionBook

	pnlMu    sync.Mutex
	dailyPnL float64
}

// NewEngine creates a risk engine over the shared position book.
func NewEngine(limits Limits, book *state.PositionBook) *Engine {
	return &Engine{limits: limits, book: book}
}

// ValidateOrder applies three short-circuit gates in fixed order: the daily
// loss limit, the resulting position size, and the per-trade loss bound. All
// gates are pure reads; the first failing gate rejects immediately.
func (e *Engine) ValidateOrder(order schema.Order, refPrice float64) Decision {
	if e.DailyPnL() < -e.limits.MaxDailyLoss {
		return Decision{Reason: ReasonDailyLoss}
	}

	// A missing position counts as zero quantity.
	next := e.book.Quantity(order.Symbol) + order.Side.Sign()*order.Quantity
	if math.Abs(next) > e.limits.MaxPositionSize {
		return Decision{Reason: ReasonPositionLimit}
	}

	if order.Quantity*refPrice*e.limits.StopLossPct > e.limits.MaxLossPerTrade {
		return Decision{Reason: ReasonTradeLoss}
	}

	return Decision{Allowed: true}
}

// UpdatePosition folds a signed fill into the shared position book. Called
// only after a successful submission, never on rejection or failure.
func (e *Engine) UpdatePosition(symbol string, signedQty, fillPrice float64) {
	e.book.Apply(symbol, signedQty, fillPrice)
}

// AddDailyPnL accrues realized PnL. No operation in the decision loop writes
// this; it exists for an external settlement collaborator.
func (e *Engine) AddDailyPnL(delta float64) {
	e.pnlMu.Lock()
	defer e.pnlMu.Unlock()
	e.dailyPnL += delta
}

// DailyPnL returns the accumulated realized PnL for the day.
func (e *Engine) DailyPnL() float64 {
	e.pnlMu.Lock()
	defer e.pnlMu.Unlock()
	return e.dailyPnL
}
