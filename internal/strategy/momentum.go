package strategy

import (
	"math"

	"main/internal/schema"
)

// volumeFloor is the minimum average traded volume required before any
// strategy in this package emits a signal.
const volumeFloor = 1000.0

// Momentum signals in the direction of the relative price change over a
// lookback window. A near-zero threshold fires on almost any movement; treat
// it strictly as a tuning input.
type Momentum struct {
	lookback  int
	threshold float64
	orderSize float64
}

// NewMomentum creates a momentum strategy with the given lookback window and
// relative-change threshold.
func NewMomentum(lookback int, threshold, orderSize float64) *Momentum {
	return &Momentum{lookback: lookback, threshold: threshold, orderSize: orderSize}
}

func (s *Momentum) Name() string {
	return "momentum"
}

func (s *Momentum) Analyze(prices []schema.PricePoint, _ schema.OrderBook) (schema.TradingSignal, bool) {
	if len(prices) < s.lookback {
		return schema.TradingSignal{}, false
	}

	// most recent lookback points, newest first
	recent := lastWindow(prices, s.lookback)
	if len(recent) < 2 {
		return schema.TradingSignal{}, false
	}

	newest := recent[0]
	oldest := recent[len(recent)-1]
	change := (newest.Price - oldest.Price) / oldest.Price

	var volumeSum float64
	for _, p := range recent {
		volumeSum += p.Volume
	}
	volumeAvg := volumeSum / float64(s.lookback)

	if math.Abs(change) <= s.threshold || volumeAvg <= volumeFloor {
		return schema.TradingSignal{}, false
	}

	action := schema.OrderSideBuy
	if change < 0 {
		action = schema.OrderSideSell
	}

	return schema.TradingSignal{
		Symbol:      newest.Symbol,
		Action:      action,
		Confidence:  math.Min(math.Abs(change), 1.0),
		TargetPrice: newest.Price,
		Quantity:    s.orderSize,
	}, true
}

// lastWindow returns up to n trailing points in newest-first order.
func lastWindow(prices []schema.PricePoint, n int) []schema.PricePoint {
	if n > len(prices) {
		n = len(prices)
	}
	out := make([]schema.PricePoint, 0, n)
	for i := len(prices) - 1; i >= len(prices)-n; i-- {
		out = append(out, prices[i])
	}
	return out
}
