package strategy

import (
	"math"

	"main/internal/schema"
)

// MeanReversion signals against the deviation of the newest price from the
// rolling mean of the lookback window: buy below the mean, sell above it.
type MeanReversion struct {
	lookback  int
	deviation float64
	orderSize float64
}

// NewMeanReversion creates a mean reversion strategy with the given lookback
// window and relative-deviation threshold.
func NewMeanReversion(lookback int, deviation, orderSize float64) *MeanReversion {
	return &MeanReversion{lookback: lookback, deviation: deviation, orderSize: orderSize}
}

func (s *MeanReversion) Name() string {
	return "mean-reversion"
}

func (s *MeanReversion) Analyze(prices []schema.PricePoint, _ schema.OrderBook) (schema.TradingSignal, bool) {
	if len(prices) < s.lookback {
		return schema.TradingSignal{}, false
	}

	recent := lastWindow(prices, s.lookback)
	if len(recent) < 2 {
		return schema.TradingSignal{}, false
	}

	var priceSum, volumeSum float64
	for _, p := range recent {
		priceSum += p.Price
		volumeSum += p.Volume
	}
	mean := priceSum / float64(len(recent))
	volumeAvg := volumeSum / float64(s.lookback)

	newest := recent[0]
	deviation := (newest.Price - mean) / mean
	if math.Abs(deviation) <= s.deviation || volumeAvg <= volumeFloor {
		return schema.TradingSignal{}, false
	}

	// revert toward the mean
	action := schema.OrderSideSell
	if deviation < 0 {
		action = schema.OrderSideBuy
	}

	return schema.TradingSignal{
		Symbol:      newest.Symbol,
		Action:      action,
		Confidence:  math.Min(math.Abs(deviation), 1.0),
		TargetPrice: newest.Price,
		Quantity:    s.orderSize,
	}, true
}
