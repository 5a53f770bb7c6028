package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

func points(symbol string, volume float64, prices ...float64) []schema.PricePoint {
	out := make([]schema.PricePoint, 0, len(prices))
	for i, price := range prices {
		out = append(out, schema.PricePoint{
			Symbol:    symbol,
			Price:     price,
			Timestamp: int64(i),
			Volume:    volume,
		})
	}
	return out
}

func TestMomentumSellOnDrop(t *testing.T) {
	momentum := NewMomentum(5, 0.01, 0.001)

	// newest last: 100,100,100,100,90 with volume above the floor
	signal, ok := momentum.Analyze(points("BTCUSDT", 2000, 100, 100, 100, 100, 90), schema.OrderBook{})
	require.True(t, ok)

	assert.Equal(t, schema.OrderSideSell, signal.Action)
	assert.InDelta(t, 0.10, signal.Confidence, 1e-9)
	assert.Equal(t, float64(90), signal.TargetPrice)
	assert.Equal(t, "BTCUSDT", signal.Symbol)
	assert.Equal(t, 0.001, signal.Quantity)
}

func TestMomentumBuyOnRise(t *testing.T) {
	momentum := NewMomentum(5, 0.01, 0.001)

	signal, ok := momentum.Analyze(points("ETHUSDT", 5000, 100, 100, 100, 100, 110), schema.OrderBook{})
	require.True(t, ok)

	assert.Equal(t, schema.OrderSideBuy, signal.Action)
	assert.InDelta(t, 0.10, signal.Confidence, 1e-9)
	assert.Equal(t, float64(110), signal.TargetPrice)
}

func TestMomentumNoSignalBelowVolumeFloor(t *testing.T) {
	momentum := NewMomentum(5, 0.01, 0.001)

	_, ok := momentum.Analyze(points("BTCUSDT", 500, 100, 100, 100, 100, 90), schema.OrderBook{})
	assert.False(t, ok)
}

func TestMomentumNoSignalBelowThreshold(t *testing.T) {
	momentum := NewMomentum(5, 0.01, 0.001)

	// 0.5% move, threshold 1%
	_, ok := momentum.Analyze(points("BTCUSDT", 2000, 100, 100, 100, 100, 100.5), schema.OrderBook{})
	assert.False(t, ok)
}

func TestMomentumNoSignalShortHistory(t *testing.T) {
	momentum := NewMomentum(5, 0.01, 0.001)

	_, ok := momentum.Analyze(points("BTCUSDT", 2000, 100, 90), schema.OrderBook{})
	assert.False(t, ok)
}

func TestMomentumConfidenceCapped(t *testing.T) {
	momentum := NewMomentum(2, 0.01, 0.001)

	// +400% move clamps confidence at 1.0
	signal, ok := momentum.Analyze(points("BTCUSDT", 2000, 100, 500), schema.OrderBook{})
	require.True(t, ok)
	assert.Equal(t, 1.0, signal.Confidence)
}

func TestMomentumUsesTrailingWindowOnly(t *testing.T) {
	momentum := NewMomentum(3, 0.01, 0.001)

	// older points outside the window must not matter: window is 100,100,100
	_, ok := momentum.Analyze(points("BTCUSDT", 2000, 50, 200, 100, 100, 100), schema.OrderBook{})
	assert.False(t, ok)
}
