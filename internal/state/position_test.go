package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionBookApplyAveragePrice(t *testing.T) {
	book := NewPositionBook()

	qty := book.Apply("BTCUSDT", 2, 10)
	require.Equal(t, float64(2), qty)

	position, ok := book.Position("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, float64(2), position.Quantity)
	assert.Equal(t, float64(10), position.AvgPrice)
}

func TestPositionBookZeroCrossingKeepsAvgPrice(t *testing.T) {
	book := NewPositionBook()
	book.Apply("BTCUSDT", 2, 10)

	// selling back to flat must not divide by zero; avg price stays at 10
	qty := book.Apply("BTCUSDT", -2, 12)
	require.Equal(t, float64(0), qty)

	position, ok := book.Position("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, float64(0), position.Quantity)
	assert.Equal(t, float64(10), position.AvgPrice)
}

func TestPositionBookWeightedAverage(t *testing.T) {
	book := NewPositionBook()
	book.Apply("ETHUSDT", 1, 100)
	book.Apply("ETHUSDT", 3, 200)

	position, ok := book.Position("ETHUSDT")
	require.True(t, ok)
	assert.Equal(t, float64(4), position.Quantity)
	assert.InDelta(t, 175, position.AvgPrice, 1e-9)
}

func TestPositionBookRecordPersistsAtZero(t *testing.T) {
	book := NewPositionBook()
	book.Apply("BTCUSDT", 1, 50)
	book.Apply("BTCUSDT", -1, 55)

	_, ok := book.Position("BTCUSDT")
	assert.True(t, ok, "flat position should persist")
	assert.Equal(t, 1, book.Count())
}

func TestPositionBookQuantityMissingSymbol(t *testing.T) {
	book := NewPositionBook()
	assert.Equal(t, float64(0), book.Quantity("UNKNOWN"))
}
