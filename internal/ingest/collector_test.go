package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/obs"
	"main/internal/schema"
	"main/internal/state"
)

type stubFetcher struct {
	calls  atomic.Int64
	failOn func(call int64) bool
}

func (f *stubFetcher) GetPrice(_ context.Context, symbol string) (schema.PricePoint, error) {
	call := f.calls.Add(1)
	if f.failOn != nil && f.failOn(call) {
		return schema.PricePoint{}, errors.New("venue unavailable")
	}
	return schema.PricePoint{
		Symbol:    symbol,
		Price:     100 + float64(call),
		Timestamp: call,
		Volume:    2000,
	}, nil
}

func TestCollectorAppendsFetchedPrices(t *testing.T) {
	store := state.NewHistoryStore(state.DefaultHistoryBound)
	fetcher := &stubFetcher{}
	collector := NewCollector(fetcher, store, obs.NewMetrics(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	collector.Start(ctx, []string{"BTCUSDT"})

	require.Eventually(t, func() bool {
		return store.Len("BTCUSDT") >= 3
	}, time.Second, time.Millisecond)

	cancel()
	collector.Wait()
}

func TestCollectorSkipsFailedFetch(t *testing.T) {
	store := state.NewHistoryStore(state.DefaultHistoryBound)
	metrics := obs.NewMetrics()
	fetcher := &stubFetcher{failOn: func(call int64) bool { return call%2 == 0 }}
	collector := NewCollector(fetcher, store, metrics, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	collector.Start(ctx, []string{"BTCUSDT"})

	require.Eventually(t, func() bool {
		return metrics.Snapshot().FetchErrors >= 2 && store.Len("BTCUSDT") >= 2
	}, time.Second, time.Millisecond)

	cancel()
	collector.Wait()

	// failed fetches never produce a point
	for _, p := range store.History("BTCUSDT") {
		assert.NotZero(t, p.Price)
	}
}

func TestCollectorPollsEachSymbolIndependently(t *testing.T) {
	store := state.NewHistoryStore(state.DefaultHistoryBound)
	collector := NewCollector(&stubFetcher{}, store, obs.NewMetrics(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	collector.Start(ctx, []string{"BTCUSDT", "ETHUSDT"})

	require.Eventually(t, func() bool {
		return store.Len("BTCUSDT") >= 2 && store.Len("ETHUSDT") >= 2
	}, time.Second, time.Millisecond)

	cancel()
	collector.Wait()
}

func TestCollectorStopsOnCancel(t *testing.T) {
	store := state.NewHistoryStore(state.DefaultHistoryBound)
	collector := NewCollector(&stubFetcher{}, store, obs.NewMetrics(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	collector.Start(ctx, []string{"BTCUSDT"})
	cancel()

	done := make(chan struct{})
	go func() {
		collector.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after cancellation")
	}
}
