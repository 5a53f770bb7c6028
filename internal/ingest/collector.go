package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/obs"
	"main/internal/schema"
	"main/internal/state"
)

// DefaultInterval is how often each symbol is polled for a fresh price.
const DefaultInterval = 5 * time.Second

// PriceFetcher fetches the current price point for a symbol.
type PriceFetcher interface {
	GetPrice(ctx context.Context, symbol string) (schema.PricePoint, error)
}

// Collector polls the venue for prices and appends them to the shared
// history store. Each symbol runs on its own goroutine; a failed fetch is
// logged, counted and skipped so one flaky symbol never starves the others.
type Collector struct {
	fetcher  PriceFetcher
	store    *state.HistoryStore
	metrics  *obs.Metrics
	interval time.Duration

	wg sync.WaitGroup
}

// NewCollector creates a collector polling at the given interval. A
// non-positive interval falls back to DefaultInterval.
func NewCollector(fetcher PriceFetcher, store *state.HistoryStore, metrics *obs.Metrics, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Collector{
		fetcher:  fetcher,
		store:    store,
		metrics:  metrics,
		interval: interval,
	}
}

// Start launches one polling goroutine per symbol. Goroutines exit when ctx
// is cancelled.
func (c *Collector) Start(ctx context.Context, symbols []string) {
	for _, symbol := range symbols {
		c.wg.Add(1)
		go func(symbol string) {
			defer c.wg.Done()
			c.collect(ctx, symbol)
		}(symbol)
	}
}

// Wait blocks until all polling goroutines have exited.
func (c *Collector) Wait() {
	c.wg.Wait()
}

func (c *Collector) collect(ctx context.Context, symbol string) {
	logs.Infof("collector started, symbol: %s, interval: %s", symbol, c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logs.Infof("collector stopped, symbol: %s", symbol)
			return
		default:
		}

		point, err := c.fetcher.GetPrice(ctx, symbol)
		if err != nil {
			c.metrics.IncFetchError()
			logs.Errorf("fetch price, symbol: %s, err: %v", symbol, err)
		} else {
			c.store.Append(point)
		}

		select {
		case <-ctx.Done():
			logs.Infof("collector stopped, symbol: %s", symbol)
			return
		case <-ticker.C:
		}
	}
}
