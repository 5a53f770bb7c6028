package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/logs"

	"main/internal/ingest"
	"main/internal/journal"
	"main/internal/obs"
	"main/internal/og"
	"main/internal/risk"
	"main/internal/schema"
	"main/internal/state"
	"main/internal/strategy"
	"main/pkg/exception"
)

const (
	// DefaultDecisionInterval is the pause between decision cycles.
	DefaultDecisionInterval = 10 * time.Second

	// minHistoryPoints is the minimum number of samples a symbol needs
	// before strategies see it at all.
	minHistoryPoints = 3
)

// DepthFetcher fetches a fresh order book snapshot for a symbol.
type DepthFetcher interface {
	GetOrderBook(ctx context.Context, symbol string) (schema.OrderBook, error)
}

// Orchestrator drives the decision loop: snapshot history, evaluate every
// strategy per symbol, gate each signal through risk and hand approved
// orders to the gateway. One failing symbol or strategy never aborts the
// cycle for the rest.
type Orchestrator struct {
	store      *state.HistoryStore
	engine     *risk.Engine
	gateway    *og.Gateway
	strategies *strategy.Registry
	depth      DepthFetcher
	collector  *ingest.Collector
	metrics    *obs.Metrics
	journal    *journal.Journal
	interval   time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// Config wires the orchestrator's collaborators. A nil Collector means
// someone else feeds the history store (the websocket stream mode).
type Config struct {
	Store      *state.HistoryStore
	Engine     *risk.Engine
	Gateway    *og.Gateway
	Strategies *strategy.Registry
	Depth      DepthFetcher
	Collector  *ingest.Collector
	Metrics    *obs.Metrics
	Journal    *journal.Journal
	Interval   time.Duration
}

// NewOrchestrator creates a stopped orchestrator. A non-positive interval
// falls back to DefaultDecisionInterval.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultDecisionInterval
	}
	return &Orchestrator{
		store:      cfg.Store,
		engine:     cfg.Engine,
		gateway:    cfg.Gateway,
		strategies: cfg.Strategies,
		depth:      cfg.Depth,
		collector:  cfg.Collector,
		metrics:    cfg.Metrics,
		journal:    cfg.Journal,
		interval:   cfg.Interval,
	}
}

// Start launches the per-symbol collectors and the decision loop. Starting
// an already running orchestrator is an error.
func (o *Orchestrator) Start(ctx context.Context, symbols []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return exception.ErrCoreAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.running = true

	if o.collector != nil {
		o.collector.Start(ctx, symbols)
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(ctx, symbols)
	}()

	logs.Infof("orchestrator started, symbols: %v, interval: %s", symbols, o.interval)
	return nil
}

// Stop cancels the loop and waits for the in-flight cycle to finish.
// Stopping a stopped orchestrator is a no-op.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	cancel := o.cancel
	o.mu.Unlock()

	cancel()
	o.wg.Wait()
	if o.collector != nil {
		o.collector.Wait()
	}
	logs.Info("orchestrator stopped")
}

// Running reports whether the decision loop is active.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

func (o *Orchestrator) run(ctx context.Context, symbols []string) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		o.cycle(ctx, symbols)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle runs one decision pass over every symbol.
func (o *Orchestrator) cycle(ctx context.Context, symbols []string) {
	start := time.Now()
	defer func() {
		o.metrics.ObserveCycle(time.Since(start))
	}()

	snapshot := o.store.Snapshot()
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}

		points := snapshot[symbol]
		if len(points) < minHistoryPoints {
			continue
		}

		book, err := o.depth.GetOrderBook(ctx, symbol)
		if err != nil {
			o.metrics.IncFetchError()
			logs.Errorf("fetch order book, symbol: %s, err: %v", symbol, err)
			continue
		}

		for _, s := range o.strategies.All() {
			signal, ok := s.Analyze(points, book)
			if !ok {
				continue
			}

			o.metrics.IncSignal()
			logs.Infof("signal: %s %s, confidence: %.2f, target: %.2f, strategy: %s",
				signal.Action, signal.Symbol, signal.Confidence, signal.TargetPrice, s.Name())

			o.execute(ctx, signal, s.Name())
		}
	}
}

// execute turns one signal into a market order and walks it through risk and
// the gateway.
func (o *Orchestrator) execute(ctx context.Context, signal schema.TradingSignal, strategyName string) {
	order := schema.Order{
		ID:        uuid.NewString(),
		Symbol:    signal.Symbol,
		Side:      signal.Action,
		Kind:      schema.OrderKindMarket,
		Quantity:  signal.Quantity,
		CreatedAt: time.Now().Unix(),
	}

	record := journal.Record{
		OrderID:    order.ID,
		Symbol:     order.Symbol,
		Side:       order.Side.String(),
		Quantity:   order.Quantity,
		Price:      signal.TargetPrice,
		Confidence: signal.Confidence,
		Strategy:   strategyName,
	}

	decision := o.engine.ValidateOrder(order, signal.TargetPrice)
	if !decision.Allowed {
		o.metrics.IncRejection(decision.Reason)
		record.Reason = decision.Reason.String()
		o.journal.Append(record)
		logs.Infof("order rejected: %s %s, reason: %s", order.Side, order.Symbol, decision.Reason)
		return
	}

	submitStart := time.Now()
	venueID, err := o.gateway.Submit(ctx, order)
	if err != nil {
		o.metrics.IncSubmissionError()
		record.Reason = err.Error()
		o.journal.Append(record)
		logs.Errorf("submit order, id: %s, err: %v", order.ID, err)
		return
	}
	o.metrics.IncSubmission()
	o.metrics.ObserveSubmit(time.Since(submitStart))

	o.engine.UpdatePosition(order.Symbol, order.Side.Sign()*order.Quantity, signal.TargetPrice)

	record.VenueID = venueID
	record.Accepted = true
	o.journal.Append(record)
	logs.Infof("order submitted: %s %s %.6f, venue id: %s", order.Side, order.Symbol, order.Quantity, venueID)
}
