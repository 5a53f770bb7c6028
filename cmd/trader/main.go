package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/core"
	"main/internal/errors"
	"main/internal/ingest"
	"main/internal/journal"
	"main/internal/obs"
	"main/internal/og"
	"main/internal/ops"
	"main/internal/risk"
	"main/internal/state"
	"main/internal/strategy"
	"main/internal/venue/binance"
	"main/pkg/conn"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("trader: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to JSON config")
	symbolsFlag := flag.String("symbols", "", "Comma-separated symbol override")
	runFor := flag.Duration("run-for", 0, "Stop after this duration (0=run until signal)")
	streamMode := flag.Bool("stream", false, "Collect prices over websocket instead of REST polling")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *runFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *runFor)
		defer cancel()
	}

	if addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS"); addr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "trader",
			ServerAddress:   addr,
			Tags: map[string]string{
				"env": os.Getenv("ENV"),
			},
			Logger: emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			return errors.Wrap(err, "start pyroscope")
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := ops.Load(*configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	symbols := loaded.Symbols
	if *symbolsFlag != "" {
		symbols = splitSymbols(*symbolsFlag)
	}

	creds, err := ops.LoadCredentials()
	if err != nil {
		return err
	}

	opts := []binance.Option{
		binance.WithCredentials(creds.APIKey, creds.APISecret),
		binance.WithSimulation(loaded.Simulation),
	}
	if loaded.Testnet {
		opts = append(opts, binance.WithTestnet())
	}
	client := binance.NewClient(&http.Client{Timeout: 15 * time.Second}, opts...)

	if err := client.Ping(ctx); err != nil {
		return errors.Wrap(err, "venue connectivity probe")
	}
	logs.Info("venue reachable")
	if !loaded.Simulation {
		if err := client.VerifyCredentials(ctx); err != nil {
			return errors.Wrap(err, "verify venue credentials")
		}
	}

	metrics := obs.NewMetrics()
	store := state.NewHistoryStore(loaded.HistoryBound)
	book := state.NewPositionBook()
	engine := risk.NewEngine(loaded.Risk, book)
	gateway := og.NewGateway(client)

	var jnl *journal.Journal
	if loaded.Journal.ConnString != "" {
		pg, err := conn.New(conn.Option{ConnString: loaded.Journal.ConnString})
		if err != nil {
			return errors.Wrap(err, "open journal database")
		}
		defer pg.Close()
		if err := pg.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping journal database")
		}

		jnl, err = journal.New(pg, metrics, loaded.Journal.QueueSize)
		if err != nil {
			return errors.Wrap(err, "open trade journal")
		}
		jnl.Start(ctx)
		defer jnl.Close()
		logs.Info("trade journal enabled")
	}

	strategies := buildStrategies(loaded)
	if strategies.Len() == 0 {
		logs.Info("no strategy enabled, running collect-only")
	}

	var collector *ingest.Collector
	if *streamMode {
		stream := ingest.NewStream(ctx, store, metrics)
		if err := stream.Start(ctx); err != nil {
			return errors.Wrap(err, "start price stream")
		}
		defer stream.Close()
		for _, symbol := range symbols {
			if err := stream.SubscribeMiniTicker(ctx, symbol); err != nil {
				return errors.Wrapf(err, "subscribe mini ticker, symbol: %s", symbol)
			}
		}
		unsubscribe := stream.Observe(ctx)
		defer unsubscribe()
	} else {
		collector = ingest.NewCollector(client, store, metrics, loaded.CollectInterval)
	}

	orchestrator := core.NewOrchestrator(core.Config{
		Store:      store,
		Engine:     engine,
		Gateway:    gateway,
		Strategies: strategies,
		Depth:      client,
		Collector:  collector,
		Metrics:    metrics,
		Journal:    jnl,
		Interval:   loaded.DecideInterval,
	})
	if err := orchestrator.Start(ctx, symbols); err != nil {
		return err
	}

	<-ctx.Done()
	logs.Info("shutting down")

	orchestrator.Stop()

	for _, position := range book.Snapshot() {
		logs.Infof("position: %s %.6f @ %.2f", position.Symbol, position.Quantity, position.AvgPrice)
	}
	logs.Infof("pending orders: %d", len(gateway.Pending()))

	snapshot := metrics.Snapshot()
	logs.Infof("metrics: fetch_errors=%d signals=%d submissions=%d submission_errors=%d rejections=%v journal_drops=%d cycle=%+v submit=%+v",
		snapshot.FetchErrors, snapshot.Signals, snapshot.Submissions, snapshot.SubmissionErrors,
		snapshot.RejectionCounts, snapshot.JournalDrops, snapshot.CycleLatency, snapshot.SubmitLatency)
	return nil
}

func buildStrategies(loaded ops.Loaded) *strategy.Registry {
	registry := strategy.NewRegistry()
	if loaded.Momentum.Enabled {
		registry.Register(strategy.NewMomentum(
			loaded.Momentum.Lookback, loaded.Momentum.Threshold, loaded.Momentum.OrderSize))
	}
	if loaded.MeanReversion.Enabled {
		registry.Register(strategy.NewMeanReversion(
			loaded.MeanReversion.Lookback, loaded.MeanReversion.Threshold, loaded.MeanReversion.OrderSize))
	}
	return registry
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if symbol := strings.ToUpper(strings.TrimSpace(part)); symbol != "" {
			out = append(out, symbol)
		}
	}
	return out
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
