package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"

	"main/internal/obs"
	"main/internal/schema"
	"main/internal/state"
)

const (
	_binanceBaseWsUrl           = "wss://stream.binance.com:9443/ws"
	_binanceBaseWsUrlMarketOnly = "wss://data-stream.binance.vision"
)

// Stream collects prices from the Binance mini-ticker websocket stream
// instead of REST polling. The mini ticker carries both the latest price and
// the rolling 24h volume, so stream points are interchangeable with polled
// ones.
type Stream struct {
	wss     *ws.WebSocket
	store   *state.HistoryStore
	metrics *obs.Metrics
}

func NewStream(ctx context.Context, store *state.HistoryStore, metrics *obs.Metrics) *Stream {
	return &Stream{
		wss:     ws.New(ctx, _binanceBaseWsUrl),
		store:   store,
		metrics: metrics,
	}
}

func (s *Stream) Start(ctx context.Context) error {
	if err := s.wss.Start(ctx); err != nil {
		return errors.Wrap(err, "start wss")
	}

	return nil
}

func (s *Stream) Len() int {
	return s.wss.Len()
}

func (s *Stream) Close() {
	s.wss.Close()
}

type binanceSubscribeRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

type binanceSubscribeResponse struct {
	ID     int64 `json:"id"`
	Result any   `json:"result"`
}

func subscriberResponseParser(m ws.Message) (binanceSubscribeResponse, bool) {
	var resp binanceSubscribeResponse
	err := m.Unmarshal(&resp)
	return resp, err == nil
}

// SubscribeMiniTicker subscribes the 'Individual Symbol Mini Ticker Stream'
// for symbol.
func (s *Stream) SubscribeMiniTicker(ctx context.Context, symbol string) error {
	appendIntoRegister := true
	if err := s.wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, ws *ws.WebSocket) error {
			payload := binanceSubscribeRequest{
				Method: "SUBSCRIBE",
				Params: []string{
					fmt.Sprintf("%s@miniTicker", strings.ToLower(symbol)),
				},
				ID: 1,
			}

			if err := ws.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write subscribe payload").With("payload", payload)
			}

			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			resp, ok := subscriberResponseParser(m)
			if !ok || resp.ID != 1 {
				return false, nil
			}

			if resp.Result != nil {
				return false, errors.Errorf("subscribe and wait, err: %+v", resp.Result)
			}
			return true, nil
		},
	}, appendIntoRegister); err != nil {
		return errors.Wrap(err, "send and wait")
	}

	return nil
}

type binanceMiniTicker struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"` // milliseconds
	Symbol    string `json:"s"`
	Close     string `json:"c"`
	Open      string `json:"o"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Volume    string `json:"v"` // 24h base asset volume
}

// Observe consumes mini-ticker events and appends each as a price point.
func (s *Stream) Observe(ctx context.Context) (unsubscribe func()) {
	ch, cancel := s.wss.Subscribe()

	go func() {
		defer cancel()
		for {
			select {
			case <-sys.Shutdown():
				return
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}

				ticker, ok := ws.ReadMessage[binanceMiniTicker](m)
				if !ok || ticker.EventType != "24hrMiniTicker" {
					continue
				}

				point, err := ticker.pricePoint()
				if err != nil {
					s.metrics.IncFetchError()
					logs.Errorf("parse mini ticker, symbol: %s, err: %v", ticker.Symbol, err)
					continue
				}

				s.store.Append(point)
			}
		}
	}()

	return cancel
}

func (t binanceMiniTicker) pricePoint() (schema.PricePoint, error) {
	price, err := strconv.ParseFloat(t.Close, 64)
	if err != nil {
		return schema.PricePoint{}, errors.Wrap(err, "parse close price").With("raw", t.Close)
	}

	volume, err := strconv.ParseFloat(t.Volume, 64)
	if err != nil {
		return schema.PricePoint{}, errors.Wrap(err, "parse volume").With("raw", t.Volume)
	}

	return schema.PricePoint{
		Symbol:    t.Symbol,
		Price:     price,
		Timestamp: t.EventTime / 1000,
		Volume:    volume,
	}, nil
}
