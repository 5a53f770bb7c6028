package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/logs"

	"main/internal/errors"
	"main/internal/schema"
	"main/pkg/exception"
)

const (
	_binanceBaseUrl        = "https://api.binance.com"
	_binanceBaseUrlTestnet = "https://testnet.binance.vision"

	_depthLimit        = 10
	_requestTimeout    = 15 * time.Second
	_simExecutionDelay = 50 * time.Millisecond
)

// Client talks to the Binance spot REST API. With simulation enabled, order
// submission never leaves the process: well-formed orders are acknowledged
// locally after a short artificial delay.
type Client struct {
	client     *http.Client
	baseUrl    string
	apiKey     string
	apiSecret  string
	simulation bool
}

type Option func(*Client)

// WithTestnet points the client at the Binance spot testnet.
func WithTestnet() Option {
	return func(c *Client) {
		c.baseUrl = _binanceBaseUrlTestnet
	}
}

// WithCredentials attaches an API key pair for authenticated endpoints.
func WithCredentials(key, secret string) Option {
	return func(c *Client) {
		c.apiKey = key
		c.apiSecret = secret
	}
}

// WithSimulation toggles local order execution.
func WithSimulation(enabled bool) Option {
	return func(c *Client) {
		c.simulation = enabled
	}
}

func NewClient(client *http.Client, opts ...Option) *Client {
	if client == nil {
		client = &http.Client{Timeout: _requestTimeout}
	}

	c := &Client{
		client:     client,
		baseUrl:    _binanceBaseUrl,
		simulation: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks REST connectivity. It carries no authentication and is safe to
// call before trading starts.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.get(ctx, "/api/v3/ping", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(exception.ErrVenueUnexpectedStatus, "ping, status: %d", resp.StatusCode)
	}
	return nil
}

// VerifyCredentials hits the signed account endpoint to confirm the key pair
// is usable. Required before live order flow is enabled.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	if len(c.apiKey) == 0 || len(c.apiSecret) == 0 {
		return exception.ErrVenueMissingCredentials
	}

	query := url.Values{}
	query.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query.Set("signature", sign(query.Encode(), c.apiSecret))

	resp, err := c.get(ctx, "/api/v3/account", query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		_ = sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&apiErr)
		return errors.Wrapf(exception.ErrVenueUnexpectedStatus,
			"verify credentials, status: %d, code: %d, msg: %s",
			resp.StatusCode, apiErr.Code, apiErr.Message)
	}
	return nil
}

// GetPrice returns the current price for symbol, stamped with the request
// time. Volume comes from the 24h ticker and degrades to zero when that call
// fails, so a flaky statistics endpoint never stalls price collection.
func (c *Client) GetPrice(ctx context.Context, symbol string) (schema.PricePoint, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	resp, err := c.get(ctx, "/api/v3/ticker/price", query)
	if err != nil {
		return schema.PricePoint{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return schema.PricePoint{}, errors.Wrapf(exception.ErrVenueUnexpectedStatus,
			"ticker price, symbol: %s, status: %d", symbol, resp.StatusCode)
	}

	var ticker tickerPriceResponse
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return schema.PricePoint{}, errors.Wrap(exception.ErrVenueDecodeResponseBody, err.Error())
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return schema.PricePoint{}, errors.Wrapf(exception.ErrMarketDataParsePrice,
			"symbol: %s, raw: %s", symbol, ticker.Price)
	}

	return schema.PricePoint{
		Symbol:    symbol,
		Price:     price,
		Timestamp: time.Now().Unix(),
		Volume:    c.volume24h(ctx, symbol),
	}, nil
}

func (c *Client) volume24h(ctx context.Context, symbol string) float64 {
	query := url.Values{}
	query.Set("symbol", symbol)

	resp, err := c.get(ctx, "/api/v3/ticker/24hr", query)
	if err != nil {
		logs.Errorf("fetch 24h volume for %s, err: %v", symbol, err)
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logs.Errorf("fetch 24h volume for %s, status: %d", symbol, resp.StatusCode)
		return 0
	}

	var ticker ticker24hResponse
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		logs.Errorf("decode 24h volume for %s, err: %v", symbol, err)
		return 0
	}

	volume, err := strconv.ParseFloat(ticker.Volume, 64)
	if err != nil {
		logs.Errorf("parse 24h volume for %s, raw: %s", symbol, ticker.Volume)
		return 0
	}
	return volume
}

// GetOrderBook returns the top levels of the depth snapshot for symbol.
func (c *Client) GetOrderBook(ctx context.Context, symbol string) (schema.OrderBook, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("limit", strconv.Itoa(_depthLimit))

	resp, err := c.get(ctx, "/api/v3/depth", query)
	if err != nil {
		return schema.OrderBook{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return schema.OrderBook{}, errors.Wrapf(exception.ErrVenueUnexpectedStatus,
			"depth, symbol: %s, status: %d", symbol, resp.StatusCode)
	}

	var depth depthResponse
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&depth); err != nil {
		return schema.OrderBook{}, errors.Wrap(exception.ErrVenueDecodeResponseBody, err.Error())
	}

	bids, err := parseLevels(depth.Bids)
	if err != nil {
		return schema.OrderBook{}, errors.Wrapf(err, "bids, symbol: %s", symbol)
	}
	asks, err := parseLevels(depth.Asks)
	if err != nil {
		return schema.OrderBook{}, errors.Wrapf(err, "asks, symbol: %s", symbol)
	}

	return schema.OrderBook{
		Symbol:    symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: time.Now().Unix(),
	}, nil
}

func parseLevels(raw [][]string) ([]schema.PriceLevel, error) {
	levels := make([]schema.PriceLevel, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			return nil, exception.ErrMarketDataEmptyPayload
		}

		price, err := strconv.ParseFloat(entry[0], 64)
		if err != nil {
			return nil, errors.Wrapf(exception.ErrMarketDataParsePrice, "raw: %s", entry[0])
		}
		quantity, err := strconv.ParseFloat(entry[1], 64)
		if err != nil {
			return nil, errors.Wrapf(exception.ErrMarketDataParseQuantity, "raw: %s", entry[1])
		}

		levels = append(levels, schema.PriceLevel{Price: price, Quantity: quantity})
	}
	return levels, nil
}

// SubmitOrder sends order to the venue and returns the venue-assigned order
// ID. In simulation mode a well-formed order is always accepted after a
// short artificial delay; live submission is not wired yet and is refused
// outright rather than silently simulated.
func (c *Client) SubmitOrder(ctx context.Context, order schema.Order) (string, error) {
	if err := validateOrder(order); err != nil {
		return "", err
	}

	if !c.simulation {
		return "", exception.ErrVenueLiveNotImplemented
	}

	select {
	case <-time.After(_simExecutionDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	venueID := fmt.Sprintf("sim_%s", order.ID)
	logs.Infof("simulated fill: %s %s %.6f %s @ %.2f, venue id: %s",
		order.Side, order.Kind, order.Quantity, order.Symbol, order.Price, venueID)
	return venueID, nil
}

// CancelOrder cancels a previously submitted order by venue ID. Simulated
// orders fill immediately, so cancellation is a no-op acknowledgement.
func (c *Client) CancelOrder(ctx context.Context, id string) error {
	if !c.simulation {
		return exception.ErrVenueLiveNotImplemented
	}

	logs.Infof("simulated cancel acknowledged, venue id: %s", id)
	return nil
}

func validateOrder(order schema.Order) error {
	switch {
	case len(order.ID) == 0:
		return exception.ErrOrderMissingID
	case len(order.Symbol) == 0:
		return exception.ErrOrderMissingSymbol
	case order.Quantity <= 0:
		return exception.ErrOrderInvalidQuantity
	case order.Side != schema.OrderSideBuy && order.Side != schema.OrderSideSell:
		return exception.ErrOrderUnknownSide
	default:
		return nil
	}
}

// get issues a GET against the REST API. Request deadlines come from the
// injected http.Client so the response body stays readable by the caller.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.baseUrl + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if len(c.apiKey) != 0 {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	return c.client.Do(req)
}
