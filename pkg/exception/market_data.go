package exception

import "errors"

var (
	ErrMarketDataEmptyPayload  = errors.New("market data: empty payload")
	ErrMarketDataParsePrice    = errors.New("market data: parse price")
	ErrMarketDataParseQuantity = errors.New("market data: parse quantity")
)
