package exception

import "errors"

var (
	ErrOrderMissingID       = errors.New("order: missing id")
	ErrOrderMissingSymbol   = errors.New("order: missing symbol")
	ErrOrderInvalidQuantity = errors.New("order: quantity must be > 0")
	ErrOrderUnknownSide     = errors.New("order: unknown side")
)
