package schema

// OrderSide describes order direction.
type OrderSide uint16

const (
	OrderSideUnknown OrderSide = iota
	OrderSideBuy
	OrderSideSell
)

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "BUY"
	case OrderSideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Sign returns +1 for buys and -1 for sells.
func (s OrderSide) Sign() float64 {
	switch s {
	case OrderSideBuy:
		return 1
	case OrderSideSell:
		return -1
	default:
		return 0
	}
}

// OrderKind describes order type.
type OrderKind uint16

const (
	OrderKindUnknown OrderKind = iota
	OrderKindMarket
	OrderKindLimit
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindMarket:
		return "MARKET"
	case OrderKindLimit:
		return "LIMIT"
	default:
		return "UNKNOWN"
	}
}

// PricePoint is a single observed price sample. Immutable once created.
type PricePoint struct {
	Symbol    string
	Price     float64
	Timestamp int64 // unix seconds
	Volume    float64
}

// PriceLevel is one side entry of an order book.
type PriceLevel struct {
	Price    float64
	Quantity float64
}

// OrderBook is a point-in-time depth snapshot for a symbol.
// It is replaced wholesale on every fetch, never merged incrementally.
type OrderBook struct {
	Symbol    string
	Bids      []PriceLevel
	Asks      []PriceLevel
	Timestamp int64
}

// Order is a trade instruction bound for the venue.
// The ID is unique for the lifetime of the process and is the sole key
// used for pending-order removal.
type Order struct {
	ID        string
	Symbol    string
	Side      OrderSide
	Kind      OrderKind
	Quantity  float64
	Price     float64 // 0 for market orders
	CreatedAt int64   // unix seconds
}

// Position is the net holding for a symbol. Quantity is signed,
// positive = net long. Created lazily on the first fill and never deleted;
// quantity may return to zero but the record persists.
type Position struct {
	Symbol        string
	Quantity      float64
	AvgPrice      float64
	UnrealizedPnL float64
}

// TradingSignal is a strategy's recommendation. Ephemeral: produced by a
// strategy, consumed immediately by the orchestrator, never stored.
type TradingSignal struct {
	Symbol      string
	Action      OrderSide
	Confidence  float64 // [0, 1]
	TargetPrice float64
	Quantity    float64
}
