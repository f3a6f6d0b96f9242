package orderbookv1

import "fmt"

// Direction is the side of an order. Its numeric value is the sign used to
// build best-price keys: -1 for bids so the highest bid sorts first, +1 for
// asks so the lowest ask sorts first.
type Direction int8

const (
	// Bid is a buy order. It competes for the lowest available ask.
	Bid Direction = -1
	// Ask is a sell order. It competes for the highest available bid.
	Ask Direction = 1
)

// Directions lists both sides in display order.
var Directions = [...]Direction{Bid, Ask}

// Valid reports whether d is Bid or Ask.
func (d Direction) Valid() bool {
	return d == Bid || d == Ask
}

// Opposite returns the side an order of direction d matches against.
func (d Direction) Opposite() Direction {
	return -d
}

// Sign returns -1 for Bid and +1 for Ask.
func (d Direction) Sign() float64 {
	return float64(d)
}

func (d Direction) String() string {
	switch d {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
}

// MarshalText encodes the direction as "BID" or "ASK".
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes "BID" or "ASK".
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "BID":
		*d = Bid
	case "ASK":
		*d = Ask
	default:
		return fmt.Errorf("invalid direction %q", text)
	}
	return nil
}

// OrderKind tags an Order as a limit or market order.
type OrderKind uint8

const (
	// OrderKindLimit rests on the book at LimitPrice when not fully matched.
	OrderKindLimit OrderKind = iota + 1
	// OrderKindMarket matches at any price and never rests.
	OrderKindMarket
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindLimit:
		return "LIMIT"
	case OrderKindMarket:
		return "MARKET"
	default:
		return fmt.Sprintf("OrderKind(%d)", uint8(k))
	}
}

// MarshalText encodes the kind as "LIMIT" or "MARKET".
func (k OrderKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes "LIMIT" or "MARKET".
func (k *OrderKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LIMIT":
		*k = OrderKindLimit
	case "MARKET":
		*k = OrderKindMarket
	default:
		return fmt.Errorf("invalid order kind %q", text)
	}
	return nil
}
