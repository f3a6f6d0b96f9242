package orderbookv1

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Order represents a single order and its fill/cancel lifecycle.
//
// A partially filled order keeps its ID and a reduced Quantity while the
// executed slice is split off into a new, already filled Order. Once FilledAt
// or CanceledAt is set the order is terminal and can no longer be mutated.
type Order struct {
	ID          string     `json:"id"`
	Ticker      string     `json:"ticker"`
	Direction   Direction  `json:"direction"`
	Kind        OrderKind  `json:"kind"`
	Quantity    int64      `json:"quantity"`
	LimitPrice  float64    `json:"limitPrice,omitempty"` // only meaningful for OrderKindLimit
	SubmittedAt time.Time  `json:"submittedAt"`
	FilledAt    *time.Time `json:"filledAt,omitempty"`
	FilledPrice *float64   `json:"filledPrice,omitempty"`
	CanceledAt  *time.Time `json:"canceledAt,omitempty"`
}

// UpdateLimitOrderRequest carries the optional replacement values for an update.
// A nil field keeps the current value.
type UpdateLimitOrderRequest struct {
	Quantity *int64
	Price    *float64
}

// NewLimitOrder creates a limit order with a fresh ID.
func NewLimitOrder(ticker string, direction Direction, quantity int64, limitPrice float64) (*Order, error) {
	order := newOrder(ticker, direction, quantity, OrderKindLimit)
	order.LimitPrice = limitPrice

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

// NewMarketOrder creates a market order with a fresh ID.
func NewMarketOrder(ticker string, direction Direction, quantity int64) (*Order, error) {
	order := newOrder(ticker, direction, quantity, OrderKindMarket)
	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

func newOrder(ticker string, direction Direction, quantity int64, kind OrderKind) *Order {
	return &Order{
		ID:          newOrderID(),
		Ticker:      ticker,
		Direction:   direction,
		Kind:        kind,
		Quantity:    quantity,
		SubmittedAt: time.Now(),
	}
}

func newOrderID() string {
	return ulid.Make().String()
}

// Validate checks the fields every submitted order must carry.
func (o *Order) Validate() error {
	if o.ID == "" {
		return NewOrderError(ErrInvalidOrder, o, "order id must be non-empty")
	}
	if o.Quantity <= 0 {
		return NewOrderError(ErrInvalidOrder, o, "quantity must be positive, got %d", o.Quantity)
	}
	if o.Ticker == "" {
		return NewOrderError(ErrInvalidOrder, o, "ticker must be non-empty")
	}
	if !o.Direction.Valid() {
		return NewOrderError(ErrInvalidOrder, o, "invalid direction %d", int8(o.Direction))
	}

	switch o.Kind {
	case OrderKindLimit:
		if !(o.LimitPrice > 0) || math.IsInf(o.LimitPrice, 1) {
			return NewOrderError(ErrInvalidOrder, o, "limit price must be positive and finite, got %v", o.LimitPrice)
		}
	case OrderKindMarket:
	default:
		return NewOrderError(ErrInvalidOrder, o, "unknown order kind %d", uint8(o.Kind))
	}
	return nil
}

// IsLimit reports whether o is a limit order.
func (o *Order) IsLimit() bool {
	return o.Kind == OrderKindLimit
}

// IsMarket reports whether o is a market order.
func (o *Order) IsMarket() bool {
	return o.Kind == OrderKindMarket
}

// IsFilled reports whether o has been fully filled.
func (o *Order) IsFilled() bool {
	return o.FilledAt != nil
}

// IsCanceled reports whether o has been canceled.
func (o *Order) IsCanceled() bool {
	return o.CanceledAt != nil
}

// IsTerminal reports whether o is filled or canceled.
func (o *Order) IsTerminal() bool {
	return o.IsFilled() || o.IsCanceled()
}

// Crosses reports whether o may trade against a resting level at price.
// A bid never pays more than its limit and an ask never receives less.
// Market orders cross every level.
func (o *Order) Crosses(price float64) bool {
	if o.IsMarket() {
		return true
	}
	if o.Direction == Bid {
		return price <= o.LimitPrice
	}
	return price >= o.LimitPrice
}

func (o *Order) ensureLive(action string) error {
	if o.IsFilled() {
		return NewOrderError(ErrInvalidOrder, o, "cannot %s: order %s is already filled", action, o.ID)
	}
	if o.IsCanceled() {
		return NewOrderError(ErrInvalidOrder, o, "cannot %s: order %s is canceled", action, o.ID)
	}
	return nil
}

// FillFully marks the whole remaining quantity of o as executed at price and returns o.
func (o *Order) FillFully(price float64) (*Order, error) {
	if err := o.ensureLive("fill"); err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, NewOrderError(ErrInvalidOrder, o, "fill price must be positive, got %v", price)
	}

	filledAt := time.Now()
	o.FilledAt = &filledAt
	o.FilledPrice = &price

	return o, nil
}

// FillPartially splits quantity off o as a new, filled order and returns it.
// quantity must be strictly between zero and o.Quantity; an exact fill goes
// through FillFully. o keeps its ID and stays live with the remainder.
func (o *Order) FillPartially(quantity int64, price float64) (*Order, error) {
	if err := o.ensureLive("split"); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, NewOrderError(ErrInvalidOrder, o, "fill quantity must be positive, got %d", quantity)
	}
	if quantity >= o.Quantity {
		return nil, NewOrderError(ErrInvalidOrder, o,
			"fill quantity %d must be less than remaining quantity %d", quantity, o.Quantity)
	}
	if price <= 0 {
		return nil, NewOrderError(ErrInvalidOrder, o, "fill price must be positive, got %v", price)
	}

	filledAt := time.Now()
	child := *o
	child.ID = newOrderID()
	child.Quantity = quantity
	child.FilledAt = &filledAt
	child.FilledPrice = &price

	o.Quantity -= quantity

	return &child, nil
}

// Cancel marks o as canceled at the given time.
func (o *Order) Cancel(at time.Time) error {
	if err := o.ensureLive("cancel"); err != nil {
		return err
	}

	o.CanceledAt = &at
	return nil
}

// Replace builds the successor of a limit order for an update: same ticker and
// direction, a fresh ID and submission time, and quantity/price taken from the
// request when given. The successor is never canceled or filled.
func (o *Order) Replace(req UpdateLimitOrderRequest) (*Order, error) {
	if !o.IsLimit() {
		return nil, NewOrderError(ErrInvalidOrder, o, "only limit orders can be updated")
	}

	quantity, price := o.Quantity, o.LimitPrice
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if req.Price != nil {
		price = *req.Price
	}

	return NewLimitOrder(o.Ticker, o.Direction, quantity, price)
}

func (o *Order) String() string {
	var b strings.Builder

	if o.IsLimit() {
		fmt.Fprintf(&b, "LimitOrder(id=%s, ticker=%s, direction=%s, quantity=%d, limit_price=$%v",
			o.ID, o.Ticker, o.Direction, o.Quantity, o.LimitPrice)
	} else {
		fmt.Fprintf(&b, "MarketOrder(id=%s, ticker=%s, direction=%s, quantity=%d",
			o.ID, o.Ticker, o.Direction, o.Quantity)
	}
	fmt.Fprintf(&b, ", submitted_at=%s", o.SubmittedAt.Format(time.RFC3339Nano))

	if o.FilledAt != nil {
		fmt.Fprintf(&b, ", filled_at=%s, filled_price=$%v", o.FilledAt.Format(time.RFC3339Nano), *o.FilledPrice)
	}
	if o.CanceledAt != nil {
		fmt.Fprintf(&b, ", canceled_at=%s", o.CanceledAt.Format(time.RFC3339Nano))
	}
	b.WriteString(")")

	return b.String()
}
