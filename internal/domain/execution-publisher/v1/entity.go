package executionpublisherv1

import (
	"encoding/json"
	"time"

	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// ExecutionEvent describes one executed order: a fully filled order or the
// filled slice split off a partially filled one.
type ExecutionEvent struct {
	OrderID   string                `json:"orderId"`
	Ticker    string                `json:"ticker"`
	Direction orderbookv1.Direction `json:"direction"`
	Kind      orderbookv1.OrderKind `json:"kind"`
	Quantity  int64                 `json:"quantity"`
	Price     decimal.Decimal       `json:"price"`
	Notional  decimal.Decimal       `json:"notional"`
	FilledAt  time.Time             `json:"filledAt"`
}

// CreateFromOrder creates an execution event from an executed order.
// It returns nil if the order has not been filled.
func CreateFromOrder(order *orderbookv1.Order) *ExecutionEvent {
	if order == nil || !order.IsFilled() {
		return nil
	}

	price := decimal.NewFromFloat(*order.FilledPrice)

	return &ExecutionEvent{
		OrderID:   order.ID,
		Ticker:    order.Ticker,
		Direction: order.Direction,
		Kind:      order.Kind,
		Quantity:  order.Quantity,
		Price:     price,
		Notional:  price.Mul(decimal.NewFromInt(order.Quantity)),
		FilledAt:  *order.FilledAt,
	}
}

// Key returns the partition key of the event. Events of one ticker share a
// partition so consumers see them in execution order.
func (e *ExecutionEvent) Key() []byte {
	return []byte(e.Ticker)
}

// ToBytes converts the execution event to a byte array.
func ToBytes(event *ExecutionEvent) []byte {
	json, err := json.Marshal(event)
	if err != nil {
		return nil
	}

	return json
}

// FromBytes converts a byte array to an execution event.
func FromBytes(data []byte) *ExecutionEvent {
	var event ExecutionEvent
	err := json.Unmarshal(data, &event)
	if err != nil {
		return nil
	}
	return &event
}
