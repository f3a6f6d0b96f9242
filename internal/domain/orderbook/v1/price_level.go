package orderbookv1

import (
	"fmt"
	"strings"
)

// PriceLevel is the FIFO queue of resting limit orders sharing one price.
// It is not safe for concurrent use; the owning order book serializes access.
type PriceLevel struct {
	price  float64
	orders []*Order
	byID   map[string]*Order
}

// NewPriceLevel creates an empty level at price.
func NewPriceLevel(price float64) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: make([]*Order, 0),
		byID:   make(map[string]*Order),
	}
}

// Price returns the price shared by every order at this level.
func (l *PriceLevel) Price() float64 {
	return l.price
}

// Insert appends order to the back of the queue.
func (l *PriceLevel) Insert(order *Order) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidOrder)
	}
	if !order.IsLimit() {
		return NewOrderError(ErrInvalidOrder, order, "only limit orders can rest on a price level")
	}
	if order.LimitPrice != l.price {
		return NewOrderError(ErrInvalidOrder, order,
			"limit price %v does not match level price %v", order.LimitPrice, l.price)
	}
	if order.IsTerminal() {
		return NewOrderError(ErrInvalidOrder, order, "terminal order %s cannot rest", order.ID)
	}
	if _, exists := l.byID[order.ID]; exists {
		return NewOrderError(ErrInvalidOrder, order, "order %s already rests at %v", order.ID, l.price)
	}

	l.orders = append(l.orders, order)
	l.byID[order.ID] = order

	return nil
}

// Remove deletes the order with the given id. It returns the removed order
// (nil if absent) and whether the level is now empty.
func (l *PriceLevel) Remove(orderID string) (*Order, bool) {
	order, ok := l.byID[orderID]
	if !ok {
		return nil, l.IsEmpty()
	}

	delete(l.byID, orderID)
	for i, o := range l.orders {
		if o == order {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			break
		}
	}

	return order, l.IsEmpty()
}

// RemoveAll deletes every listed id and reports whether the level is now empty.
func (l *PriceLevel) RemoveAll(orderIDs []string) bool {
	if len(orderIDs) == 0 {
		return l.IsEmpty()
	}

	drop := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if _, ok := l.byID[id]; ok {
			drop[id] = struct{}{}
			delete(l.byID, id)
		}
	}

	kept := l.orders[:0]
	for _, o := range l.orders {
		if _, ok := drop[o.ID]; !ok {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(l.orders); i++ {
		l.orders[i] = nil
	}
	l.orders = kept

	return l.IsEmpty()
}

// Get returns the resting order with the given id.
func (l *PriceLevel) Get(orderID string) (*Order, bool) {
	order, ok := l.byID[orderID]
	return order, ok
}

// Orders returns the resting orders in arrival order.
func (l *PriceLevel) Orders() []*Order {
	orders := make([]*Order, len(l.orders))
	copy(orders, l.orders)
	return orders
}

// Len returns the number of resting orders.
func (l *PriceLevel) Len() int {
	return len(l.orders)
}

// IsEmpty checks if the level has no orders.
func (l *PriceLevel) IsEmpty() bool {
	return len(l.orders) == 0
}

// TotalQuantity returns the live quantity resting at this level.
func (l *PriceLevel) TotalQuantity() int64 {
	var total int64
	for _, o := range l.orders {
		if !o.IsTerminal() {
			total += o.Quantity
		}
	}
	return total
}

func (l *PriceLevel) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PriceLevel(price=$%v, orders=[", l.price)
	for i, o := range l.orders {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(o.String())
	}
	b.WriteString("])")
	return b.String()
}
