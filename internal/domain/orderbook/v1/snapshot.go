package orderbookv1

import (
	"fmt"
	"strings"
)

// BookSnapshot is a point-in-time copy of the resting orders of one book,
// best price first on each side. Canceled orders never appear in it.
type BookSnapshot struct {
	Ticker string          `json:"ticker"`
	Bids   []LevelSnapshot `json:"bids"`
	Asks   []LevelSnapshot `json:"asks"`
}

// LevelSnapshot is one price level of a BookSnapshot, orders in FIFO order.
type LevelSnapshot struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Orders   []Order `json:"orders"`
}

// Side returns the levels of the given direction.
func (s BookSnapshot) Side(direction Direction) []LevelSnapshot {
	if direction == Bid {
		return s.Bids
	}
	return s.Asks
}

// IsEmpty reports whether the book had no resting orders.
func (s BookSnapshot) IsEmpty() bool {
	return len(s.Bids) == 0 && len(s.Asks) == 0
}

// OrderCount returns the number of resting orders on the given side.
func (s BookSnapshot) OrderCount(direction Direction) int {
	count := 0
	for _, level := range s.Side(direction) {
		count += len(level.Orders)
	}
	return count
}

// String renders the snapshot one order per line, the way operators read a book.
func (s BookSnapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active orders for %s: ===========\n\n", s.Ticker)

	for _, direction := range Directions {
		fmt.Fprintf(&b, "%s:\n", direction)
		for _, level := range s.Side(direction) {
			for i := range level.Orders {
				fmt.Fprintf(&b, "Price: %v, Order: %s\n", level.Price, level.Orders[i].String())
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
