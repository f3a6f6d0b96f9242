package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"

	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
)

// GeneratedOrder is one order of a load session.
type GeneratedOrder struct {
	Ticker    string                `json:"ticker"`
	Kind      orderbookv1.OrderKind `json:"kind"`
	Direction orderbookv1.Direction `json:"direction"`
	Quantity  int64                 `json:"quantity"`
	Price     float64               `json:"price,omitempty"`
}

// generateOrders creates count realistic orders spread over tickers.
func generateOrders(rng *rand.Rand, tickers []string, count int, basePrice, priceSpread float64) []GeneratedOrder {
	orders := make([]GeneratedOrder, count)

	for i := 0; i < count; i++ {
		// Order types: 80% limit, 20% market
		kind := orderbookv1.OrderKindLimit
		if rng.Float64() < 0.2 {
			kind = orderbookv1.OrderKindMarket
		}

		// Order side: 50/50 buy/sell
		direction := orderbookv1.Ask
		if rng.Float64() < 0.5 {
			direction = orderbookv1.Bid
		}

		order := GeneratedOrder{
			Ticker:    tickers[rng.Intn(len(tickers))],
			Kind:      kind,
			Direction: direction,
			Quantity:  int64(rng.Intn(100) + 1),
		}

		if kind == orderbookv1.OrderKindLimit {
			// bids mostly below the base price and asks mostly above, with some overlap so orders cross
			offset := (rng.Float64() - 0.3) * priceSpread
			price := basePrice + offset
			if direction == orderbookv1.Bid {
				price = basePrice - offset
			}
			price = math.Round(price*10) / 10 // Round to 1 decimal place

			// Ensure price is positive
			if price <= 0 {
				price = basePrice
			}
			order.Price = price
		}

		orders[i] = order
	}

	return orders
}

// loadOrders reads a JSON array of orders from path.
func loadOrders(path string) ([]GeneratedOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var orders []GeneratedOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
