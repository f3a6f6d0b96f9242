package main

import (
	"context"

	app "github.com/BryanOwens012/order-book/internal/app/exchange"
	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
	"github.com/BryanOwens012/order-book/pkg/logger"
)

// step is one order of the reference session.
type step struct {
	ticker    string
	direction orderbookv1.Direction
	quantity  int64
	price     float64 // zero for market orders
}

var session = []step{
	{ticker: "AAPL", direction: orderbookv1.Bid, quantity: 100, price: 100},
	{ticker: "AAPL", direction: orderbookv1.Bid, quantity: 200, price: 110},
	{ticker: "AAPL", direction: orderbookv1.Ask, quantity: 50},
	{ticker: "AAPL", direction: orderbookv1.Ask, quantity: 100, price: 140},
	{ticker: "AAPL", direction: orderbookv1.Bid, quantity: 40, price: 160},
	{ticker: "GOOG", direction: orderbookv1.Bid, quantity: 30, price: 150},
}

// replay submits the reference session and logs every resulting order.
func replay(ctx context.Context, exchange *app.Exchange) error {
	for _, s := range session {
		var (
			order *orderbookv1.Order
			err   error
		)

		if s.price == 0 {
			order, err = exchange.SubmitMarketOrder(ctx, s.ticker, s.direction, s.quantity)
		} else {
			order, err = exchange.SubmitLimitOrder(ctx, s.ticker, s.direction, s.quantity, s.price)
		}
		if err != nil {
			return err
		}

		log.Info("Submitted order", logger.Field{Key: "order", Value: order.String()})
	}

	return nil
}
