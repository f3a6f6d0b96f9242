package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"strings"
	"sync"
	"time"

	app "github.com/BryanOwens012/order-book/internal/app/exchange"
	executionpublisherv1 "github.com/BryanOwens012/order-book/internal/domain/execution-publisher/v1"
	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
	executionpublisher "github.com/BryanOwens012/order-book/internal/usecase/execution-publisher"
	"github.com/BryanOwens012/order-book/pkg/config"
	"github.com/BryanOwens012/order-book/pkg/logger"
)

// summary counts the outcomes of a load session.
type summary struct {
	mu       sync.Mutex
	filled   int
	resting  int
	partial  int
	rejected int
}

func (s *summary) record(order *orderbookv1.Order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err != nil:
		s.rejected++
	case order.IsFilled():
		s.filled++
	case order.IsMarket():
		s.partial++
	default:
		s.resting++
	}
}

func main() {
	var (
		tickers     = flag.String("tickers", "AAPL,GOOG,MSFT", "Tickers to trade (comma-separated)")
		brokers     = flag.String("brokers", "", "Kafka broker addresses for execution events (comma-separated, empty disables)")
		topic       = flag.String("topic", "executions", "Kafka topic name")
		file        = flag.String("file", "", "JSON file with orders (optional, generates orders if not provided)")
		delay       = flag.Duration("delay", 0, "Delay between orders of one ticker")
		count       = flag.Int("count", 10000, "Number of orders to generate")
		basePrice   = flag.Float64("base-price", 100, "Base price for orders")
		priceSpread = flag.Float64("price-spread", 10, "Price spread range")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		level       = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(*level)))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// Load orders
	var orders []GeneratedOrder
	if *file != "" {
		orders, err = loadOrders(*file)
		if err != nil {
			log.Error(err, logger.Field{Key: "file", Value: *file})
			return
		}
		log.Info("Loaded orders from file", logger.Field{Key: "count", Value: len(orders)})
	} else {
		rng := rand.New(rand.NewSource(*seed))
		orders = generateOrders(rng, strings.Split(*tickers, ","), *count, *basePrice, *priceSpread)
		log.Info("Generated orders", logger.Field{Key: "count", Value: len(orders)}, logger.Field{Key: "seed", Value: *seed})
	}

	var publisher executionpublisherv1.ExecutionPublisher
	if *brokers != "" {
		p := executionpublisher.NewPublisher(config.KafkaConfig{
			Brokers: strings.Split(*brokers, ","),
			Topic:   *topic,
		}, log)
		defer p.Close()
		publisher = p
	}

	exchange := app.NewExchange(publisher, log)

	// one worker per ticker keeps each ticker's orders in file order
	queues := make(map[string]chan GeneratedOrder)
	for _, order := range orders {
		if _, ok := queues[order.Ticker]; !ok {
			queues[order.Ticker] = make(chan GeneratedOrder, 128)
		}
	}

	stats := &summary{}
	var wg sync.WaitGroup
	start := time.Now()

	for ticker, queue := range queues {
		wg.Add(1)
		go func(ticker string, queue <-chan GeneratedOrder) {
			defer wg.Done()
			for order := range queue {
				stats.record(submit(ctx, exchange, order))
				if *delay > 0 {
					time.Sleep(*delay)
				}
			}
		}(ticker, queue)
	}

	for _, order := range orders {
		queues[order.Ticker] <- order
	}
	for _, queue := range queues {
		close(queue)
	}
	wg.Wait()

	elapsed := time.Since(start)

	log.Info("--- Summary ---",
		logger.Field{Key: "orders", Value: len(orders)},
		logger.Field{Key: "filled", Value: stats.filled},
		logger.Field{Key: "resting", Value: stats.resting},
		logger.Field{Key: "partialMarket", Value: stats.partial},
		logger.Field{Key: "rejected", Value: stats.rejected},
		logger.Field{Key: "elapsed", Value: elapsed.String()},
	)

	for _, ticker := range exchange.Tickers() {
		snapshot, err := exchange.ActiveOrders(ticker)
		if err != nil {
			continue
		}
		bid, _ := exchange.BestPrice(ticker, orderbookv1.Bid)
		ask, _ := exchange.BestPrice(ticker, orderbookv1.Ask)
		log.Info("Book",
			logger.Field{Key: "ticker", Value: ticker},
			logger.Field{Key: "bidLevels", Value: len(snapshot.Bids)},
			logger.Field{Key: "askLevels", Value: len(snapshot.Asks)},
			logger.Field{Key: "bestBid", Value: bid},
			logger.Field{Key: "bestAsk", Value: ask},
		)
	}
}

func submit(ctx context.Context, exchange *app.Exchange, order GeneratedOrder) (*orderbookv1.Order, error) {
	switch order.Kind {
	case orderbookv1.OrderKindMarket:
		result, err := exchange.SubmitMarketOrder(ctx, order.Ticker, order.Direction, order.Quantity)
		if errors.Is(err, orderbookv1.ErrInsufficientLiquidity) {
			// the partial fill stands, count it as such
			return result, nil
		}
		return result, err
	default:
		return exchange.SubmitLimitOrder(ctx, order.Ticker, order.Direction, order.Quantity, order.Price)
	}
}
