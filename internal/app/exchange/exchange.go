package exchange

import (
	"context"
	"sort"
	"sync"
	"time"

	executionpublisherv1 "github.com/BryanOwens012/order-book/internal/domain/execution-publisher/v1"
	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
	"github.com/BryanOwens012/order-book/internal/usecase/orderbook"
	"github.com/BryanOwens012/order-book/pkg/logger"
	"github.com/BryanOwens012/order-book/pkg/util"
)

const unknownTickerLabel = "unknown"

// book pairs an order book with the lock that serializes every call on it.
type book struct {
	mu        sync.Mutex
	orderbook orderbookv1.Orderbook
}

// Exchange routes orders to one order book per ticker. Books are created on
// the first submission for a ticker. Calls on one ticker are serialized while
// different tickers proceed in parallel.
//
// Orders returned by Exchange are copies taken while the book was locked.
type Exchange struct {
	mu    sync.RWMutex
	books map[string]*book

	publisher      executionpublisherv1.ExecutionPublisher
	logger         *logger.Logger
	metrics        *Metrics
	publishTimeout time.Duration
}

// NewExchange creates an Exchange. publisher may be nil, in which case
// executions are only kept in the books' logs.
func NewExchange(publisher executionpublisherv1.ExecutionPublisher, logger *logger.Logger) *Exchange {
	return NewExchangeWithOptions(publisher, logger, DefaultOptions())
}

// NewExchangeWithOptions creates an Exchange with custom options.
func NewExchangeWithOptions(
	publisher executionpublisherv1.ExecutionPublisher,
	logger *logger.Logger,
	options *Options,
) *Exchange {
	e := &Exchange{
		books:          make(map[string]*book),
		publisher:      publisher,
		logger:         logger,
		publishTimeout: options.PublishTimeout,
	}

	if options.Registerer != nil {
		e.metrics = NewMetrics(options.MetricsNamespace, options.Registerer)
	}

	return e
}

// SubmitLimitOrder creates a limit order and submits it to the book of ticker.
func (e *Exchange) SubmitLimitOrder(
	ctx context.Context,
	ticker string,
	direction orderbookv1.Direction,
	quantity int64,
	price float64,
) (*orderbookv1.Order, error) {
	ctx = requestContext(ctx, ticker)

	order, err := orderbookv1.NewLimitOrder(ticker, direction, quantity, price)
	if err != nil {
		return nil, e.fail(ctx, "submit_limit_order", ticker, err)
	}

	return e.submit(ctx, "submit_limit_order", order, func(ob orderbookv1.Orderbook) (*orderbookv1.Order, error) {
		return ob.SubmitLimitOrder(order)
	})
}

// SubmitMarketOrder creates a market order and submits it to the book of ticker.
// On ErrInsufficientLiquidity the returned order shows what was filled.
func (e *Exchange) SubmitMarketOrder(
	ctx context.Context,
	ticker string,
	direction orderbookv1.Direction,
	quantity int64,
) (*orderbookv1.Order, error) {
	ctx = requestContext(ctx, ticker)

	order, err := orderbookv1.NewMarketOrder(ticker, direction, quantity)
	if err != nil {
		return nil, e.fail(ctx, "submit_market_order", ticker, err)
	}

	return e.submit(ctx, "submit_market_order", order, func(ob orderbookv1.Orderbook) (*orderbookv1.Order, error) {
		return ob.SubmitMarketOrder(order)
	})
}

func (e *Exchange) submit(
	ctx context.Context,
	operation string,
	order *orderbookv1.Order,
	fn func(orderbookv1.Orderbook) (*orderbookv1.Order, error),
) (*orderbookv1.Order, error) {
	b, err := e.bookFor(order.Ticker)
	if err != nil {
		return nil, e.fail(ctx, operation, order.Ticker, err)
	}

	e.metrics.orderSubmitted(order.Ticker, order.Kind)
	return e.run(ctx, operation, b, fn)
}

// CancelLimitOrder cancels a resting limit order.
func (e *Exchange) CancelLimitOrder(
	ctx context.Context,
	ticker string,
	direction orderbookv1.Direction,
	price float64,
	orderID string,
) (*orderbookv1.Order, error) {
	ctx = requestContext(ctx, ticker)

	b, ok := e.lookup(ticker)
	if !ok {
		return nil, e.fail(ctx, "cancel_limit_order", ticker, orderbookv1.NewOrderError(
			orderbookv1.ErrOrderNotFound, nil, "no order book for ticker %s", ticker))
	}

	return e.run(ctx, "cancel_limit_order", b, func(ob orderbookv1.Orderbook) (*orderbookv1.Order, error) {
		return ob.CancelLimitOrder(direction, price, orderID)
	})
}

// UpdateLimitOrder replaces a resting limit order with a new one carrying the
// requested quantity and price. The replacement loses its time priority.
func (e *Exchange) UpdateLimitOrder(
	ctx context.Context,
	ticker string,
	direction orderbookv1.Direction,
	price float64,
	orderID string,
	req orderbookv1.UpdateLimitOrderRequest,
) (*orderbookv1.Order, error) {
	ctx = requestContext(ctx, ticker)

	b, ok := e.lookup(ticker)
	if !ok {
		return nil, e.fail(ctx, "update_limit_order", ticker, orderbookv1.NewOrderError(
			orderbookv1.ErrOrderNotFound, nil, "no order book for ticker %s", ticker))
	}

	return e.run(ctx, "update_limit_order", b, func(ob orderbookv1.Orderbook) (*orderbookv1.Order, error) {
		return ob.UpdateLimitOrder(direction, price, orderID, req)
	})
}

// run executes fn under the book lock, then records and publishes whatever
// fn executed. Executions are published before the lock is released so the
// events of one ticker leave in execution order.
func (e *Exchange) run(
	ctx context.Context,
	operation string,
	b *book,
	fn func(orderbookv1.Orderbook) (*orderbookv1.Order, error),
) (*orderbookv1.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ticker := b.orderbook.Ticker()
	start := time.Now()
	before := b.orderbook.ExecutionCount()

	order, err := fn(b.orderbook)

	e.metrics.observe(operation, time.Since(start).Seconds())
	executed := b.orderbook.ExecutionsSince(before)
	e.metrics.executed(ticker, executed)
	e.metrics.depth(b.orderbook)
	e.publish(ctx, ticker, executed)

	result := copyOrder(order)
	if err != nil {
		return result, e.fail(ctx, operation, ticker, err)
	}

	if e.logger.Enabled(logger.DebugLevel) {
		e.logger.DebugContext(ctx, "order book operation completed",
			logger.Field{Key: "operation", Value: operation},
			logger.Field{Key: "orderId", Value: result.ID},
			logger.Field{Key: "executions", Value: len(executed)},
		)
	}

	return result, nil
}

func (e *Exchange) publish(ctx context.Context, ticker string, executed []*orderbookv1.Order) {
	if e.publisher == nil || len(executed) == 0 {
		return
	}

	// the match already happened, so a canceled caller must not stop the events
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.publishTimeout)
	defer cancel()

	for _, order := range executed {
		event := executionpublisherv1.CreateFromOrder(order)
		if err := e.publisher.PublishExecution(ctx, event); err != nil {
			e.metrics.publishFailed(ticker)
			e.logger.ErrorContext(ctx, err,
				logger.Field{Key: "action", Value: "publish_execution"},
				logger.Field{Key: "orderId", Value: order.ID},
			)
		}
	}
}

func (e *Exchange) fail(ctx context.Context, operation, ticker string, err error) error {
	// label only tickers that own a book so callers cannot grow the series set
	label := unknownTickerLabel
	if _, ok := e.lookup(ticker); ok {
		label = ticker
	}
	e.metrics.operationFailed(label, err)
	e.logger.WarnContext(ctx, "order book operation rejected",
		logger.Field{Key: "operation", Value: operation},
		logger.Field{Key: "code", Value: orderbookv1.Code(err)},
		logger.Field{Key: "error", Value: err.Error()},
	)
	return err
}

// ActiveOrders returns the resting orders of ticker, best price first.
func (e *Exchange) ActiveOrders(ticker string) (orderbookv1.BookSnapshot, error) {
	b, ok := e.lookup(ticker)
	if !ok {
		return orderbookv1.BookSnapshot{}, orderbookv1.ErrUnknownTicker
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.orderbook.ActiveOrders(), nil
}

// ExecutedOrders returns the executed orders of one side of ticker.
func (e *Exchange) ExecutedOrders(ticker string, direction orderbookv1.Direction) ([]*orderbookv1.Order, error) {
	b, ok := e.lookup(ticker)
	if !ok {
		return nil, orderbookv1.ErrUnknownTicker
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return copyOrders(b.orderbook.ExecutedOrders(direction)), nil
}

// InvalidOrders returns the rejected orders of one side of ticker.
func (e *Exchange) InvalidOrders(ticker string, direction orderbookv1.Direction) ([]*orderbookv1.Order, error) {
	b, ok := e.lookup(ticker)
	if !ok {
		return nil, orderbookv1.ErrUnknownTicker
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return copyOrders(b.orderbook.InvalidOrders(direction)), nil
}

// BestPrice returns the best resting price of one side of ticker.
func (e *Exchange) BestPrice(ticker string, direction orderbookv1.Direction) (float64, bool) {
	b, ok := e.lookup(ticker)
	if !ok {
		return 0, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.orderbook.BestPrice(direction)
}

// Order looks up an order of ticker by id, including executed split children.
func (e *Exchange) Order(ticker, orderID string) (*orderbookv1.Order, bool) {
	b, ok := e.lookup(ticker)
	if !ok {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	order, ok := b.orderbook.Order(orderID)
	return copyOrder(order), ok
}

// Tickers returns the tickers that have an order book, sorted.
func (e *Exchange) Tickers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tickers := make([]string, 0, len(e.books))
	for ticker := range e.books {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

func (e *Exchange) lookup(ticker string) (*book, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	b, ok := e.books[ticker]
	return b, ok
}

func (e *Exchange) bookFor(ticker string) (*book, error) {
	if b, ok := e.lookup(ticker); ok {
		return b, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.books[ticker]; ok {
		return b, nil
	}

	ob, err := orderbook.NewOrderbook(ticker)
	if err != nil {
		return nil, err
	}

	b := &book{orderbook: ob}
	e.books[ticker] = b

	e.logger.Info("order book created", logger.Field{Key: "ticker", Value: ticker})

	return b, nil
}

func requestContext(ctx context.Context, ticker string) context.Context {
	if util.GetRequestID(ctx) == "" {
		ctx = util.WithRequestID(ctx, "")
	}
	return util.WithTicker(ctx, ticker)
}

func copyOrder(order *orderbookv1.Order) *orderbookv1.Order {
	if order == nil {
		return nil
	}
	cp := *order
	return &cp
}

func copyOrders(orders []*orderbookv1.Order) []*orderbookv1.Order {
	out := make([]*orderbookv1.Order, len(orders))
	for i, o := range orders {
		out[i] = copyOrder(o)
	}
	return out
}
