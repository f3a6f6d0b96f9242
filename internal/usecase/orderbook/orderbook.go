package orderbook

import (
	"errors"
	"fmt"
	"time"

	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
)

// bookSide holds one direction of the book.
type bookSide struct {
	direction orderbookv1.Direction
	levels    map[float64]*orderbookv1.PriceLevel // price -> level, authoritative
	index     *priceIndex                         // best price first, possibly stale
	executed  []*orderbookv1.Order
	invalid   []*orderbookv1.Order
}

func newBookSide(direction orderbookv1.Direction) *bookSide {
	return &bookSide{
		direction: direction,
		levels:    make(map[float64]*orderbookv1.PriceLevel),
		index:     newPriceIndex(),
		executed:  make([]*orderbookv1.Order, 0),
		invalid:   make([]*orderbookv1.Order, 0),
	}
}

// isLive reports whether an index entry still points at the level stored for its price.
func (s *bookSide) isLive(level *orderbookv1.PriceLevel) bool {
	current, ok := s.levels[level.Price()]
	return ok && current == level && !level.IsEmpty()
}

// head drops stale entries from the top of the index and returns the best live one.
func (s *bookSide) head() (indexEntry, bool) {
	for {
		entry, ok := s.index.peek()
		if !ok {
			return indexEntry{}, false
		}
		if s.isLive(entry.level) {
			return entry, true
		}
		s.index.pop()
	}
}

// Orderbook is the matching engine of one instrument.
// It is not safe for concurrent use.
type Orderbook struct {
	ticker     string
	bids       *bookSide
	asks       *bookSide
	orders     map[string]*orderbookv1.Order // orderID -> order, including split children
	executions []*orderbookv1.Order          // executed orders of both sides in execution order
	now        func() time.Time
}

var _ orderbookv1.Orderbook = (*Orderbook)(nil)

// NewOrderbook creates an empty book for ticker.
func NewOrderbook(ticker string) (*Orderbook, error) {
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker must be non-empty", orderbookv1.ErrInvalidOrder)
	}

	return &Orderbook{
		ticker:     ticker,
		bids:       newBookSide(orderbookv1.Bid),
		asks:       newBookSide(orderbookv1.Ask),
		orders:     make(map[string]*orderbookv1.Order),
		executions: make([]*orderbookv1.Order, 0),
		now:        time.Now,
	}, nil
}

// Ticker returns the instrument this book matches.
func (ob *Orderbook) Ticker() string {
	return ob.ticker
}

func (ob *Orderbook) side(direction orderbookv1.Direction) *bookSide {
	if direction == orderbookv1.Bid {
		return ob.bids
	}
	return ob.asks
}

// SubmitLimitOrder matches order against the opposite side and rests whatever
// remains at its limit price.
func (ob *Orderbook) SubmitLimitOrder(order *orderbookv1.Order) (*orderbookv1.Order, error) {
	if err := ob.admit(order, orderbookv1.OrderKindLimit); err != nil {
		return nil, err
	}

	if err := ob.execute(order); err != nil {
		return order, err
	}

	if !order.IsFilled() {
		if err := ob.rest(order); err != nil {
			return order, err
		}
	}

	return order, nil
}

// SubmitMarketOrder matches order against the opposite side. A market order
// never rests: any unfilled remainder is logged as invalid and reported as
// ErrInsufficientLiquidity. Fills made before the shortfall are kept.
func (ob *Orderbook) SubmitMarketOrder(order *orderbookv1.Order) (*orderbookv1.Order, error) {
	if err := ob.admit(order, orderbookv1.OrderKindMarket); err != nil {
		return nil, err
	}

	if err := ob.execute(order); err != nil {
		return order, err
	}

	if !order.IsFilled() {
		side := ob.side(order.Direction)
		side.invalid = append(side.invalid, order)

		available := "bids"
		if order.Direction == orderbookv1.Bid {
			available = "asks"
		}
		return order, orderbookv1.NewOrderError(orderbookv1.ErrInsufficientLiquidity, order,
			"failed to fill market order: no %s available", available)
	}

	return order, nil
}

// admit validates an incoming order and registers it with the book.
func (ob *Orderbook) admit(order *orderbookv1.Order, kind orderbookv1.OrderKind) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", orderbookv1.ErrInvalidOrder)
	}
	if order.Kind != kind {
		return orderbookv1.NewOrderError(orderbookv1.ErrInvalidOrder, order,
			"expected a %s order, got %s", kind, order.Kind)
	}
	if err := order.Validate(); err != nil {
		return err
	}
	if order.Ticker != ob.ticker {
		return orderbookv1.NewOrderError(orderbookv1.ErrInvalidOrder, order,
			"tickers must match: order is for %s, book is %s", order.Ticker, ob.ticker)
	}
	if order.IsTerminal() {
		return orderbookv1.NewOrderError(orderbookv1.ErrInvalidOrder, order,
			"order %s is already terminal", order.ID)
	}
	if _, exists := ob.orders[order.ID]; exists {
		return orderbookv1.NewOrderError(orderbookv1.ErrInvalidOrder, order,
			"order with ID %s already exists", order.ID)
	}

	ob.orders[order.ID] = order
	return nil
}

// execute runs the matching loop for order against the opposite side.
func (ob *Orderbook) execute(order *orderbookv1.Order) error {
	opposite := ob.side(order.Direction.Opposite())

	// levels popped but still live, pushed back once the loop ends
	var setAside []indexEntry
	defer func() {
		for _, entry := range setAside {
			opposite.index.restore(entry)
		}
	}()

	for !order.IsFilled() {
		entry, ok := opposite.index.pop()
		if !ok {
			break
		}

		level := entry.level
		if !opposite.isLive(level) {
			// stale: emptied by cancel or replaced by a newer level at the same price
			continue
		}

		price := level.Price()
		if !order.Crosses(price) {
			// popped best first, so no worse level can cross either
			setAside = append(setAside, entry)
			break
		}

		var done []string
		var err error
		for _, resting := range level.Orders() {
			if order.IsFilled() {
				break
			}
			if resting.IsCanceled() {
				done = append(done, resting.ID)
				continue
			}

			for !resting.IsFilled() && !order.IsFilled() {
				if err = ob.fill(resting, order, price); err != nil {
					break
				}
			}

			if resting.IsFilled() {
				done = append(done, resting.ID)
			}
			if err != nil {
				break
			}
		}

		if level.RemoveAll(done) {
			delete(opposite.levels, price)
		} else {
			setAside = append(setAside, entry)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// fill trades resting order a against incoming order b at the resting price.
func (ob *Orderbook) fill(a, b *orderbookv1.Order, price float64) error {
	if a.Ticker != ob.ticker || b.Ticker != ob.ticker {
		return orderbookv1.NewOrderError(orderbookv1.ErrInvalidOrder, a, "tickers must match")
	}

	var (
		filledA, filledB *orderbookv1.Order
		errA, errB       error
	)

	switch {
	case a.Quantity == b.Quantity:
		filledA, errA = a.FillFully(price)
		filledB, errB = b.FillFully(price)
	case a.Quantity > b.Quantity:
		filledA, errA = a.FillPartially(b.Quantity, price)
		filledB, errB = b.FillFully(price)
	default:
		filledA, errA = a.FillFully(price)
		filledB, errB = b.FillPartially(a.Quantity, price)
	}

	if filledA == nil || filledB == nil {
		ob.side(a.Direction).invalid = append(ob.side(a.Direction).invalid, a)
		ob.side(b.Direction).invalid = append(ob.side(b.Direction).invalid, b)

		return orderbookv1.NewOrderError(orderbookv1.ErrFillFailure, a,
			"failed to fill orders %s and %s: %v", a.ID, b.ID, errors.Join(errA, errB))
	}

	ob.recordExecution(filledA)
	ob.recordExecution(filledB)

	return nil
}

func (ob *Orderbook) recordExecution(order *orderbookv1.Order) {
	side := ob.side(order.Direction)
	side.executed = append(side.executed, order)
	ob.executions = append(ob.executions, order)
	ob.orders[order.ID] = order
}

// rest inserts the unfilled remainder of a limit order on its own side.
func (ob *Orderbook) rest(order *orderbookv1.Order) error {
	side := ob.side(order.Direction)
	price := order.LimitPrice

	level, exists := side.levels[price]
	if !exists {
		level = orderbookv1.NewPriceLevel(price)
	}

	if err := level.Insert(order); err != nil {
		return err
	}

	if !exists {
		side.levels[price] = level
		side.index.push(priorityKey(order.Direction, price), level)
	}

	return nil
}

// CancelLimitOrder cancels the order resting at price on the given side.
// A level left empty is dropped from the level map; its index entry is
// discarded the next time it is popped.
func (ob *Orderbook) CancelLimitOrder(direction orderbookv1.Direction, price float64, orderID string) (*orderbookv1.Order, error) {
	level, order, err := ob.lookup(direction, price, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(ob.now()); err != nil {
		return nil, err
	}

	if _, empty := level.Remove(orderID); empty {
		delete(ob.side(direction).levels, price)
	}

	return order, nil
}

// UpdateLimitOrder cancels a resting order and submits its replacement, which
// gets a fresh ID and joins the back of its level's queue. The replacement
// values are validated before the original is canceled.
func (ob *Orderbook) UpdateLimitOrder(
	direction orderbookv1.Direction,
	price float64,
	orderID string,
	req orderbookv1.UpdateLimitOrderRequest,
) (*orderbookv1.Order, error) {
	_, order, err := ob.lookup(direction, price, orderID)
	if err != nil {
		return nil, err
	}

	replacement, err := order.Replace(req)
	if err != nil {
		return nil, err
	}

	if _, err := ob.CancelLimitOrder(direction, price, orderID); err != nil {
		return nil, err
	}

	return ob.SubmitLimitOrder(replacement)
}

func (ob *Orderbook) lookup(direction orderbookv1.Direction, price float64, orderID string) (*orderbookv1.PriceLevel, *orderbookv1.Order, error) {
	if !direction.Valid() {
		return nil, nil, fmt.Errorf("%w: invalid direction %d", orderbookv1.ErrInvalidOrder, int8(direction))
	}

	level, ok := ob.side(direction).levels[price]
	if !ok {
		return nil, nil, orderbookv1.NewOrderError(orderbookv1.ErrOrderNotFound, nil,
			"no %s price level at %v for %s", direction, price, ob.ticker)
	}

	order, ok := level.Get(orderID)
	if !ok {
		return nil, nil, orderbookv1.NewOrderError(orderbookv1.ErrOrderNotFound, nil,
			"order %s is not resting at %s %v for %s", orderID, direction, price, ob.ticker)
	}

	return level, order, nil
}

// ActiveOrders returns the resting orders of both sides, best price first.
func (ob *Orderbook) ActiveOrders() orderbookv1.BookSnapshot {
	return orderbookv1.BookSnapshot{
		Ticker: ob.ticker,
		Bids:   ob.bids.snapshot(),
		Asks:   ob.asks.snapshot(),
	}
}

func (s *bookSide) snapshot() []orderbookv1.LevelSnapshot {
	levels := make([]orderbookv1.LevelSnapshot, 0, len(s.levels))
	seen := make(map[*orderbookv1.PriceLevel]struct{}, len(s.levels))

	for _, entry := range s.index.sorted() {
		if !s.isLive(entry.level) {
			continue
		}
		if _, dup := seen[entry.level]; dup {
			continue
		}
		seen[entry.level] = struct{}{}

		snap := orderbookv1.LevelSnapshot{Price: entry.level.Price()}
		for _, o := range entry.level.Orders() {
			if o.IsCanceled() {
				continue
			}
			snap.Orders = append(snap.Orders, *o)
			snap.Quantity += o.Quantity
		}
		if len(snap.Orders) > 0 {
			levels = append(levels, snap)
		}
	}

	return levels
}

// BestPrice returns the best resting price on the given side.
func (ob *Orderbook) BestPrice(direction orderbookv1.Direction) (float64, bool) {
	entry, ok := ob.side(direction).head()
	if !ok {
		return 0, false
	}
	return entry.level.Price(), true
}

// Depth returns the number of resting price levels on the given side.
func (ob *Orderbook) Depth(direction orderbookv1.Direction) int {
	return len(ob.side(direction).levels)
}

// Order looks up any order the book has seen, including executed split children.
func (ob *Orderbook) Order(orderID string) (*orderbookv1.Order, bool) {
	order, ok := ob.orders[orderID]
	return order, ok
}

// ExecutedOrders returns the executed orders of one direction in execution order.
func (ob *Orderbook) ExecutedOrders(direction orderbookv1.Direction) []*orderbookv1.Order {
	return cloneOrders(ob.side(direction).executed)
}

// InvalidOrders returns the rejected orders of one direction.
func (ob *Orderbook) InvalidOrders(direction orderbookv1.Direction) []*orderbookv1.Order {
	return cloneOrders(ob.side(direction).invalid)
}

// ExecutionCount returns how many executed orders the book has logged.
func (ob *Orderbook) ExecutionCount() int {
	return len(ob.executions)
}

// ExecutionsSince returns the executed orders logged after the first n.
func (ob *Orderbook) ExecutionsSince(n int) []*orderbookv1.Order {
	if n < 0 {
		n = 0
	}
	if n >= len(ob.executions) {
		return nil
	}
	return cloneOrders(ob.executions[n:])
}

func cloneOrders(orders []*orderbookv1.Order) []*orderbookv1.Order {
	out := make([]*orderbookv1.Order, len(orders))
	copy(out, orders)
	return out
}
