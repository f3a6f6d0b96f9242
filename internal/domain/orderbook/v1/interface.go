package orderbookv1

// Orderbook is the matching engine of a single instrument.
// Implementations are not safe for concurrent use: every call on one book must
// be serialized by the caller. Books of different tickers share no state.
type Orderbook interface {
	Ticker() string

	SubmitLimitOrder(order *Order) (*Order, error)
	SubmitMarketOrder(order *Order) (*Order, error)
	CancelLimitOrder(direction Direction, price float64, orderID string) (*Order, error)
	UpdateLimitOrder(direction Direction, price float64, orderID string, req UpdateLimitOrderRequest) (*Order, error)

	ActiveOrders() BookSnapshot
	BestPrice(direction Direction) (float64, bool)
	Depth(direction Direction) int
	Order(orderID string) (*Order, bool)

	ExecutedOrders(direction Direction) []*Order
	InvalidOrders(direction Direction) []*Order
	ExecutionCount() int
	ExecutionsSince(n int) []*Order
}
