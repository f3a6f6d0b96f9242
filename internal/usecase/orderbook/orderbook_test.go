package orderbook

import (
	"math"
	"testing"
	"time"

	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTicker = "AAPL"

func newTestOrderbook(t *testing.T) *Orderbook {
	t.Helper()
	ob, err := NewOrderbook(testTicker)
	require.NoError(t, err)
	return ob
}

// Helper function to submit a limit order that must be accepted
func submitLimit(t *testing.T, ob *Orderbook, direction orderbookv1.Direction, quantity int64, price float64) *orderbookv1.Order {
	t.Helper()
	order, err := orderbookv1.NewLimitOrder(ob.Ticker(), direction, quantity, price)
	require.NoError(t, err)
	result, err := ob.SubmitLimitOrder(order)
	require.NoError(t, err)
	return result
}

func submitMarket(t *testing.T, ob *Orderbook, direction orderbookv1.Direction, quantity int64) (*orderbookv1.Order, error) {
	t.Helper()
	order, err := orderbookv1.NewMarketOrder(ob.Ticker(), direction, quantity)
	require.NoError(t, err)
	return ob.SubmitMarketOrder(order)
}

func assertNoEmptyLevels(t *testing.T, ob *Orderbook) {
	t.Helper()
	for _, side := range []*bookSide{ob.bids, ob.asks} {
		for price, level := range side.levels {
			assert.False(t, level.IsEmpty(), "%s level at %v is empty", side.direction, price)
		}
	}
}

func sumQuantity(orders []*orderbookv1.Order) int64 {
	var total int64
	for _, o := range orders {
		total += o.Quantity
	}
	return total
}

func TestNewOrderbook(t *testing.T) {
	ob := newTestOrderbook(t)

	assert.Equal(t, testTicker, ob.Ticker())
	assert.True(t, ob.ActiveOrders().IsEmpty())
	assert.Empty(t, ob.ExecutedOrders(orderbookv1.Bid))
	assert.Empty(t, ob.InvalidOrders(orderbookv1.Ask))
	assert.Zero(t, ob.ExecutionCount())

	_, err := NewOrderbook("")
	assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
}

func TestOrderbook_SubmitLimitOrder_Rests(t *testing.T) {
	ob := newTestOrderbook(t)

	bid := submitLimit(t, ob, orderbookv1.Bid, 10, 99)
	ask := submitLimit(t, ob, orderbookv1.Ask, 5, 101)

	assert.False(t, bid.IsTerminal())
	assert.False(t, ask.IsTerminal())

	snapshot := ob.ActiveOrders()
	require.Len(t, snapshot.Bids, 1)
	require.Len(t, snapshot.Asks, 1)
	assert.Equal(t, 99.0, snapshot.Bids[0].Price)
	assert.Equal(t, int64(10), snapshot.Bids[0].Quantity)
	assert.Equal(t, bid.ID, snapshot.Bids[0].Orders[0].ID)
	assert.Equal(t, 101.0, snapshot.Asks[0].Price)

	price, ok := ob.BestPrice(orderbookv1.Bid)
	assert.True(t, ok)
	assert.Equal(t, 99.0, price)
	price, ok = ob.BestPrice(orderbookv1.Ask)
	assert.True(t, ok)
	assert.Equal(t, 101.0, price)

	got, ok := ob.Order(bid.ID)
	assert.True(t, ok)
	assert.Same(t, bid, got)
}

func TestOrderbook_SubmitLimitOrder_Rejects(t *testing.T) {
	ob := newTestOrderbook(t)

	t.Run("nil order", func(t *testing.T) {
		_, err := ob.SubmitLimitOrder(nil)
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
	})

	t.Run("market order", func(t *testing.T) {
		order, err := orderbookv1.NewMarketOrder(testTicker, orderbookv1.Bid, 10)
		require.NoError(t, err)
		_, err = ob.SubmitLimitOrder(order)
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
	})

	t.Run("ticker mismatch", func(t *testing.T) {
		order, err := orderbookv1.NewLimitOrder("GOOG", orderbookv1.Bid, 10, 100)
		require.NoError(t, err)
		_, err = ob.SubmitLimitOrder(order)
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
	})

	t.Run("hand built order with bad quantity", func(t *testing.T) {
		order := &orderbookv1.Order{
			ID:         "manual",
			Ticker:     testTicker,
			Direction:  orderbookv1.Bid,
			Kind:       orderbookv1.OrderKindLimit,
			Quantity:   0,
			LimitPrice: 100,
		}
		_, err := ob.SubmitLimitOrder(order)
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
	})

	t.Run("canceled order", func(t *testing.T) {
		order, err := orderbookv1.NewLimitOrder(testTicker, orderbookv1.Bid, 10, 100)
		require.NoError(t, err)
		require.NoError(t, order.Cancel(time.Now()))
		_, err = ob.SubmitLimitOrder(order)
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
	})

	t.Run("duplicate submission", func(t *testing.T) {
		order := submitLimit(t, ob, orderbookv1.Bid, 10, 50)
		_, err := ob.SubmitLimitOrder(order)
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
		assert.Equal(t, 1, ob.ActiveOrders().OrderCount(orderbookv1.Bid))
	})

	assert.Empty(t, ob.InvalidOrders(orderbookv1.Bid))
}

// Scenario A: a market ask partially consumes a resting bid.
func TestOrderbook_MarketAskAgainstRestingBid(t *testing.T) {
	ob := newTestOrderbook(t)
	bid := submitLimit(t, ob, orderbookv1.Bid, 100, 100)

	market, err := submitMarket(t, ob, orderbookv1.Ask, 50)

	require.NoError(t, err)
	assert.True(t, market.IsFilled())
	assert.Equal(t, 100.0, *market.FilledPrice)

	assert.False(t, bid.IsTerminal())
	assert.Equal(t, int64(50), bid.Quantity)

	snapshot := ob.ActiveOrders()
	require.Len(t, snapshot.Bids, 1)
	assert.Equal(t, 100.0, snapshot.Bids[0].Price)
	assert.Equal(t, int64(50), snapshot.Bids[0].Quantity)
	assert.Equal(t, bid.ID, snapshot.Bids[0].Orders[0].ID)

	executedBids := ob.ExecutedOrders(orderbookv1.Bid)
	require.Len(t, executedBids, 1)
	assert.NotEqual(t, bid.ID, executedBids[0].ID)
	assert.Equal(t, int64(50), executedBids[0].Quantity)
	assert.Equal(t, 100.0, *executedBids[0].FilledPrice)

	executedAsks := ob.ExecutedOrders(orderbookv1.Ask)
	require.Len(t, executedAsks, 1)
	assert.Same(t, market, executedAsks[0])

	// the split child is reachable through the arena
	child, ok := ob.Order(executedBids[0].ID)
	assert.True(t, ok)
	assert.True(t, child.IsFilled())
}

// Scenario B: better price first, then the next level.
func TestOrderbook_MarketAskWalksBidLevels(t *testing.T) {
	ob := newTestOrderbook(t)
	low := submitLimit(t, ob, orderbookv1.Bid, 100, 100)
	high := submitLimit(t, ob, orderbookv1.Bid, 200, 110)

	market, err := submitMarket(t, ob, orderbookv1.Ask, 250)

	require.NoError(t, err)
	assert.True(t, market.IsFilled())

	assert.True(t, high.IsFilled())
	assert.Equal(t, 110.0, *high.FilledPrice)
	assert.Equal(t, int64(50), low.Quantity)
	assert.False(t, low.IsTerminal())

	executedBids := ob.ExecutedOrders(orderbookv1.Bid)
	require.Len(t, executedBids, 2)
	assert.Same(t, high, executedBids[0])
	assert.Equal(t, int64(50), executedBids[1].Quantity)
	assert.Equal(t, 100.0, *executedBids[1].FilledPrice)

	executedAsks := ob.ExecutedOrders(orderbookv1.Ask)
	require.Len(t, executedAsks, 2)
	assert.Equal(t, int64(200), executedAsks[0].Quantity)
	assert.Equal(t, 110.0, *executedAsks[0].FilledPrice)
	assert.Same(t, market, executedAsks[1])
	assert.Equal(t, 100.0, *executedAsks[1].FilledPrice)

	snapshot := ob.ActiveOrders()
	require.Len(t, snapshot.Bids, 1)
	assert.Equal(t, 100.0, snapshot.Bids[0].Price)
	assert.Equal(t, int64(50), snapshot.Bids[0].Quantity)
	assert.NotContains(t, ob.bids.levels, 110.0)
	assertNoEmptyLevels(t, ob)
}

// Scenario C: a crossing bid trades at the resting ask price.
func TestOrderbook_CrossingLimitBid(t *testing.T) {
	ob := newTestOrderbook(t)
	ask := submitLimit(t, ob, orderbookv1.Ask, 100, 140)

	bid := submitLimit(t, ob, orderbookv1.Bid, 40, 160)

	assert.True(t, bid.IsFilled())
	assert.Equal(t, 140.0, *bid.FilledPrice)
	assert.Equal(t, int64(60), ask.Quantity)

	snapshot := ob.ActiveOrders()
	assert.Empty(t, snapshot.Bids)
	require.Len(t, snapshot.Asks, 1)
	assert.Equal(t, 140.0, snapshot.Asks[0].Price)
	assert.Equal(t, int64(60), snapshot.Asks[0].Quantity)
}

// Scenario D: cancel removes the order and a second cancel fails.
func TestOrderbook_CancelLimitOrder(t *testing.T) {
	ob, err := NewOrderbook("GOOG")
	require.NoError(t, err)
	bid := submitLimit(t, ob, orderbookv1.Bid, 30, 150)

	canceled, err := ob.CancelLimitOrder(orderbookv1.Bid, 150, bid.ID)

	require.NoError(t, err)
	assert.Same(t, bid, canceled)
	assert.True(t, canceled.IsCanceled())
	assert.True(t, ob.ActiveOrders().IsEmpty())
	assert.Empty(t, ob.bids.levels)

	_, err = ob.CancelLimitOrder(orderbookv1.Bid, 150, bid.ID)
	assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)

	_, ok := ob.BestPrice(orderbookv1.Bid)
	assert.False(t, ok)
}

func TestOrderbook_CancelLimitOrder_NotFound(t *testing.T) {
	ob := newTestOrderbook(t)
	bid := submitLimit(t, ob, orderbookv1.Bid, 30, 150)

	testCases := []struct {
		name      string
		direction orderbookv1.Direction
		price     float64
		orderID   string
	}{
		{"wrong direction", orderbookv1.Ask, 150, bid.ID},
		{"wrong price", orderbookv1.Bid, 151, bid.ID},
		{"wrong id", orderbookv1.Bid, 150, "missing"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ob.CancelLimitOrder(tc.direction, tc.price, tc.orderID)
			assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
			assert.False(t, bid.IsCanceled())
		})
	}
}

func TestOrderbook_CancelKeepsOtherOrdersAtLevel(t *testing.T) {
	ob := newTestOrderbook(t)
	first := submitLimit(t, ob, orderbookv1.Ask, 10, 100)
	second := submitLimit(t, ob, orderbookv1.Ask, 20, 100)

	_, err := ob.CancelLimitOrder(orderbookv1.Ask, 100, first.ID)
	require.NoError(t, err)

	snapshot := ob.ActiveOrders()
	require.Len(t, snapshot.Asks, 1)
	require.Len(t, snapshot.Asks[0].Orders, 1)
	assert.Equal(t, second.ID, snapshot.Asks[0].Orders[0].ID)
	assert.Equal(t, int64(20), snapshot.Asks[0].Quantity)
}

// Scenario E: a market order into an empty book is rejected and logged.
func TestOrderbook_MarketOrderEmptyBook(t *testing.T) {
	ob := newTestOrderbook(t)

	market, err := submitMarket(t, ob, orderbookv1.Ask, 50)

	assert.ErrorIs(t, err, orderbookv1.ErrInsufficientLiquidity)
	assert.Contains(t, err.Error(), "no bids available")
	assert.False(t, market.IsTerminal())

	invalid := ob.InvalidOrders(orderbookv1.Ask)
	require.Len(t, invalid, 1)
	assert.Same(t, market, invalid[0])
	assert.Empty(t, ob.InvalidOrders(orderbookv1.Bid))

	_, err = submitMarket(t, ob, orderbookv1.Bid, 1)
	assert.ErrorIs(t, err, orderbookv1.ErrInsufficientLiquidity)
	assert.Contains(t, err.Error(), "no asks available")
}

func TestOrderbook_MarketOrderKeepsPartialFills(t *testing.T) {
	ob := newTestOrderbook(t)
	bid := submitLimit(t, ob, orderbookv1.Bid, 30, 100)

	market, err := submitMarket(t, ob, orderbookv1.Ask, 50)

	assert.ErrorIs(t, err, orderbookv1.ErrInsufficientLiquidity)
	assert.True(t, bid.IsFilled())
	assert.False(t, market.IsTerminal())
	assert.Equal(t, int64(20), market.Quantity)

	executedAsks := ob.ExecutedOrders(orderbookv1.Ask)
	require.Len(t, executedAsks, 1)
	assert.Equal(t, int64(30), executedAsks[0].Quantity)

	invalid := ob.InvalidOrders(orderbookv1.Ask)
	require.Len(t, invalid, 1)
	assert.Same(t, market, invalid[0])
	assert.True(t, ob.ActiveOrders().IsEmpty())
}

func TestOrderbook_TimePriorityWithinLevel(t *testing.T) {
	ob := newTestOrderbook(t)
	first := submitLimit(t, ob, orderbookv1.Ask, 10, 100)
	second := submitLimit(t, ob, orderbookv1.Ask, 10, 100)

	_, err := submitMarket(t, ob, orderbookv1.Bid, 10)

	require.NoError(t, err)
	assert.True(t, first.IsFilled())
	assert.False(t, second.IsTerminal())
	assert.Equal(t, second.ID, ob.ActiveOrders().Asks[0].Orders[0].ID)
}

func TestOrderbook_PricePriorityRegardlessOfArrival(t *testing.T) {
	ob := newTestOrderbook(t)
	worse := submitLimit(t, ob, orderbookv1.Ask, 10, 105)
	better := submitLimit(t, ob, orderbookv1.Ask, 10, 101)

	_, err := submitMarket(t, ob, orderbookv1.Bid, 10)

	require.NoError(t, err)
	assert.True(t, better.IsFilled())
	assert.Equal(t, 101.0, *better.FilledPrice)
	assert.False(t, worse.IsTerminal())
}

func TestOrderbook_LimitStopsAtNonCrossingLevel(t *testing.T) {
	ob := newTestOrderbook(t)
	submitLimit(t, ob, orderbookv1.Ask, 10, 101)
	submitLimit(t, ob, orderbookv1.Ask, 10, 102)
	far := submitLimit(t, ob, orderbookv1.Ask, 10, 105)

	bid := submitLimit(t, ob, orderbookv1.Bid, 25, 102)

	assert.False(t, bid.IsTerminal())
	assert.Equal(t, int64(5), bid.Quantity)

	for _, executed := range ob.ExecutedOrders(orderbookv1.Bid) {
		assert.LessOrEqual(t, *executed.FilledPrice, 102.0)
	}
	assert.Equal(t, int64(20), sumQuantity(ob.ExecutedOrders(orderbookv1.Bid)))

	snapshot := ob.ActiveOrders()
	require.Len(t, snapshot.Asks, 1)
	assert.Equal(t, far.ID, snapshot.Asks[0].Orders[0].ID)
	require.Len(t, snapshot.Bids, 1)
	assert.Equal(t, 102.0, snapshot.Bids[0].Price)

	// the non-crossing level went back into the index
	price, ok := ob.BestPrice(orderbookv1.Ask)
	assert.True(t, ok)
	assert.Equal(t, 105.0, price)
	assertNoEmptyLevels(t, ob)
}

func TestOrderbook_NonCrossingLimitsBothRest(t *testing.T) {
	ob := newTestOrderbook(t)
	ask := submitLimit(t, ob, orderbookv1.Ask, 10, 105)
	bid := submitLimit(t, ob, orderbookv1.Bid, 10, 100)

	assert.False(t, ask.IsTerminal())
	assert.False(t, bid.IsTerminal())
	assert.Zero(t, ob.ExecutionCount())

	// an ask never receives less than its limit
	low := submitLimit(t, ob, orderbookv1.Ask, 5, 100.5)
	assert.False(t, low.IsTerminal())
	assert.Equal(t, 3, ob.ActiveOrders().OrderCount(orderbookv1.Ask)+ob.ActiveOrders().OrderCount(orderbookv1.Bid))
}

func TestOrderbook_StaleIndexAfterCancel(t *testing.T) {
	ob := newTestOrderbook(t)
	original := submitLimit(t, ob, orderbookv1.Bid, 10, 100)

	_, err := ob.CancelLimitOrder(orderbookv1.Bid, 100, original.ID)
	require.NoError(t, err)
	// the emptied level is still referenced by the index
	assert.Equal(t, 1, ob.bids.index.Len())

	fresh := submitLimit(t, ob, orderbookv1.Bid, 5, 100)
	assert.Equal(t, 2, ob.bids.index.Len())

	snapshot := ob.ActiveOrders()
	require.Len(t, snapshot.Bids, 1)
	require.Len(t, snapshot.Bids[0].Orders, 1)
	assert.Equal(t, fresh.ID, snapshot.Bids[0].Orders[0].ID)

	market, err := submitMarket(t, ob, orderbookv1.Ask, 5)
	require.NoError(t, err)
	assert.True(t, market.IsFilled())
	assert.True(t, fresh.IsFilled())
	assert.False(t, original.IsFilled())

	assert.Zero(t, ob.bids.index.Len())
	assert.Empty(t, ob.bids.levels)
}

func TestOrderbook_BestPriceSkipsStaleEntries(t *testing.T) {
	ob := newTestOrderbook(t)
	best := submitLimit(t, ob, orderbookv1.Bid, 10, 110)
	submitLimit(t, ob, orderbookv1.Bid, 10, 100)

	_, err := ob.CancelLimitOrder(orderbookv1.Bid, 110, best.ID)
	require.NoError(t, err)

	price, ok := ob.BestPrice(orderbookv1.Bid)
	assert.True(t, ok)
	assert.Equal(t, 100.0, price)
	assert.Equal(t, 1, ob.bids.index.Len())
}

func TestOrderbook_UpdateLimitOrder(t *testing.T) {
	t.Run("resets time priority", func(t *testing.T) {
		ob := newTestOrderbook(t)
		first := submitLimit(t, ob, orderbookv1.Ask, 10, 100)
		second := submitLimit(t, ob, orderbookv1.Ask, 10, 100)

		updated, err := ob.UpdateLimitOrder(orderbookv1.Ask, 100, first.ID, orderbookv1.UpdateLimitOrderRequest{})

		require.NoError(t, err)
		assert.NotEqual(t, first.ID, updated.ID)
		assert.True(t, first.IsCanceled())
		assert.Equal(t, int64(10), updated.Quantity)

		orders := ob.ActiveOrders().Asks[0].Orders
		require.Len(t, orders, 2)
		assert.Equal(t, second.ID, orders[0].ID)
		assert.Equal(t, updated.ID, orders[1].ID)

		_, err = submitMarket(t, ob, orderbookv1.Bid, 10)
		require.NoError(t, err)
		assert.True(t, second.IsFilled())
		assert.False(t, updated.IsTerminal())
	})

	t.Run("moves to new price and matches", func(t *testing.T) {
		ob := newTestOrderbook(t)
		bid := submitLimit(t, ob, orderbookv1.Bid, 10, 95)
		ask := submitLimit(t, ob, orderbookv1.Ask, 4, 100)

		qty, price := int64(6), 100.0
		updated, err := ob.UpdateLimitOrder(orderbookv1.Bid, 95, bid.ID,
			orderbookv1.UpdateLimitOrderRequest{Quantity: &qty, Price: &price})

		require.NoError(t, err)
		assert.True(t, ask.IsFilled())
		assert.Equal(t, int64(2), updated.Quantity)
		assert.Equal(t, 100.0, updated.LimitPrice)

		snapshot := ob.ActiveOrders()
		assert.Empty(t, snapshot.Asks)
		require.Len(t, snapshot.Bids, 1)
		assert.Equal(t, 100.0, snapshot.Bids[0].Price)
		assertNoEmptyLevels(t, ob)
	})

	t.Run("invalid replacement keeps the original", func(t *testing.T) {
		negative := int64(-1)
		nan, posInf, negInf := math.NaN(), math.Inf(1), math.Inf(-1)

		requests := map[string]orderbookv1.UpdateLimitOrderRequest{
			"negative quantity": {Quantity: &negative},
			"NaN price":         {Price: &nan},
			"+Inf price":        {Price: &posInf},
			"-Inf price":        {Price: &negInf},
		}

		for name, req := range requests {
			t.Run(name, func(t *testing.T) {
				ob := newTestOrderbook(t)
				bid := submitLimit(t, ob, orderbookv1.Bid, 10, 95)

				_, err := ob.UpdateLimitOrder(orderbookv1.Bid, 95, bid.ID, req)

				assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
				assert.False(t, bid.IsCanceled())
				assert.Equal(t, 1, ob.ActiveOrders().OrderCount(orderbookv1.Bid))
				best, ok := ob.BestPrice(orderbookv1.Bid)
				assert.True(t, ok)
				assert.Equal(t, 95.0, best)
			})
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		ob := newTestOrderbook(t)
		_, err := ob.UpdateLimitOrder(orderbookv1.Bid, 95, "missing", orderbookv1.UpdateLimitOrderRequest{})
		assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
	})
}

func TestOrderbook_QuantityConservation(t *testing.T) {
	ob := newTestOrderbook(t)

	submitted := map[orderbookv1.Direction]int64{}
	place := func(direction orderbookv1.Direction, quantity int64, price float64) {
		submitLimit(t, ob, direction, quantity, price)
		submitted[direction] += quantity
	}

	place(orderbookv1.Bid, 100, 100)
	place(orderbookv1.Bid, 35, 101)
	place(orderbookv1.Ask, 60, 102)
	place(orderbookv1.Ask, 80, 100.5)
	place(orderbookv1.Bid, 70, 102)
	place(orderbookv1.Ask, 200, 99)
	place(orderbookv1.Bid, 15, 98)

	executedBids := sumQuantity(ob.ExecutedOrders(orderbookv1.Bid))
	executedAsks := sumQuantity(ob.ExecutedOrders(orderbookv1.Ask))
	assert.Equal(t, executedBids, executedAsks)

	snapshot := ob.ActiveOrders()
	var restingBids, restingAsks int64
	for _, level := range snapshot.Bids {
		restingBids += level.Quantity
	}
	for _, level := range snapshot.Asks {
		restingAsks += level.Quantity
	}

	assert.Equal(t, submitted[orderbookv1.Bid], executedBids+restingBids)
	assert.Equal(t, submitted[orderbookv1.Ask], executedAsks+restingAsks)

	// best bid stays below best ask once matching settles
	bestBid, okBid := ob.BestPrice(orderbookv1.Bid)
	bestAsk, okAsk := ob.BestPrice(orderbookv1.Ask)
	if okBid && okAsk {
		assert.Less(t, bestBid, bestAsk)
	}
	assertNoEmptyLevels(t, ob)
}

func TestOrderbook_ActiveOrdersOrdering(t *testing.T) {
	ob := newTestOrderbook(t)
	for _, price := range []float64{97, 99, 98} {
		submitLimit(t, ob, orderbookv1.Bid, 1, price)
	}
	for _, price := range []float64{103, 101, 102} {
		submitLimit(t, ob, orderbookv1.Ask, 1, price)
	}

	snapshot := ob.ActiveOrders()

	var bidPrices, askPrices []float64
	for _, level := range snapshot.Bids {
		bidPrices = append(bidPrices, level.Price)
	}
	for _, level := range snapshot.Asks {
		askPrices = append(askPrices, level.Price)
	}
	assert.Equal(t, []float64{99, 98, 97}, bidPrices)
	assert.Equal(t, []float64{101, 102, 103}, askPrices)

	// inspecting twice yields the same view
	assert.Equal(t, snapshot, ob.ActiveOrders())
}

func TestOrderbook_ExecutionsSince(t *testing.T) {
	ob := newTestOrderbook(t)
	submitLimit(t, ob, orderbookv1.Ask, 10, 100)

	before := ob.ExecutionCount()
	_, err := submitMarket(t, ob, orderbookv1.Bid, 4)
	require.NoError(t, err)

	executed := ob.ExecutionsSince(before)
	require.Len(t, executed, 2)
	assert.Equal(t, orderbookv1.Ask, executed[0].Direction)
	assert.Equal(t, orderbookv1.Bid, executed[1].Direction)

	assert.Nil(t, ob.ExecutionsSince(ob.ExecutionCount()))
	assert.Len(t, ob.ExecutionsSince(-3), 2)
}

func TestOrderbook_FillFailure(t *testing.T) {
	ob := newTestOrderbook(t)
	resting, err := orderbookv1.NewLimitOrder(testTicker, orderbookv1.Ask, 10, 100)
	require.NoError(t, err)
	require.NoError(t, resting.Cancel(time.Now()))
	incoming, err := orderbookv1.NewMarketOrder(testTicker, orderbookv1.Bid, 10)
	require.NoError(t, err)

	err = ob.fill(resting, incoming, 100)

	assert.ErrorIs(t, err, orderbookv1.ErrFillFailure)
	assert.Equal(t, []*orderbookv1.Order{resting}, ob.InvalidOrders(orderbookv1.Ask))
	assert.Equal(t, []*orderbookv1.Order{incoming}, ob.InvalidOrders(orderbookv1.Bid))
	assert.Zero(t, ob.ExecutionCount())
}

func TestOrderbook_Depth(t *testing.T) {
	ob := newTestOrderbook(t)
	submitLimit(t, ob, orderbookv1.Bid, 1, 99)
	submitLimit(t, ob, orderbookv1.Bid, 1, 98)
	bid := submitLimit(t, ob, orderbookv1.Bid, 1, 97)
	submitLimit(t, ob, orderbookv1.Ask, 1, 101)

	assert.Equal(t, 3, ob.Depth(orderbookv1.Bid))
	assert.Equal(t, 1, ob.Depth(orderbookv1.Ask))

	_, err := ob.CancelLimitOrder(orderbookv1.Bid, 97, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ob.Depth(orderbookv1.Bid))
}
