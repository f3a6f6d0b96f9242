package exchange

import (
	orderbookv1 "github.com/BryanOwens012/order-book/internal/domain/orderbook/v1"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of an Exchange.
// A nil *Metrics records nothing.
type Metrics struct {
	ordersSubmitted  *prometheus.CounterVec
	ordersRejected   *prometheus.CounterVec
	executions       *prometheus.CounterVec
	executedQuantity *prometheus.CounterVec
	publishFailures  *prometheus.CounterVec
	restingLevels    *prometheus.GaugeVec
	operationLatency *prometheus.HistogramVec
}

// NewMetrics creates the exchange collectors and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Total number of orders accepted for matching",
		}, []string{"ticker", "kind"}),

		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Total number of failed operations by error code",
		}, []string{"ticker", "code"}),

		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Total number of executed orders",
		}, []string{"ticker", "direction"}),

		executedQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executed_quantity_total",
			Help:      "Total executed quantity",
		}, []string{"ticker", "direction"}),

		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "execution_publish_failures_total",
			Help:      "Total number of execution events that could not be published",
		}, []string{"ticker"}),

		restingLevels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resting_price_levels",
			Help:      "Current number of resting price levels by side",
		}, []string{"ticker", "side"}),

		operationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of order book operations",
			Buckets:   []float64{.000005, .00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005},
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.ordersSubmitted,
		m.ordersRejected,
		m.executions,
		m.executedQuantity,
		m.publishFailures,
		m.restingLevels,
		m.operationLatency,
	)

	return m
}

func (m *Metrics) orderSubmitted(ticker string, kind orderbookv1.OrderKind) {
	if m == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(ticker, kind.String()).Inc()
}

func (m *Metrics) operationFailed(ticker string, err error) {
	if m == nil {
		return
	}
	m.ordersRejected.WithLabelValues(ticker, string(orderbookv1.Code(err))).Inc()
}

func (m *Metrics) executed(ticker string, orders []*orderbookv1.Order) {
	if m == nil {
		return
	}
	for _, o := range orders {
		direction := o.Direction.String()
		m.executions.WithLabelValues(ticker, direction).Inc()
		m.executedQuantity.WithLabelValues(ticker, direction).Add(float64(o.Quantity))
	}
}

func (m *Metrics) publishFailed(ticker string) {
	if m == nil {
		return
	}
	m.publishFailures.WithLabelValues(ticker).Inc()
}

func (m *Metrics) depth(ob orderbookv1.Orderbook) {
	if m == nil {
		return
	}
	for _, direction := range orderbookv1.Directions {
		m.restingLevels.WithLabelValues(ob.Ticker(), direction.String()).Set(float64(ob.Depth(direction)))
	}
}

func (m *Metrics) observe(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.operationLatency.WithLabelValues(operation).Observe(seconds)
}
