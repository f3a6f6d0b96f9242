package exchange

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Options holds optional configuration for Exchange.
type Options struct {
	// PublishTimeout bounds the publishing of the executions of one operation.
	PublishTimeout time.Duration
	// MetricsNamespace prefixes every exported metric.
	MetricsNamespace string
	// Registerer receives the exchange metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

// DefaultOptions returns the default exchange options.
func DefaultOptions() *Options {
	return &Options{
		PublishTimeout:   5 * time.Second,
		MetricsNamespace: "orderbook",
	}
}
