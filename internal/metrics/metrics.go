package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the shop collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	orders      prometheus.Counter
	orderTotals prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopcart",
			Name:      "operations_total",
			Help:      "Shop operations by name and outcome.",
		}, []string{"op", "outcome"}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shopcart",
			Name:      "orders_completed_total",
			Help:      "Orders completed.",
		}),
		orderTotals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shopcart",
			Name:      "order_total_after_discount",
			Help:      "Order totals after every discount, in currency units.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
		}),
	}
	reg.MustRegister(
		m.operations,
		m.orders,
		m.orderTotals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe counts one operation. A nil receiver is a no-op.
func (m *Metrics) Observe(op, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

// OrderCompleted records a finished order and its final total.
func (m *Metrics) OrderCompleted(total int64) {
	if m == nil {
		return
	}
	m.orders.Inc()
	m.orderTotals.Observe(float64(total))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
