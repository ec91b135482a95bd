package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics tracks order placement outcomes.
type OrderMetrics struct {
	placed   prometheus.Counter
	failures *prometheus.CounterVec
	items    prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders committed successfully.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order placements rejected, by error code.",
	}, []string{"code"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_line_items",
		Help:    "Number of line items per placed order.",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
	})
	reg.MustRegister(placed, failures, items)
	return &OrderMetrics{placed: placed, failures: failures, items: items}
}

// IncPlaced records a committed order with the given number of line items.
func (m *OrderMetrics) IncPlaced(lineItems int) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.Inc()
	m.items.Observe(float64(lineItems))
}

// IncFailure records a rejected placement.
func (m *OrderMetrics) IncFailure(code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(code)).Inc()
}
