package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records step transitions and placed orders.
type CheckoutMetrics struct {
	transitions *prometheus.CounterVec
	orders      prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_transitions_total",
		Help: "Checkout step transitions.",
	}, []string{"from", "to"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed through the checkout flow.",
	})
	reg.MustRegister(transitions, orders)
	return &CheckoutMetrics{
		transitions: transitions,
		orders:      orders,
	}
}

// IncTransition counts a move between two steps.
func (c *CheckoutMetrics) IncTransition(from, to string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncOrdersPlaced counts a completed purchase.
func (c *CheckoutMetrics) IncOrdersPlaced() {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
