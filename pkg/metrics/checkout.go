package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts placed orders, failed checkouts and confirmation mail outcomes.
type CheckoutMetrics struct {
	placed        *prometheus.CounterVec
	failures      *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_placed_total",
		Help: "Orders persisted by checkout.",
	}, []string{"payment_method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout attempts that did not produce an order.",
	}, []string{"reason"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_notifications_total",
		Help: "Order confirmation mail attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(placed, failures, notifications)
	return &CheckoutMetrics{
		placed:        placed,
		failures:      failures,
		notifications: notifications,
	}
}

// IncPlaced increments the placed-orders counter for the payment method.
func (c *CheckoutMetrics) IncPlaced(paymentMethod string) {
	if c == nil || c.placed == nil {
		return
	}
	c.placed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncFailure increments the failure counter for the reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncNotification increments the notification counter for the outcome (sent, failed).
func (c *CheckoutMetrics) IncNotification(outcome string) {
	if c == nil || c.notifications == nil {
		return
	}
	c.notifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}
