package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts checkout attempts by outcome. A nil *Metrics is a no-op.
type Metrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_checkout_attempts_total",
			Help: "Checkout attempts by entry path and outcome.",
		}, []string{"path", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orderdesk_checkout_duration_ms",
			Help:    "Checkout latency in milliseconds, including lock waits.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"path"}),
	}
	reg.MustRegister(m.attempts, m.duration)
	return m
}

func (m *Metrics) observe(path Path, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(string(path), outcome).Inc()
	m.duration.WithLabelValues(string(path)).Observe(float64(took.Microseconds()) / 1000)
}

// Outcome maps a checkout error to the label used in metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, ErrEmptyOrder):
		return "empty"
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidPaymentMethod):
		return "invalid"
	case errors.Is(err, ErrProductNotFound):
		return "product"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "persistence"
}
