package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	CheckoutOutcomeCommitted = "committed"
	CheckoutOutcomeRejected  = "rejected"
	CheckoutOutcomeFailed    = "failed"
)

const (
	DBErrorReasonDeadlineExceeded     = "deadline_exceeded"
	DBErrorReasonLockTimeout          = "db_lock_timeout"
	DBErrorReasonSerializationFailure = "serialization_failure"
	DBErrorReasonDeadlock             = "deadlock"
	DBErrorReasonUniqueViolation      = "unique_violation"
	DBErrorReasonUnknown              = "unknown"
)

// CheckoutMetrics tracks the order transaction with Prometheus collectors.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	dbErrors *prometheus.CounterVec
}

var (
	checkoutMetricsOnce sync.Once
	checkoutMetrics     *CheckoutMetrics
)

// Checkout returns the process-wide checkout collectors.
func Checkout() *CheckoutMetrics {
	return CheckoutWithConfig(Config{})
}

func CheckoutWithConfig(cfg Config) *CheckoutMetrics {
	checkoutMetricsOnce.Do(func() {
		checkoutMetrics = newCheckoutMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return checkoutMetrics
}

func newCheckoutMetrics(registerer prometheus.Registerer, cfg Config) *CheckoutMetrics {
	constLabels := constLabelsFor(cfg)
	m := &CheckoutMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "loja_checkout_duration_seconds",
			Help:        "Checkout transaction latency by outcome.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		dbErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "loja_checkout_db_errors_total",
			Help:        "Checkout transaction database failures by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}
	registerer.MustRegister(m.duration, m.dbErrors)
	return m
}

func (m *CheckoutMetrics) ObserveDuration(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *CheckoutMetrics) RecordDBError(err error) {
	if m == nil || err == nil {
		return
	}
	m.dbErrors.WithLabelValues(ClassifyDBError(err)).Inc()
}

// ClassifyDBError maps driver errors to a low-cardinality reason.
func ClassifyDBError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return DBErrorReasonDeadlineExceeded
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03":
			return DBErrorReasonLockTimeout
		case "40001":
			return DBErrorReasonSerializationFailure
		case "40P01":
			return DBErrorReasonDeadlock
		case "23505":
			return DBErrorReasonUniqueViolation
		}
	}
	return DBErrorReasonUnknown
}
