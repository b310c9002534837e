package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records the outcome of service operations.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// OperationMetrics is the Prometheus implementation of Metrics.
type OperationMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewOperationMetrics registers the operation collectors on reg.
func NewOperationMetrics(reg prometheus.Registerer, namespace string) *OperationMetrics {
	labels := []string{"service", "operation"}
	m := &OperationMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Number of service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Number of service operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failure_total",
			Help:      "Number of service operations that failed.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration)
	return m
}

func (m *OperationMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(service, operation).Inc()
}

func (m *OperationMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(service, operation).Inc()
}

func (m *OperationMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(service, operation).Inc()
}

func (m *OperationMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.duration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

// NewNoop returns a Metrics that records nothing.
func NewNoop() Metrics { return NoopMetrics{} }

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}

var (
	_ Metrics = (*OperationMetrics)(nil)
	_ Metrics = NoopMetrics{}
)
