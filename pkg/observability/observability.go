// Package observability wires logging, tracing and metrics for the service.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config holds observability settings.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
}

// Observability bundles the shared logger, tracer and metrics registry.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
	Metrics  Metrics
}

// Init builds the observability stack. Logs go to stdout.
func Init(cfg Config) *Observability {
	return InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter builds the observability stack writing logs to w.
func InitWithWriter(cfg Config, w io.Writer) *Observability {
	logger := NewLogger(cfg.Environment, cfg.LogLevel, w).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(cfg.ServiceName),
		Registry: registry,
		Metrics:  NewOperationMetrics(registry, metricNamespace(cfg.ServiceName)),
	}
}

// NewLogger returns a JSON logger in production and a text logger otherwise.
func NewLogger(environment, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(environment, "production") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func metricNamespace(serviceName string) string {
	if serviceName == "" {
		return "tournament"
	}
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(serviceName)
}

type correlationKey struct{}

// WithCorrelationID stores a correlation ID on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation ID stored on the context, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// CorrelationAttr is a log attribute carrying the context's correlation ID.
func CorrelationAttr(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}
