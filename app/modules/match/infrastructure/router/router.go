package matchrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	matchhandlers "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/handlers"
	"github.com/ahalia-sports/tournament-admin/pkg/handlerwrapper"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// MatchRouter subscribes the match event handlers to the bus.
type MatchRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	tracer     trace.Tracer

	metricsBuilder *metrics.PrometheusMetricsBuilder
	metricsEnabled bool
}

func NewMatchRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *MatchRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && !inTestEnv {
		b := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &b
	}

	return &MatchRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
		metricsEnabled: metricsBuilder != nil,
	}
}

// Configure registers the handlers. Call before the router runs.
func (r *MatchRouter) Configure(_ context.Context, handlers matchhandlers.Handlers) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.registerHandlers(handlers)
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandler registers a transformation-pattern handler with a typed payload.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler handlerwrapper.HandlerFunc[T],
) {
	handlerName := "match." + topic

	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.publisher,
			handler,
		),
	)
}

func (r *MatchRouter) registerHandlers(h matchhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	// The queue publishes kickoffs; results feed the standings topic.
	registerHandler(deps, matchevents.KickoffDueV1, h.HandleKickoffDue)
	registerHandler(deps, matchevents.MatchCompletedV1, h.HandleMatchCompleted)
}

func (r *MatchRouter) Close() error {
	return r.Router.Close()
}
