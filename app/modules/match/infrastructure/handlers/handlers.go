package matchhandlers

import (
	"log/slog"

	matchservice "github.com/ahalia-sports/tournament-admin/app/modules/match/application"
	"go.opentelemetry.io/otel/trace"
)

// MatchHandlers handles match events and HTTP requests.
type MatchHandlers struct {
	service matchservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewMatchHandlers creates a new MatchHandlers.
func NewMatchHandlers(service matchservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &MatchHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
