package matchhandlers

import (
	"context"
	"net/http"

	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	"github.com/ahalia-sports/tournament-admin/pkg/handlerwrapper"
	"github.com/go-chi/chi/v5"
)

// Handlers defines the match event handlers and HTTP routes.
type Handlers interface {
	HandleKickoffDue(ctx context.Context, payload *matchevents.KickoffDuePayloadV1) ([]handlerwrapper.Result, error)
	HandleMatchCompleted(ctx context.Context, payload *matchevents.MatchPayloadV1) ([]handlerwrapper.Result, error)

	// Routes mounts the tournament-scoped HTTP API. requireAdmin guards mutating routes.
	Routes(r chi.Router, requireAdmin func(http.Handler) http.Handler)
}
