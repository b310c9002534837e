package team

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	teamservice "github.com/ahalia-sports/tournament-admin/app/modules/team/application"
	teamhandlers "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/handlers"
	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/config"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
)

// Module represents the team module.
type Module struct {
	TeamService teamservice.Service
	logger      *slog.Logger
}

// NewTeamModule wires the team and player registries and their HTTP routes. db may be nil, which
// selects in-memory storage. tournamentRouter must already be scoped to
// /api/tournaments/{tournamentID}.
func NewTeamModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	publisher message.Publisher,
	tournamentRouter chi.Router,
	requireAdmin func(http.Handler) http.Handler,
) *Module {
	logger := obs.Logger.With(slog.String("module", "team"))
	logger.InfoContext(ctx, "team.NewTeamModule called")

	var (
		repo    teamdb.Repository
		players teamdb.PlayerRepository
	)
	if db != nil {
		repo = teamdb.NewRepository(db)
		players = teamdb.NewPlayerRepository(db)
	} else {
		repo = teamdb.NewMemoryRepository()
		players = teamdb.NewMemoryPlayerRepository()
	}

	ids := make([]string, 0, len(cfg.Tournaments))
	for _, t := range cfg.Tournaments {
		ids = append(ids, t.ID)
	}

	service := teamservice.NewTeamService(
		repo,
		players,
		ids,
		publisher,
		clockwork.NewRealClock(),
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
	)

	if tournamentRouter != nil {
		teamhandlers.NewTeamHandlers(service, logger).Routes(tournamentRouter, requireAdmin)
	}

	return &Module{TeamService: service, logger: logger}
}
