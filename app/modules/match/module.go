package match

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	matchservice "github.com/ahalia-sports/tournament-admin/app/modules/match/application"
	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchhandlers "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/handlers"
	"github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/matchtime"
	matchqueue "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/queue"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	matchrouter "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/router"
	"github.com/ahalia-sports/tournament-admin/config"
	"github.com/ahalia-sports/tournament-admin/pkg/eventbus"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
)

// Module represents the match module.
type Module struct {
	MatchService matchservice.Service
	MatchRouter  *matchrouter.MatchRouter
	queue        *matchqueue.Service
	logger       *slog.Logger
	cancelFunc   context.CancelFunc
}

// Tournaments converts the configured tournaments into domain values.
func Tournaments(cfg *config.Config) ([]matchdomain.Tournament, error) {
	out := make([]matchdomain.Tournament, 0, len(cfg.Tournaments))
	for _, tc := range cfg.Tournaments {
		t, err := matchdomain.NewTournament(tc.ID, tc.Name, tc.Sport, tc.DrawPolicy, tc.Venues, tc.KickoffTimes, tc.DayIncrement, tc.Timezone, tc.AutoStart)
		if err != nil {
			return nil, fmt.Errorf("tournament %q: %w", tc.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// NewMatchModule wires the match service, its event router and HTTP routes.
// db may be nil, which selects in-memory storage and disables the kickoff queue.
// tournamentRouter must already be scoped to /api/tournaments/{tournamentID}.
func NewMatchModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	roster matchservice.TeamRoster,
	eventBus eventbus.EventBus,
	router *message.Router,
	tournamentRouter chi.Router,
	requireAdmin func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "match"))
	logger.InfoContext(ctx, "match.NewMatchModule called")

	tournaments, err := Tournaments(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid tournament configuration: %w", err)
	}

	var repo matchdb.Repository
	if db != nil {
		repo = matchdb.NewRepository(db)
	} else {
		logger.WarnContext(ctx, "No database configured, matches are kept in memory")
		repo = matchdb.NewMemoryRepository()
	}

	var queue *matchqueue.Service
	var kickoffs matchservice.KickoffScheduler
	if cfg.Queue.Enabled && db != nil {
		queue, err = matchqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, cfg.Queue.MaxWorkers, obs.Metrics, eventBus)
		if err != nil {
			return nil, fmt.Errorf("failed to create kickoff queue: %w", err)
		}
		kickoffs = queue
	}

	clock := clockwork.NewRealClock()
	service := matchservice.NewMatchService(
		repo,
		roster,
		tournaments,
		eventBus,
		kickoffs,
		matchtime.NewParser(clock, logger),
		clock,
		logger,
		obs.Metrics,
		obs.Tracer,
		db,
	)

	handlers := matchhandlers.NewMatchHandlers(service, logger, obs.Tracer)

	matchRouter := matchrouter.NewMatchRouter(logger, router, eventBus, eventBus, obs.Tracer, obs.Registry)
	if err := matchRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure match router: %w", err)
	}

	if tournamentRouter != nil {
		handlers.Routes(tournamentRouter, requireAdmin)
	}

	return &Module{
		MatchService: service,
		MatchRouter:  matchRouter,
		queue:        queue,
		logger:       logger,
	}, nil
}

// Run starts the kickoff queue, if any, and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting match module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start kickoff queue", slog.Any("error", err))
			return
		}
	}

	<-ctx.Done()
	m.logger.Info("Match module goroutine stopped")
}

// HealthCheck reports whether the kickoff queue can reach its database.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	return m.queue.HealthCheck(ctx)
}

// Close stops the kickoff queue.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping match module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		if err := m.queue.Stop(ctx); err != nil {
			return fmt.Errorf("error stopping kickoff queue: %w", err)
		}
	}

	m.logger.Info("Match module stopped")
	return nil
}
