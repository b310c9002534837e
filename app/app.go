// Package app wires the tournament modules into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ahalia-sports/tournament-admin/app/modules/auth"
	authhandlers "github.com/ahalia-sports/tournament-admin/app/modules/auth/infrastructure/handlers"
	"github.com/ahalia-sports/tournament-admin/app/modules/match"
	"github.com/ahalia-sports/tournament-admin/app/modules/team"
	"github.com/ahalia-sports/tournament-admin/config"
	"github.com/ahalia-sports/tournament-admin/pkg/eventbus"
	"github.com/ahalia-sports/tournament-admin/pkg/httpjson"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// App holds every long-lived component of the service.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Handler       http.Handler

	AuthModule  *auth.Module
	TeamModule  *team.Module
	MatchModule *match.Module

	server *http.Server
	logger *slog.Logger
}

// Initialize builds the application. Without a Postgres DSN everything runs in memory.
func Initialize(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger
	a := &App{Config: cfg, Observability: obs, logger: logger}

	if cfg.Postgres.DSN != "" {
		a.DB = OpenDB(cfg.Postgres.DSN)
		if err := a.DB.PingContext(ctx); err != nil {
			_ = a.DB.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		logger.InfoContext(ctx, "Connected to postgres")
	}

	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewNATS(cfg.NATS.URL, cfg.NATS.QueueGroup, logger)
		if err != nil {
			_ = a.closeDB()
			return nil, err
		}
		a.EventBus = bus
	} else {
		logger.InfoContext(ctx, "No NATS URL configured, using in-process event bus")
		a.EventBus = eventbus.NewInMemory(logger)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(logger),
		}.Middleware,
		middleware.Recoverer,
	)
	a.Router = router

	root := chi.NewRouter()
	root.Use(chimiddleware.RequestID)
	root.Use(chimiddleware.RealIP)
	root.Use(chimiddleware.Recoverer)
	root.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))

	a.AuthModule, err = auth.NewModule(ctx, cfg, obs)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	root.Use(a.AuthModule.SessionMiddleware())
	root.Use(correlationMiddleware)
	a.AuthModule.Routes(root)

	tournaments := chi.NewRouter()
	a.TeamModule = team.NewTeamModule(ctx, cfg, obs, a.DB, a.EventBus, tournaments, a.AuthModule.RequireAdmin)
	a.MatchModule, err = match.NewMatchModule(ctx, cfg, obs, a.DB, a.TeamModule.TeamService, a.EventBus, router, tournaments, a.AuthModule.RequireAdmin)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	root.Mount("/api/tournaments/{tournamentID}", tournaments)
	root.Get("/api/tournaments", a.handleListTournaments)

	root.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	root.Get("/healthz", a.handleHealth)

	a.Handler = root
	a.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// Run serves HTTP, consumes events and runs the kickoff queue until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Router.Run(gctx); err != nil {
			return fmt.Errorf("watermill router: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.MatchModule.Run(gctx, nil)
		return nil
	})

	g.Go(func() error {
		a.logger.InfoContext(gctx, "HTTP server listening", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases every component. Safe to call on a partially initialized App. A router
// that never ran is skipped, since closing it blocks for the full CloseTimeout.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Router != nil && a.Router.IsRunning() {
		if err := a.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("router: %w", err))
		}
	}
	if a.MatchModule != nil {
		if err := a.MatchModule.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.closeBus(); err != nil {
		errs = append(errs, fmt.Errorf("event bus: %w", err))
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) closeBus() error {
	if a.EventBus == nil {
		return nil
	}
	return a.EventBus.Close()
}

func (a *App) closeDB() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

type tournamentSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

func (a *App) handleListTournaments(w http.ResponseWriter, _ *http.Request) {
	out := make([]tournamentSummary, 0, len(a.Config.Tournaments))
	for _, t := range a.Config.Tournaments {
		out = append(out, tournamentSummary{ID: t.ID, Name: t.Name, Sport: t.Sport})
	}
	httpjson.Write(w, http.StatusOK, out)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			status["status"], status["postgres"] = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if err := a.MatchModule.HealthCheck(ctx); err != nil {
		status["status"], status["queue"] = "degraded", err.Error()
		code = http.StatusServiceUnavailable
	}
	httpjson.Write(w, code, status)
}

// correlationMiddleware reuses the chi request ID as the correlation ID for logs and events.
func correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(observability.WithCorrelationID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
