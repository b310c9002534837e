package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	authservice "github.com/ahalia-sports/tournament-admin/app/modules/auth/application"
	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
	authhandlers "github.com/ahalia-sports/tournament-admin/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/ahalia-sports/tournament-admin/app/modules/auth/infrastructure/jwt"
	"github.com/ahalia-sports/tournament-admin/config"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module represents the auth module.
type Module struct {
	service  authservice.Service
	handlers authhandlers.Handlers
	limiter  *authhandlers.IPRateLimiter
	logger   *slog.Logger
}

// NewModule creates the auth module. Call Routes to mount /api/auth.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "auth"))
	logger.InfoContext(ctx, "Initializing auth module")

	accounts := make([]authservice.Account, 0, len(cfg.Auth.Accounts))
	for _, a := range cfg.Auth.Accounts {
		role, err := authdomain.ParseRole(a.Role)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", a.Email, err)
		}
		if a.PasswordHash == "" {
			logger.WarnContext(ctx, "Account has no password hash and cannot sign in", slog.String("email", a.Email))
			continue
		}
		accounts = append(accounts, authservice.Account{Email: a.Email, PasswordHash: a.PasswordHash, Role: role})
	}
	if len(accounts) == 0 {
		logger.WarnContext(ctx, "No sign-in accounts configured, admin routes are unreachable")
	}

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)
	service := authservice.NewService(
		jwtProvider,
		accounts,
		authservice.Config{DefaultTTL: cfg.JWT.DefaultTTL},
		logger,
		obs.Tracer,
	)
	handlers := authhandlers.NewAuthHandlers(service, logger, obs.Tracer)

	return &Module{
		service:  service,
		handlers: handlers,
		limiter:  authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		logger:   logger,
	}, nil
}

// Routes mounts the rate-limited /api/auth endpoints.
func (m *Module) Routes(httpRouter chi.Router) {
	httpRouter.Route("/api/auth", func(r chi.Router) {
		r.Use(authhandlers.RateLimitMiddleware(m.limiter))
		m.handlers.Routes(r)
	})
}

// SessionMiddleware attaches the caller's session to every request.
func (m *Module) SessionMiddleware() func(http.Handler) http.Handler {
	return authhandlers.SessionMiddleware(m.service)
}

// RequireAdmin guards routes that change tournament data.
func (m *Module) RequireAdmin(next http.Handler) http.Handler {
	return authhandlers.RequireAdmin(next)
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
