package authhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	authservice "github.com/ahalia-sports/tournament-admin/app/modules/auth/application"
	authdomain "github.com/ahalia-sports/tournament-admin/app/modules/auth/domain"
	"github.com/ahalia-sports/tournament-admin/pkg/httpjson"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the auth HTTP endpoints.
type Handlers interface {
	HandleLogin(w http.ResponseWriter, r *http.Request)
	HandleSession(w http.ResponseWriter, r *http.Request)
	Routes(r chi.Router)
}

// AuthHandlers implements the Handlers interface.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(
	service authservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// Routes mounts the endpoints on a router scoped to /api/auth.
func (h *AuthHandlers) Routes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Get("/session", h.HandleSession)
}

// HandleLogin exchanges email and password for a bearer token.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleLogin")
	defer span.End()

	var req authservice.SignInRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.SignIn(ctx, req.Email, req.Password)
	switch {
	case err == nil:
		httpjson.Write(w, http.StatusOK, resp)
	case errors.Is(err, authservice.ErrInvalidRequest):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, authservice.ErrInvalidCredentials):
		httpjson.Error(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.ErrorContext(ctx, "Sign-in failed", slog.Any("error", err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// HandleSession reports the caller's session. Visitors get a signed-out session.
func (h *AuthHandlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, authdomain.SessionFromContext(r.Context()))
}
