package teamhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	teamservice "github.com/ahalia-sports/tournament-admin/app/modules/team/application"
	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	"github.com/ahalia-sports/tournament-admin/pkg/httpjson"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/go-chi/chi/v5"
)

// Handlers defines the team HTTP routes.
type Handlers interface {
	Routes(r chi.Router, requireAdmin func(http.Handler) http.Handler)
}

// TeamHandlers serves registration and roster administration.
type TeamHandlers struct {
	service teamservice.Service
	logger  *slog.Logger
}

// NewTeamHandlers creates a new TeamHandlers.
func NewTeamHandlers(service teamservice.Service, logger *slog.Logger) Handlers {
	return &TeamHandlers{service: service, logger: logger}
}

// Routes mounts the team API under a router already scoped to /api/tournaments/{tournamentID}.
func (h *TeamHandlers) Routes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/teams", h.HandleListTeams)
	r.Get("/teams/{teamID}", h.HandleGetTeam)
	r.Post("/teams/register", h.HandleRegister)
	r.Get("/players", h.HandleListPlayers)
	r.Get("/players/leaders", h.HandleLeaders)
	r.Get("/players/{playerID}", h.HandleGetPlayer)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/teams", h.HandleAddTeam)
		r.Patch("/teams/{teamID}/roster", h.HandleUpdateRoster)
		r.Patch("/teams/{teamID}/status", h.HandleSetStatus)
		r.Delete("/teams/{teamID}", h.HandleRemoveTeam)
		r.Post("/players", h.HandleAddPlayer)
		r.Patch("/players/{playerID}/stats", h.HandleUpdatePlayerStats)
		r.Delete("/players/{playerID}", h.HandleRemovePlayer)
	})
}

type rosterRequest struct {
	Players int `json:"players"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *TeamHandlers) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	status := teamdomain.Status(r.URL.Query().Get("status"))
	teams, err := h.service.ListTeams(r.Context(), chi.URLParam(r, "tournamentID"), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, teams)
}

func (h *TeamHandlers) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.service.GetTeam(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "teamID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, team)
}

// HandleRegister accepts the public sign-up form. The tournament comes from the path.
func (h *TeamHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var reg teamdomain.Registration
	if err := httpjson.Decode(w, r, &reg); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	reg.TournamentID = chi.URLParam(r, "tournamentID")

	team, err := h.service.Register(r.Context(), reg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, team)
}

func (h *TeamHandlers) HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	var entry teamdomain.Entry
	if err := httpjson.Decode(w, r, &entry); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.TournamentID = chi.URLParam(r, "tournamentID")

	team, err := h.service.AddTeam(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, team)
}

func (h *TeamHandlers) HandleUpdateRoster(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	team, err := h.service.UpdateRosterSize(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "teamID"), req.Players)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, team)
}

func (h *TeamHandlers) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := teamdomain.ParseStatus(req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	team, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "teamID"), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, team)
}

func (h *TeamHandlers) HandleRemoveTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveTeam(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "teamID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, teamservice.ErrUnknownTournament),
		errors.Is(err, teamservice.ErrTeamNotFound),
		errors.Is(err, teamservice.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, teamservice.ErrTeamExists):
		return http.StatusConflict
	case errors.Is(err, teamdomain.ErrInvalidTeam),
		errors.Is(err, teamdomain.ErrRosterTooSmall),
		errors.Is(err, teamdomain.ErrInvalidStatus),
		errors.Is(err, teamdomain.ErrInvalidPlayer),
		errors.Is(err, teamdomain.ErrInvalidPosition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *TeamHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Team request failed",
			observability.CorrelationAttr(r.Context()),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpjson.Error(w, status, "internal error")
		return
	}
	httpjson.Error(w, status, err.Error())
}
