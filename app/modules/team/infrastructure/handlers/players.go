package teamhandlers

import (
	"net/http"
	"strconv"

	teamservice "github.com/ahalia-sports/tournament-admin/app/modules/team/application"
	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	"github.com/ahalia-sports/tournament-admin/pkg/httpjson"
	"github.com/go-chi/chi/v5"
)

// HandleListPlayers filters by ?position= and ?team= (a team ID).
func (h *TeamHandlers) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	filter := teamservice.PlayerFilter{
		Position: r.URL.Query().Get("position"),
		TeamID:   r.URL.Query().Get("team"),
	}
	players, err := h.service.ListPlayers(r.Context(), chi.URLParam(r, "tournamentID"), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, players)
}

func (h *TeamHandlers) HandleLeaders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpjson.Error(w, http.StatusBadRequest, "limit must be a positive whole number")
			return
		}
		limit = n
	}
	leaders, err := h.service.Leaders(r.Context(), chi.URLParam(r, "tournamentID"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, leaders)
}

func (h *TeamHandlers) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.service.GetPlayer(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "playerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, player)
}

func (h *TeamHandlers) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var entry teamdomain.PlayerEntry
	if err := httpjson.Decode(w, r, &entry); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.TournamentID = chi.URLParam(r, "tournamentID")

	player, err := h.service.AddPlayer(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, player)
}

func (h *TeamHandlers) HandleUpdatePlayerStats(w http.ResponseWriter, r *http.Request) {
	var stats teamdomain.PlayerStats
	if err := httpjson.Decode(w, r, &stats); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	player, err := h.service.UpdatePlayerStats(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "playerID"), stats)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, player)
}

func (h *TeamHandlers) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemovePlayer(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "playerID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
