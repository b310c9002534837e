package matchhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	matchservice "github.com/ahalia-sports/tournament-admin/app/modules/match/application"
	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchfixtures "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/fixtures"
	"github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/matchtime"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/httpjson"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/go-chi/chi/v5"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxWorkbookSize = 10 << 20
)

// Routes mounts the match API under a router already scoped to /api/tournaments/{tournamentID}.
func (h *MatchHandlers) Routes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/matches", h.HandleListMatches)
	r.Get("/matches/{matchID}", h.HandleGetMatch)
	r.Get("/standings", h.HandleStandings)
	r.Get("/standings/chart.png", h.HandleStandingsChart)
	r.Get("/schedule/export", h.HandleExportFixtures)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/summary", h.HandleSummary)
		r.Post("/schedule", h.HandleGenerateSchedule)
		r.Post("/schedule/import", h.HandleImportFixtures)
		r.Post("/matches", h.HandleScheduleMatch)
		r.Post("/matches/{matchID}/start", h.HandleStartMatch)
		r.Put("/matches/{matchID}/score", h.HandleUpdateLiveScore)
		r.Post("/matches/{matchID}/complete", h.HandleCompleteMatch)
		r.Post("/matches/{matchID}/end", h.HandleEndMatch)
	})
}

type scheduleRequest struct {
	StartDate string `json:"startDate"`
	DryRun    bool   `json:"dryRun"`
}

type manualMatchRequest struct {
	TeamA string `json:"teamA"`
	TeamB string `json:"teamB"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Venue string `json:"venue"`
}

type scoreRequest struct {
	TeamA json.RawMessage `json:"teamA"`
	TeamB json.RawMessage `json:"teamB"`
	// Winner settles a tie when the sport needs one. Ignored for live updates.
	Winner string `json:"winner,omitempty"`
}

// score accepts numbers or numeric strings. Anything else, including fractions and
// missing sides, is an invalid score rather than a malformed request.
func (req scoreRequest) score() (matchdomain.Score, error) {
	return matchdomain.ParseScore(rawPoints(req.TeamA), rawPoints(req.TeamB))
}

func rawPoints(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func (h *MatchHandlers) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	filter := matchdb.ListFilter{
		Status: r.URL.Query().Get("status"),
		Team:   r.URL.Query().Get("team"),
	}
	matches, err := h.service.ListMatches(r.Context(), chi.URLParam(r, "tournamentID"), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, matches)
}

func (h *MatchHandlers) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMatch(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "matchID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *MatchHandlers) HandleGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.GenerateSchedule(r.Context(), matchservice.GenerateScheduleRequest{
		TournamentID: chi.URLParam(r, "tournamentID"),
		StartDate:    req.StartDate,
		DryRun:       req.DryRun,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.DryRun {
		status = http.StatusOK
	}
	httpjson.Write(w, status, res)
}

func (h *MatchHandlers) HandleScheduleMatch(w http.ResponseWriter, r *http.Request) {
	var req manualMatchRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.service.ScheduleMatch(r.Context(), matchservice.ScheduleMatchRequest{
		TournamentID: chi.URLParam(r, "tournamentID"),
		TeamA:        req.TeamA,
		TeamB:        req.TeamB,
		Date:         req.Date,
		Time:         req.Time,
		Venue:        req.Venue,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, m)
}

func (h *MatchHandlers) HandleStartMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.StartMatch(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "matchID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *MatchHandlers) HandleUpdateLiveScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	score, err := req.score()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	m, err := h.service.UpdateLiveScore(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "matchID"), score)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *MatchHandlers) HandleCompleteMatch(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	score, err := req.score()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	m, err := h.service.CompleteMatch(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "matchID"), score, req.Winner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *MatchHandlers) HandleEndMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.EndMatch(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "matchID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *MatchHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Standings(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, table)
}

// HandleStandingsChart plots points, or goals scored with ?metric=goals.
func (h *MatchHandlers) HandleStandingsChart(w http.ResponseWriter, r *http.Request) {
	metric, err := matchservice.ParseChartMetric(r.URL.Query().Get("metric"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := h.service.StandingsChart(r.Context(), chi.URLParam(r, "tournamentID"), metric)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *MatchHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, summary)
}

func (h *MatchHandlers) HandleExportFixtures(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	data, err := h.service.ExportFixtures(r.Context(), tournamentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-fixtures.xlsx"`, tournamentID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleImportFixtures takes the workbook as the raw request body.
func (h *MatchHandlers) HandleImportFixtures(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWorkbookSize))
	if err != nil {
		httpjson.Error(w, http.StatusRequestEntityTooLarge, "workbook too large")
		return
	}
	if len(data) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "request body is empty")
		return
	}

	matches, err := h.service.ImportFixtures(r.Context(), chi.URLParam(r, "tournamentID"), data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, matches)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, matchservice.ErrUnknownTournament),
		errors.Is(err, matchservice.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, matchdomain.ErrInvalidTransition),
		errors.Is(err, matchservice.ErrScheduleExists):
		return http.StatusConflict
	case errors.Is(err, matchdomain.ErrInvalidScore),
		errors.Is(err, matchdomain.ErrMissingScore),
		errors.Is(err, matchdomain.ErrWinnerRequired),
		errors.Is(err, matchdomain.ErrDuplicateTeamPairing),
		errors.Is(err, matchdomain.ErrIncompleteMatch),
		errors.Is(err, matchdomain.ErrInvalidKickoffTime),
		errors.Is(err, matchdomain.ErrInvalidState),
		errors.Is(err, matchdomain.ErrNoVenues),
		errors.Is(err, matchdomain.ErrInvalidDayIncrement),
		errors.Is(err, matchtime.ErrUnrecognizedDate),
		errors.Is(err, matchfixtures.ErrEmptyWorkbook),
		errors.Is(err, matchfixtures.ErrMissingColumn),
		errors.Is(err, matchservice.ErrInvalidFixtureRow):
		return http.StatusUnprocessableEntity
	case matchservice.IsDomainError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *MatchHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Match request failed",
			observability.CorrelationAttr(r.Context()),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpjson.Error(w, status, "internal error")
		return
	}
	httpjson.Error(w, status, err.Error())
}
