package teamhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	teamservice "github.com/ahalia-sports/tournament-admin/app/modules/team/application"
	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminHeader = "X-Test-Admin"

func testRequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(adminHeader) == "" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newTestRouter(svc *FakeService) http.Handler {
	h := NewTeamHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/api/tournaments/{tournamentID}", func(r chi.Router) {
		h.Routes(r, testRequireAdmin)
	})
	return r
}

func do(t *testing.T, handler http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if admin {
		req.Header.Set(adminHeader, "1")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_AdminGuard(t *testing.T) {
	mutations := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/tournaments/asl/teams", `{"name":"Engineering Tigers"}`},
		{http.MethodPatch, "/api/tournaments/asl/teams/t-1/roster", `{"players":15}`},
		{http.MethodPatch, "/api/tournaments/asl/teams/t-1/status", `{"status":"active"}`},
		{http.MethodDelete, "/api/tournaments/asl/teams/t-1", ""},
	}
	for _, m := range mutations {
		t.Run(m.method+" "+m.path, func(t *testing.T) {
			svc := &FakeService{}
			rec := do(t, newTestRouter(svc), m.method, m.path, m.body, false)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Empty(t, svc.Trace())
		})
	}
}

func TestHandleRegister(t *testing.T) {
	body := `{
		"teamName": "Engineering Tigers",
		"department": "Engineering",
		"captainName": "John Davis",
		"captainEmail": "john@example.com",
		"captainPhone": "9876543210",
		"tournament": "apl"
	}`

	var got teamdomain.Registration
	svc := &FakeService{
		RegisterFunc: func(_ context.Context, reg teamdomain.Registration) (*teamdomain.Team, error) {
			got = reg
			return &teamdomain.Team{ID: "t-1", TournamentID: reg.TournamentID, Name: reg.Name, Status: teamdomain.StatusPending}, nil
		},
	}

	rec := do(t, newTestRouter(svc), http.MethodPost, "/api/tournaments/asl/teams/register", body, false)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "asl", got.TournamentID, "path wins over body")
	assert.Equal(t, "John Davis", got.Captain)

	var team teamdomain.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &team))
	assert.Equal(t, teamdomain.StatusPending, team.Status)
}

func TestHandleListTeams_StatusFilter(t *testing.T) {
	var gotStatus teamdomain.Status
	svc := &FakeService{
		ListTeamsFunc: func(_ context.Context, _ string, status teamdomain.Status) ([]teamdomain.Team, error) {
			gotStatus = status
			return []teamdomain.Team{{ID: "t-1", Name: "Engineering Tigers"}}, nil
		},
	}

	rec := do(t, newTestRouter(svc), http.MethodGet, "/api/tournaments/asl/teams?status=pending", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, teamdomain.StatusPending, gotStatus)
	assert.Contains(t, rec.Body.String(), "Engineering Tigers")
}

func TestHandleSetStatus(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantTrace []string
	}{
		{name: "approve", body: `{"status":" Active "}`, wantCode: http.StatusOK, wantTrace: []string{"SetStatus"}},
		{name: "unknown status", body: `{"status":"retired"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "unknown field", body: `{"state":"active"}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			rec := do(t, newTestRouter(svc), http.MethodPatch, "/api/tournaments/asl/teams/t-1/status", tt.body, true)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantTrace, svc.Trace())
		})
	}
}

func TestHandleRemoveTeam(t *testing.T) {
	svc := &FakeService{}
	rec := do(t, newTestRouter(svc), http.MethodDelete, "/api/tournaments/asl/teams/t-1", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"RemoveTeam"}, svc.Trace())
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown tournament", fmt.Errorf("%w: %q", teamservice.ErrUnknownTournament, "ipl"), http.StatusNotFound},
		{"missing team", teamservice.ErrTeamNotFound, http.StatusNotFound},
		{"name taken", teamservice.ErrTeamExists, http.StatusConflict},
		{"short roster", teamdomain.ErrRosterTooSmall, http.StatusUnprocessableEntity},
		{"invalid team", teamdomain.ErrInvalidTeam, http.StatusUnprocessableEntity},
		{"storage", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{
				AddTeamFunc: func(context.Context, teamdomain.Entry) (*teamdomain.Team, error) { return nil, tt.err },
			}
			rec := do(t, newTestRouter(svc), http.MethodPost, "/api/tournaments/asl/teams",
				`{"name":"Arts Avengers","captain":"Jessica Lee","contactEmail":"jessica@example.com","players":13}`, true)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}
