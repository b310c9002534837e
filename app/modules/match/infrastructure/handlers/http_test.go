package matchhandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	matchservice "github.com/ahalia-sports/tournament-admin/app/modules/match/application"
	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	"github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/matchtime"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
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
	h := newTestHandlers(svc)
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
		{http.MethodPost, "/api/tournaments/asl/schedule", `{"startDate":"2025-03-01"}`},
		{http.MethodPost, "/api/tournaments/asl/matches", `{"teamA":"A","teamB":"B"}`},
		{http.MethodPost, "/api/tournaments/asl/matches/m-1/start", ""},
		{http.MethodPut, "/api/tournaments/asl/matches/m-1/score", `{"teamA":1,"teamB":0}`},
		{http.MethodPost, "/api/tournaments/asl/matches/m-1/complete", `{"teamA":1,"teamB":0}`},
		{http.MethodPost, "/api/tournaments/asl/matches/m-1/end", ""},
		{http.MethodPost, "/api/tournaments/asl/schedule/import", "PK"},
		{http.MethodGet, "/api/tournaments/asl/summary", ""},
	}
	for _, m := range mutations {
		t.Run(m.method+" "+m.path, func(t *testing.T) {
			svc := &FakeService{}
			rec := do(t, newTestRouter(svc), m.method, m.path, m.body, false)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Empty(t, svc.Trace())
		})
	}

	reads := []string{
		"/api/tournaments/asl/matches",
		"/api/tournaments/asl/matches/m-1",
		"/api/tournaments/asl/standings",
		"/api/tournaments/asl/standings/chart.png",
		"/api/tournaments/asl/schedule/export",
	}
	for _, path := range reads {
		t.Run("GET "+path, func(t *testing.T) {
			rec := do(t, newTestRouter(&FakeService{}), http.MethodGet, path, "", false)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestHandleListMatches_PassesFilter(t *testing.T) {
	var got matchdb.ListFilter
	svc := &FakeService{
		ListMatchesFunc: func(_ context.Context, tournamentID string, filter matchdb.ListFilter) ([]matchdomain.View, error) {
			assert.Equal(t, "apl", tournamentID)
			got = filter
			return []matchdomain.View{{ID: "m-1"}}, nil
		},
	}

	rec := do(t, newTestRouter(svc), http.MethodGet, "/api/tournaments/apl/matches?status=completed&team=Falcons", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, matchdb.ListFilter{Status: "completed", Team: "Falcons"}, got)

	var views []matchdomain.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 1)
}

func TestHandleGenerateSchedule(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "stored", body: `{"startDate":"next monday"}`, wantStatus: http.StatusCreated},
		{name: "dry run", body: `{"startDate":"2025-03-01","dryRun":true}`, wantStatus: http.StatusOK},
		{name: "malformed body", body: `{"startDate":`, wantStatus: http.StatusBadRequest},
		{name: "schedule exists", body: `{}`, err: matchservice.ErrScheduleExists, wantStatus: http.StatusConflict},
		{name: "bad date", body: `{"startDate":"xyzzy"}`, err: fmt.Errorf("%w: xyzzy", matchtime.ErrUnrecognizedDate), wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown tournament", body: `{}`, err: matchservice.ErrUnknownTournament, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.err != nil {
				svc.GenerateScheduleFunc = func(context.Context, matchservice.GenerateScheduleRequest) (*matchservice.ScheduleResult, error) {
					return nil, tt.err
				}
			}
			rec := do(t, newTestRouter(svc), http.MethodPost, "/api/tournaments/asl/schedule", tt.body, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleScores(t *testing.T) {
	t.Run("live score reaches the service", func(t *testing.T) {
		var got matchdomain.Score
		svc := &FakeService{
			UpdateLiveScoreFunc: func(_ context.Context, _, matchID string, score matchdomain.Score) (*matchdomain.View, error) {
				assert.Equal(t, "m-1", matchID)
				got = score
				return &matchdomain.View{ID: matchID, Score: &score}, nil
			},
		}
		rec := do(t, newTestRouter(svc), http.MethodPut, "/api/tournaments/asl/matches/m-1/score", `{"teamA":2,"teamB":1}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, matchdomain.Score{A: 2, B: 1}, got)
	})

	t.Run("numeric strings are accepted", func(t *testing.T) {
		var got matchdomain.Score
		svc := &FakeService{
			UpdateLiveScoreFunc: func(_ context.Context, _, matchID string, score matchdomain.Score) (*matchdomain.View, error) {
				got = score
				return &matchdomain.View{ID: matchID, Score: &score}, nil
			},
		}
		rec := do(t, newTestRouter(svc), http.MethodPut, "/api/tournaments/asl/matches/m-1/score", `{"teamA":"2","teamB":" 0 "}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, matchdomain.Score{A: 2, B: 0}, got)
	})

	t.Run("invalid score never reaches the service", func(t *testing.T) {
		svc := &FakeService{}
		rec := do(t, newTestRouter(svc), http.MethodPut, "/api/tournaments/asl/matches/m-1/score", `{"teamA":1.5,"teamB":"x"}`, true)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "not a whole number")
		assert.Empty(t, svc.Trace())
	})

	t.Run("complete forwards the explicit winner", func(t *testing.T) {
		var winner string
		svc := &FakeService{
			CompleteMatchFunc: func(_ context.Context, _, _ string, _ matchdomain.Score, w string) (*matchdomain.View, error) {
				winner = w
				return &matchdomain.View{}, nil
			},
		}
		rec := do(t, newTestRouter(svc), http.MethodPost, "/api/tournaments/apl/matches/m-1/complete", `{"teamA":150,"teamB":150,"winner":"Falcons"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Falcons", winner)
	})

	rejected := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "missing score", path: "score", body: `{"teamA":1}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "negative score", path: "complete", body: `{"teamA":-1,"teamB":0}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "fractional score", path: "score", body: `{"teamA":1.5,"teamB":0}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "non-numeric score", path: "complete", body: `{"teamA":"x","teamB":0}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "null score", path: "score", body: `{"teamA":null,"teamB":0}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "object score", path: "complete", body: `{"teamA":{},"teamB":0}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "not started", path: "score", body: `{"teamA":1,"teamB":0}`, err: &matchdomain.TransitionError{Op: "update the score of", From: matchdomain.StatusScheduled}, wantStatus: http.StatusConflict},
		{name: "draw needs winner", path: "complete", body: `{"teamA":0,"teamB":0}`, err: matchdomain.ErrWinnerRequired, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown match", path: "score", body: `{"teamA":1,"teamB":0}`, err: matchservice.ErrMatchNotFound, wantStatus: http.StatusNotFound},
		{name: "storage failure", path: "complete", body: `{"teamA":1,"teamB":0}`, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{
				UpdateLiveScoreFunc: func(context.Context, string, string, matchdomain.Score) (*matchdomain.View, error) {
					return nil, tt.err
				},
				CompleteMatchFunc: func(context.Context, string, string, matchdomain.Score, string) (*matchdomain.View, error) {
					return nil, tt.err
				},
			}
			method := http.MethodPost
			if tt.path == "score" {
				method = http.MethodPut
			}
			rec := do(t, newTestRouter(svc), method, "/api/tournaments/asl/matches/m-1/"+tt.path, tt.body, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "db down")
			}
		})
	}
}

func TestHandleEndMatch_MissingScore(t *testing.T) {
	svc := &FakeService{
		EndMatchFunc: func(context.Context, string, string) (*matchdomain.View, error) {
			return nil, matchdomain.ErrMissingScore
		},
	}
	rec := do(t, newTestRouter(svc), http.MethodPost, "/api/tournaments/asl/matches/m-1/end", "", true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleImportFixtures(t *testing.T) {
	var got []byte
	svc := &FakeService{
		ImportFixturesFunc: func(_ context.Context, _ string, data []byte) ([]matchdomain.View, error) {
			got = data
			return []matchdomain.View{{ID: "m-1"}}, nil
		},
	}
	router := newTestRouter(svc)

	rec := do(t, router, http.MethodPost, "/api/tournaments/asl/schedule/import", "workbook-bytes", true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, bytes.Equal([]byte("workbook-bytes"), got))

	rec = do(t, router, http.MethodPost, "/api/tournaments/asl/schedule/import", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExportFixtures_Headers(t *testing.T) {
	rec := do(t, newTestRouter(&FakeService{}), http.MethodGet, "/api/tournaments/asl/schedule/export", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "asl-fixtures.xlsx")
}

func TestHandleStandingsChart_Metric(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantMetric matchservice.ChartMetric
	}{
		{name: "defaults to points", query: "", wantStatus: http.StatusOK, wantMetric: matchservice.ChartPoints},
		{name: "goals", query: "?metric=goals", wantStatus: http.StatusOK, wantMetric: matchservice.ChartGoals},
		{name: "unknown metric", query: "?metric=assists", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got matchservice.ChartMetric
			svc := &FakeService{
				StandingsChartFunc: func(_ context.Context, _ string, metric matchservice.ChartMetric) ([]byte, error) {
					got = metric
					return []byte("\x89PNG"), nil
				},
			}
			rec := do(t, newTestRouter(svc), http.MethodGet, "/api/tournaments/asl/standings/chart.png"+tt.query, "", false)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, svc.Trace())
				return
			}
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantMetric, got)
		})
	}
}

func TestHandleSummary(t *testing.T) {
	svc := &FakeService{
		SummaryFunc: func(_ context.Context, tournamentID string) (*matchservice.Summary, error) {
			return &matchservice.Summary{
				TournamentID:      tournamentID,
				TotalTeams:        4,
				PlayersRegistered: 64,
				MatchesScheduled:  6,
				UpcomingMatches:   2,
			}, nil
		},
	}
	rec := do(t, newTestRouter(svc), http.MethodGet, "/api/tournaments/asl/summary", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "asl", got["tournamentId"])
	assert.EqualValues(t, 4, got["totalTeams"])
	assert.EqualValues(t, 64, got["playersRegistered"])
	assert.EqualValues(t, 6, got["matchesScheduled"])
	assert.EqualValues(t, 2, got["upcomingMatches"])
	assert.NotContains(t, got, "nextMatch")

	unknown := &FakeService{
		SummaryFunc: func(context.Context, string) (*matchservice.Summary, error) {
			return nil, fmt.Errorf("%w: %q", matchservice.ErrUnknownTournament, "ipl")
		},
	}
	rec = do(t, newTestRouter(unknown), http.MethodGet, "/api/tournaments/ipl/summary", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
