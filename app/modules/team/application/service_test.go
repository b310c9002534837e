package teamservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	teamevents "github.com/ahalia-sports/tournament-admin/app/modules/team/events"
	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type harness struct {
	svc     *TeamService
	repo    *FakeTeamRepo
	players *FakePlayerRepo
	pub     *recordingPublisher
}

func newHarness(t *testing.T) harness {
	t.Helper()
	repo := NewFakeTeamRepo()
	players := NewFakePlayerRepo()
	pub := &recordingPublisher{}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC))
	svc := NewTeamService(
		repo,
		players,
		[]string{"asl", "apl"},
		pub,
		clock,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("team-%d", seq)
	}
	return harness{svc: svc, repo: repo, players: players, pub: pub}
}

func registration(name string) teamdomain.Registration {
	return teamdomain.Registration{
		TournamentID: "asl",
		Name:         name,
		Department:   "Engineering",
		Captain:      "John Davis",
		ContactEmail: "john@example.com",
		Phone:        "9876543210",
	}
}

func entry(tournamentID, name string, players int) teamdomain.Entry {
	return teamdomain.Entry{
		TournamentID: tournamentID,
		Name:         name,
		Captain:      "Sarah Wilson",
		ContactEmail: "sarah@example.com",
		PlayerCount:  players,
	}
}

func TestTeamService_Register(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(h harness)
		reg       teamdomain.Registration
		wantErr   error
		wantTrace []string
	}{
		{
			name:      "pending team stored",
			reg:       registration("Engineering Tigers"),
			wantTrace: []string{"GetByName", "Insert"},
		},
		{
			name:    "invalid details never reach storage",
			reg:     teamdomain.Registration{TournamentID: "asl", Name: "ET"},
			wantErr: teamdomain.ErrInvalidTeam,
		},
		{
			name: "unknown tournament",
			reg: func() teamdomain.Registration {
				r := registration("Engineering Tigers")
				r.TournamentID = "ipl"
				return r
			}(),
			wantErr: ErrUnknownTournament,
		},
		{
			name: "name taken ignoring case",
			setup: func(h harness) {
				_, err := h.svc.AddTeam(context.Background(), entry("asl", "Engineering Tigers", 15))
				require.NoError(t, err)
			},
			reg:       registration("engineering tigers"),
			wantErr:   ErrTeamExists,
			wantTrace: []string{"GetByName", "Insert", "GetByName"},
		},
		{
			name: "insert race reported as taken",
			setup: func(h harness) {
				h.repo.InsertFunc = func(context.Context, bun.IDB, *teamdb.Team) error { return teamdb.ErrDuplicateName }
			},
			reg:       registration("Engineering Tigers"),
			wantErr:   ErrTeamExists,
			wantTrace: []string{"GetByName", "Insert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.setup != nil {
				tt.setup(h)
			}

			team, err := h.svc.Register(context.Background(), tt.reg)
			assert.Equal(t, tt.wantTrace, h.repo.Trace())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, team)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, teamdomain.StatusPending, team.Status)
			assert.Equal(t, "team-1", team.ID)
			assert.Equal(t, []string{teamevents.TeamRegisteredV1, teamevents.TeamRegisteredV1 + ".asl"}, h.pub.topics)
		})
	}
}

func TestTeamService_AddTeam_RosterMinimum(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.AddTeam(context.Background(), entry("apl", "Arts Avengers", 10))
	require.ErrorIs(t, err, teamdomain.ErrRosterTooSmall)
	assert.Empty(t, h.repo.Trace())

	team, err := h.svc.AddTeam(context.Background(), entry("apl", "Arts Avengers", 11))
	require.NoError(t, err)
	assert.Equal(t, teamdomain.StatusActive, team.Status)
}

func TestTeamService_Administration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pending, err := h.svc.Register(ctx, registration("Medicine United"))
	require.NoError(t, err)
	_, err = h.svc.AddTeam(ctx, entry("asl", "Engineering Tigers", 18))
	require.NoError(t, err)

	names, err := h.svc.ActiveTeamNames(ctx, "asl")
	require.NoError(t, err)
	assert.Equal(t, []string{"Engineering Tigers"}, names)

	approved, err := h.svc.SetStatus(ctx, "asl", pending.ID, teamdomain.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, teamdomain.StatusActive, approved.Status)

	names, err = h.svc.ActiveTeamNames(ctx, "asl")
	require.NoError(t, err)
	assert.Equal(t, []string{"Medicine United", "Engineering Tigers"}, names, "registration order")

	_, err = h.svc.UpdateRosterSize(ctx, "asl", pending.ID, 9)
	require.ErrorIs(t, err, teamdomain.ErrRosterTooSmall)
	resized, err := h.svc.UpdateRosterSize(ctx, "asl", pending.ID, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, resized.PlayerCount)

	_, err = h.svc.SetStatus(ctx, "asl", pending.ID, "retired")
	require.ErrorIs(t, err, teamdomain.ErrInvalidStatus)

	_, err = h.svc.GetTeam(ctx, "apl", pending.ID)
	require.ErrorIs(t, err, ErrTeamNotFound, "teams are scoped to their tournament")

	require.NoError(t, h.svc.RemoveTeam(ctx, "asl", pending.ID))
	require.ErrorIs(t, h.svc.RemoveTeam(ctx, "asl", pending.ID), ErrTeamNotFound)

	all, err := h.svc.ListTeams(ctx, "asl", "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Engineering Tigers", all[0].Name)

	_, err = h.svc.ListTeams(ctx, "asl", "retired")
	assert.ErrorIs(t, err, teamdomain.ErrInvalidStatus)
	_, err = h.svc.ListTeams(ctx, "ipl", "")
	assert.ErrorIs(t, err, ErrUnknownTournament)

	assert.Contains(t, h.pub.topics, teamevents.TeamUpdatedV1)
	assert.Contains(t, h.pub.topics, teamevents.TeamRemovedV1+".asl")
}

func TestTeamService_StorageFailure(t *testing.T) {
	h := newHarness(t)
	h.repo.ListFunc = func(context.Context, bun.IDB, string, string) ([]*teamdb.Team, error) {
		return nil, errors.New("connection refused")
	}

	_, err := h.svc.ActiveTeamNames(context.Background(), "asl")
	require.Error(t, err)
	assert.False(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "ListTeams")
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	faker := gofakeit.New(42)

	added, err := Seed(ctx, h.svc, logger, faker, "asl", 3)
	require.NoError(t, err)
	assert.Len(t, added, 7)
	assert.Equal(t, "Engineering Tigers", added[0].Name)
	for _, team := range added {
		assert.GreaterOrEqual(t, team.PlayerCount, teamdomain.MinRosterSize)
	}

	again, err := Seed(ctx, h.svc, logger, gofakeit.New(42), "asl", 0)
	require.NoError(t, err)
	assert.Empty(t, again, "sample teams are not duplicated")
}
