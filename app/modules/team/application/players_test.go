package teamservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	teamevents "github.com/ahalia-sports/tournament-admin/app/modules/team/events"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func (h harness) team(t *testing.T, tournamentID, name string) teamdomain.Team {
	t.Helper()
	team, err := h.svc.AddTeam(context.Background(), entry(tournamentID, name, 15))
	require.NoError(t, err)
	return *team
}

func playerEntry(team teamdomain.Team, name, position string, goals, assists int) teamdomain.PlayerEntry {
	return teamdomain.PlayerEntry{
		TournamentID: team.TournamentID,
		TeamID:       team.ID,
		Name:         name,
		Position:     position,
		Stats:        teamdomain.PlayerStats{Goals: goals, Assists: assists},
	}
}

func TestTeamService_AddPlayer(t *testing.T) {
	tests := []struct {
		name      string
		entry     func(tigers teamdomain.Team) teamdomain.PlayerEntry
		wantErr   error
		wantTrace []string
	}{
		{
			name:      "stored under its team",
			entry:     func(tigers teamdomain.Team) teamdomain.PlayerEntry { return playerEntry(tigers, "Alex Johnson", "Forward", 7, 4) },
			wantTrace: []string{"Insert"},
		},
		{
			name: "unknown team",
			entry: func(tigers teamdomain.Team) teamdomain.PlayerEntry {
				e := playerEntry(tigers, "Alex Johnson", "forward", 0, 0)
				e.TeamID = "missing"
				return e
			},
			wantErr: ErrTeamNotFound,
		},
		{
			name: "team from another tournament",
			entry: func(tigers teamdomain.Team) teamdomain.PlayerEntry {
				e := playerEntry(tigers, "Alex Johnson", "forward", 0, 0)
				e.TournamentID = "apl"
				return e
			},
			wantErr: ErrTeamNotFound,
		},
		{
			name:    "bad position",
			entry:   func(tigers teamdomain.Team) teamdomain.PlayerEntry { return playerEntry(tigers, "Alex Johnson", "striker", 0, 0) },
			wantErr: teamdomain.ErrInvalidPosition,
		},
		{
			name:    "negative stats",
			entry:   func(tigers teamdomain.Team) teamdomain.PlayerEntry { return playerEntry(tigers, "Alex Johnson", "forward", -2, 0) },
			wantErr: teamdomain.ErrInvalidPlayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tigers := h.team(t, "asl", "Engineering Tigers")
			h.pub.topics = nil

			player, err := h.svc.AddPlayer(context.Background(), tt.entry(tigers))
			assert.Equal(t, tt.wantTrace, h.players.Trace())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsDomainError(err))
				assert.Nil(t, player)
				assert.Empty(t, h.pub.topics)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Engineering Tigers", player.TeamName)
			assert.Equal(t, teamdomain.PositionForward, player.Position)
			assert.Equal(t, []string{teamevents.PlayerRegisteredV1, teamevents.PlayerRegisteredV1 + ".asl"}, h.pub.topics)
		})
	}
}

func TestTeamService_ListPlayersAndLeaders(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tigers := h.team(t, "asl", "Engineering Tigers")
	united := h.team(t, "asl", "Medicine United")

	for _, e := range []teamdomain.PlayerEntry{
		playerEntry(tigers, "Alex Johnson", "forward", 7, 4),
		playerEntry(united, "Sam Williams", "midfielder", 3, 8),
		playerEntry(united, "Casey Brown", "forward", 5, 3),
		playerEntry(tigers, "Jordan Smith", "goalkeeper", 0, 0),
	} {
		_, err := h.svc.AddPlayer(ctx, e)
		require.NoError(t, err)
	}

	forwards, err := h.svc.ListPlayers(ctx, "asl", PlayerFilter{Position: "Forward"})
	require.NoError(t, err)
	require.Len(t, forwards, 2)
	assert.Equal(t, "Alex Johnson", forwards[0].Name)
	assert.Equal(t, "Casey Brown", forwards[1].Name)

	squad, err := h.svc.ListPlayers(ctx, "asl", PlayerFilter{TeamID: united.ID})
	require.NoError(t, err)
	assert.Len(t, squad, 2)

	_, err = h.svc.ListPlayers(ctx, "asl", PlayerFilter{Position: "striker"})
	assert.ErrorIs(t, err, teamdomain.ErrInvalidPosition)
	_, err = h.svc.ListPlayers(ctx, "ipl", PlayerFilter{})
	assert.ErrorIs(t, err, ErrUnknownTournament)

	leaders, err := h.svc.Leaders(ctx, "asl", 2)
	require.NoError(t, err)
	require.Len(t, leaders.TopScorers, 2)
	assert.Equal(t, "Alex Johnson", leaders.TopScorers[0].Name)
	assert.Equal(t, "Casey Brown", leaders.TopScorers[1].Name)
	require.Len(t, leaders.TopAssists, 2)
	assert.Equal(t, "Sam Williams", leaders.TopAssists[0].Name)

	empty, err := h.svc.Leaders(ctx, "apl", 0)
	require.NoError(t, err)
	assert.Empty(t, empty.TopScorers)
}

func TestTeamService_PlayerStatsAndRemoval(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tigers := h.team(t, "asl", "Engineering Tigers")
	alex, err := h.svc.AddPlayer(ctx, playerEntry(tigers, "Alex Johnson", "forward", 1, 0))
	require.NoError(t, err)

	updated, err := h.svc.UpdatePlayerStats(ctx, "asl", alex.ID, teamdomain.PlayerStats{Goals: 2, Assists: 1, YellowCards: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stats.Goals)
	assert.Equal(t, 1, updated.Stats.YellowCards)
	assert.Contains(t, h.pub.topics, teamevents.PlayerUpdatedV1+".asl")

	_, err = h.svc.UpdatePlayerStats(ctx, "asl", alex.ID, teamdomain.PlayerStats{RedCards: -1})
	require.ErrorIs(t, err, teamdomain.ErrInvalidPlayer)
	got, err := h.svc.GetPlayer(ctx, "asl", alex.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.Goals, "rejected stats leave the player untouched")

	_, err = h.svc.GetPlayer(ctx, "apl", alex.ID)
	require.ErrorIs(t, err, ErrPlayerNotFound)

	require.NoError(t, h.svc.RemovePlayer(ctx, "asl", alex.ID))
	require.ErrorIs(t, h.svc.RemovePlayer(ctx, "asl", alex.ID), ErrPlayerNotFound)
	assert.Contains(t, h.pub.topics, teamevents.PlayerRemovedV1)
}

func TestTeamService_RemoveTeamTakesSquad(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tigers := h.team(t, "asl", "Engineering Tigers")
	united := h.team(t, "asl", "Medicine United")
	_, err := h.svc.AddPlayer(ctx, playerEntry(tigers, "Alex Johnson", "forward", 7, 4))
	require.NoError(t, err)
	_, err = h.svc.AddPlayer(ctx, playerEntry(united, "Sam Williams", "midfielder", 3, 8))
	require.NoError(t, err)

	require.NoError(t, h.svc.RemoveTeam(ctx, "asl", tigers.ID))

	left, err := h.svc.ListPlayers(ctx, "asl", PlayerFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "Sam Williams", left[0].Name)

	h.players.DeleteByTeamFunc = func(context.Context, bun.IDB, string, string) (int, error) {
		return 0, errors.New("connection refused")
	}
	err = h.svc.RemoveTeam(ctx, "asl", united.ID)
	require.Error(t, err)
	assert.False(t, IsDomainError(err))
	_, err = h.svc.GetTeam(ctx, "asl", united.ID)
	assert.NoError(t, err, "team stays when its squad could not be removed")
}

func TestTeamService_Headcount(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tigers := h.team(t, "asl", "Engineering Tigers")
	_, err := h.svc.Register(ctx, registration("Medicine United"))
	require.NoError(t, err)
	_, err = h.svc.AddPlayer(ctx, playerEntry(tigers, "Alex Johnson", "forward", 7, 4))
	require.NoError(t, err)

	hc, err := h.svc.Headcount(ctx, "asl")
	require.NoError(t, err)
	assert.Equal(t, teamdomain.Headcount{Teams: 2, ActiveTeams: 1, Players: 1}, hc)

	_, err = h.svc.Headcount(ctx, "ipl")
	assert.ErrorIs(t, err, ErrUnknownTournament)

	h.players.CountFunc = func(context.Context, bun.IDB, string) (int, error) {
		return 0, errors.New("connection refused")
	}
	_, err = h.svc.Headcount(ctx, "asl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Headcount")
}

func TestSeedPlayers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := Seed(ctx, h.svc, logger, gofakeit.New(7), "asl", 0)
	require.NoError(t, err)
	require.NoError(t, h.svc.RemoveTeam(ctx, "asl", mustTeamID(t, h, "asl", "Pharmacy Phoenix")))

	added, err := SeedPlayers(ctx, h.svc, logger, "asl")
	require.NoError(t, err)
	assert.Len(t, added, 3, "players whose team is missing are skipped")

	again, err := SeedPlayers(ctx, h.svc, logger, "asl")
	require.NoError(t, err)
	assert.Empty(t, again)

	leaders, err := h.svc.Leaders(ctx, "asl", 1)
	require.NoError(t, err)
	require.Len(t, leaders.TopScorers, 1)
	assert.Equal(t, "Alex Johnson", leaders.TopScorers[0].Name)
}

func mustTeamID(t *testing.T, h harness, tournamentID, name string) string {
	t.Helper()
	row, err := h.repo.mem.GetByName(context.Background(), nil, tournamentID, name)
	require.NoError(t, err)
	return row.ID
}
