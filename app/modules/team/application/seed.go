package teamservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	"github.com/brianvoe/gofakeit/v7"
)

// Departments offered on the registration form.
var Departments = []string{"Engineering", "Medicine", "Science", "Arts", "Commerce", "Pharmacy"}

// SampleTeams returns the demonstration squads for the two default tournaments.
func SampleTeams(tournamentID string) []teamdomain.Entry {
	entry := func(name, captain, email string, players int) teamdomain.Entry {
		return teamdomain.Entry{
			TournamentID: tournamentID,
			Name:         name,
			Captain:      captain,
			ContactEmail: email,
			Department:   strings.Fields(name)[0],
			PlayerCount:  players,
		}
	}
	switch tournamentID {
	case "asl":
		return []teamdomain.Entry{
			entry("Engineering Tigers", "John Davis", "john@example.com", 18),
			entry("Medicine United", "Sarah Wilson", "sarah@example.com", 16),
			entry("Commerce Titans", "Mike Johnson", "mike@example.com", 15),
			entry("Pharmacy Phoenix", "Emily Brown", "emily@example.com", 17),
		}
	case "apl":
		return []teamdomain.Entry{
			entry("Science Strikers", "David Miller", "david@example.com", 14),
			entry("Arts Avengers", "Jessica Lee", "jessica@example.com", 13),
		}
	}
	return nil
}

// FakeEntries generates n plausible admin entries for load and demo data.
func FakeEntries(faker *gofakeit.Faker, tournamentID string, n int) []teamdomain.Entry {
	out := make([]teamdomain.Entry, 0, n)
	for i := 0; i < n; i++ {
		dept := faker.RandomString(Departments)
		out = append(out, teamdomain.Entry{
			TournamentID: tournamentID,
			Name:         fmt.Sprintf("%s %s %d", dept, faker.Animal(), faker.Number(1, 999)),
			Captain:      faker.Name(),
			ContactEmail: faker.Email(),
			Department:   dept,
			PlayerCount:  faker.Number(teamdomain.MinRosterSize, 22),
		})
	}
	return out
}

// Seed adds the sample squads plus extra generated ones. Names already taken are skipped.
func Seed(ctx context.Context, svc Service, logger *slog.Logger, faker *gofakeit.Faker, tournamentID string, extra int) ([]teamdomain.Team, error) {
	entries := append(SampleTeams(tournamentID), FakeEntries(faker, tournamentID, extra)...)

	var added []teamdomain.Team
	for _, e := range entries {
		team, err := svc.AddTeam(ctx, e)
		if errors.Is(err, ErrTeamExists) {
			logger.InfoContext(ctx, "Seed team already present", slog.String("team", e.Name))
			continue
		}
		if err != nil {
			return added, fmt.Errorf("failed to seed team %q: %w", e.Name, err)
		}
		added = append(added, *team)
	}
	return added, nil
}

type samplePlayer struct {
	team     string
	name     string
	position teamdomain.Position
	stats    teamdomain.PlayerStats
}

var samplePlayers = map[string][]samplePlayer{
	"asl": {
		{"Engineering Tigers", "Alex Johnson", teamdomain.PositionForward, teamdomain.PlayerStats{Goals: 7, Assists: 4, YellowCards: 1}},
		{"Medicine United", "Sam Williams", teamdomain.PositionMidfielder, teamdomain.PlayerStats{Goals: 3, Assists: 8}},
		{"Commerce Titans", "Casey Brown", teamdomain.PositionForward, teamdomain.PlayerStats{Goals: 5, Assists: 3, YellowCards: 2}},
		{"Pharmacy Phoenix", "Riley Martinez", teamdomain.PositionMidfielder, teamdomain.PlayerStats{Goals: 2, Assists: 5}},
	},
	"apl": {
		{"Science Strikers", "Jamie Taylor", teamdomain.PositionDefender, teamdomain.PlayerStats{Goals: 1, Assists: 2, YellowCards: 3}},
		{"Arts Avengers", "Jordan Smith", teamdomain.PositionGoalkeeper, teamdomain.PlayerStats{RedCards: 1}},
	},
}

// SeedPlayers adds the sample players to whichever sample teams exist. Players already
// on their team are skipped.
func SeedPlayers(ctx context.Context, svc Service, logger *slog.Logger, tournamentID string) ([]teamdomain.Player, error) {
	teams, err := svc.ListTeams(ctx, tournamentID, "")
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(teams))
	for _, t := range teams {
		byName[strings.ToLower(t.Name)] = t.ID
	}

	var added []teamdomain.Player
	for _, sp := range samplePlayers[tournamentID] {
		teamID, ok := byName[strings.ToLower(sp.team)]
		if !ok {
			logger.InfoContext(ctx, "Seed player skipped, team missing", slog.String("team", sp.team))
			continue
		}
		squad, err := svc.ListPlayers(ctx, tournamentID, PlayerFilter{TeamID: teamID})
		if err != nil {
			return added, err
		}
		if slices.ContainsFunc(squad, func(p teamdomain.Player) bool { return strings.EqualFold(p.Name, sp.name) }) {
			continue
		}
		player, err := svc.AddPlayer(ctx, teamdomain.PlayerEntry{
			TournamentID: tournamentID,
			TeamID:       teamID,
			Name:         sp.name,
			Position:     string(sp.position),
			Stats:        sp.stats,
		})
		if err != nil {
			return added, fmt.Errorf("failed to seed player %q: %w", sp.name, err)
		}
		added = append(added, *player)
	}
	return added, nil
}
