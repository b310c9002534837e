package teamservice

import (
	"context"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
)

// Service defines the contract for the team registry.
type Service interface {
	// Register records a public sign-up as a pending team.
	Register(ctx context.Context, reg teamdomain.Registration) (*teamdomain.Team, error)

	// AddTeam lists an admin-entered team as active.
	AddTeam(ctx context.Context, entry teamdomain.Entry) (*teamdomain.Team, error)

	UpdateRosterSize(ctx context.Context, tournamentID, teamID string, players int) (*teamdomain.Team, error)
	SetStatus(ctx context.Context, tournamentID, teamID string, status teamdomain.Status) (*teamdomain.Team, error)
	RemoveTeam(ctx context.Context, tournamentID, teamID string) error

	GetTeam(ctx context.Context, tournamentID, teamID string) (*teamdomain.Team, error)
	ListTeams(ctx context.Context, tournamentID string, status teamdomain.Status) ([]teamdomain.Team, error)

	// ActiveTeamNames lists the tournament's active teams in registration order.
	ActiveTeamNames(ctx context.Context, tournamentID string) ([]string, error)

	// AddPlayer registers a player in one of the tournament's teams.
	AddPlayer(ctx context.Context, entry teamdomain.PlayerEntry) (*teamdomain.Player, error)
	UpdatePlayerStats(ctx context.Context, tournamentID, playerID string, stats teamdomain.PlayerStats) (*teamdomain.Player, error)
	RemovePlayer(ctx context.Context, tournamentID, playerID string) error

	GetPlayer(ctx context.Context, tournamentID, playerID string) (*teamdomain.Player, error)
	ListPlayers(ctx context.Context, tournamentID string, filter PlayerFilter) ([]teamdomain.Player, error)
	Leaders(ctx context.Context, tournamentID string, limit int) (*teamdomain.Leaders, error)

	// Headcount counts the tournament's teams and players.
	Headcount(ctx context.Context, tournamentID string) (teamdomain.Headcount, error)
}
