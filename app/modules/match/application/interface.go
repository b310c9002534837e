package matchservice

import (
	"context"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
)

// Service defines the contract for match operations.
type Service interface {
	// --- SCHEDULING ---

	// GenerateSchedule builds the round robin for a tournament's active teams.
	GenerateSchedule(ctx context.Context, req GenerateScheduleRequest) (*ScheduleResult, error)

	// ScheduleMatch adds a single manually entered fixture.
	ScheduleMatch(ctx context.Context, req ScheduleMatchRequest) (*matchdomain.View, error)

	// ImportFixtures schedules every row of an XLSX fixture sheet, all or nothing.
	ImportFixtures(ctx context.Context, tournamentID string, data []byte) ([]matchdomain.View, error)

	// --- LIFECYCLE ---

	StartMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error)
	UpdateLiveScore(ctx context.Context, tournamentID, matchID string, score matchdomain.Score) (*matchdomain.View, error)
	CompleteMatch(ctx context.Context, tournamentID, matchID string, score matchdomain.Score, explicitWinner string) (*matchdomain.View, error)
	EndMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error)

	// --- READS ---

	GetMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error)
	ListMatches(ctx context.Context, tournamentID string, filter matchdb.ListFilter) ([]matchdomain.View, error)
	Standings(ctx context.Context, tournamentID string) ([]matchdomain.StandingRow, error)

	// StandingsChart renders the table as a PNG bar chart of points or goals scored.
	StandingsChart(ctx context.Context, tournamentID string, metric ChartMetric) ([]byte, error)

	// Summary gathers the dashboard counts of teams, players and matches.
	Summary(ctx context.Context, tournamentID string) (*Summary, error)

	// ExportFixtures renders the tournament's fixtures as an XLSX workbook.
	ExportFixtures(ctx context.Context, tournamentID string) ([]byte, error)

	// Tournament returns the configured tournament.
	Tournament(tournamentID string) (matchdomain.Tournament, bool)
}
