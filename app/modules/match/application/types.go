package matchservice

import (
	"context"
	"time"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
)

// GenerateScheduleRequest asks for a round robin starting on StartDate, which may be
// YYYY-MM-DD or a phrase like "next monday". DryRun previews without storing.
type GenerateScheduleRequest struct {
	TournamentID string `json:"tournamentId"`
	StartDate    string `json:"startDate"`
	DryRun       bool   `json:"dryRun"`
}

// ScheduleResult is the outcome of GenerateSchedule.
type ScheduleResult struct {
	TournamentID string             `json:"tournamentId"`
	StartDate    string             `json:"startDate"`
	DryRun       bool               `json:"dryRun"`
	Matches      []matchdomain.View `json:"matches"`
}

// ScheduleMatchRequest is a manually entered fixture.
type ScheduleMatchRequest struct {
	TournamentID string `json:"tournamentId"`
	TeamA        string `json:"teamA"`
	TeamB        string `json:"teamB"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Venue        string `json:"venue"`
}

// TeamRoster lists the teams taking part in a tournament, in registration order.
type TeamRoster interface {
	ActiveTeamNames(ctx context.Context, tournamentID string) ([]string, error)
	Headcount(ctx context.Context, tournamentID string) (teamdomain.Headcount, error)
}

// Summary is the admin dashboard overview of a tournament.
type Summary struct {
	TournamentID      string            `json:"tournamentId"`
	TotalTeams        int               `json:"totalTeams"`
	ActiveTeams       int               `json:"activeTeams"`
	PlayersRegistered int               `json:"playersRegistered"`
	MatchesScheduled  int               `json:"matchesScheduled"`
	MatchesLive       int               `json:"matchesLive"`
	MatchesCompleted  int               `json:"matchesCompleted"`
	UpcomingMatches   int               `json:"upcomingMatches"`
	NextMatch         *matchdomain.View `json:"nextMatch,omitempty"`
}

// KickoffScheduler arranges a kickoff notification for a stored fixture.
type KickoffScheduler interface {
	ScheduleKickoff(ctx context.Context, tournamentID, matchID string, kickoffAt time.Time) error
}

func views(matches []matchdomain.Match) []matchdomain.View {
	out := make([]matchdomain.View, len(matches))
	for i, m := range matches {
		out[i] = m.View()
	}
	return out
}
