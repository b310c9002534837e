package matchservice

import (
	"context"
	"fmt"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchfixtures "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/fixtures"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/uptrace/bun"
)

// GetMatch returns a single match of the tournament.
func (s *MatchService) GetMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "GetMatch", matchID, func(ctx context.Context) (results.OperationResult[*matchdomain.View, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*matchdomain.View, error], error) {
			m, err := s.loadMatch(ctx, db, tournamentID, matchID)
			if err != nil {
				return failureOr[*matchdomain.View](err)
			}
			v := m.View()
			return results.SuccessResult[*matchdomain.View, error](&v), nil
		})
	})
	return unwrap(result, err)
}

// ListMatches returns the tournament's matches in schedule order.
func (s *MatchService) ListMatches(ctx context.Context, tournamentID string, filter matchdb.ListFilter) ([]matchdomain.View, error) {
	result, err := withTelemetry(s, ctx, "ListMatches", tournamentID, func(ctx context.Context) (results.OperationResult[[]matchdomain.View, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]matchdomain.View, error], error) {
			if filter.Status != "" && !matchdomain.Status(filter.Status).IsValid() {
				return failureOr[[]matchdomain.View](fmt.Errorf("%w: unknown status %q", matchdomain.ErrInvalidState, filter.Status))
			}
			matches, err := s.tournamentMatches(ctx, db, tournamentID, filter)
			if err != nil {
				return failureOr[[]matchdomain.View](err)
			}
			return results.SuccessResult[[]matchdomain.View, error](views(matches)), nil
		})
	})
	return unwrap(result, err)
}

// Standings computes the league table from completed matches.
func (s *MatchService) Standings(ctx context.Context, tournamentID string) ([]matchdomain.StandingRow, error) {
	result, err := withTelemetry(s, ctx, "Standings", tournamentID, func(ctx context.Context) (results.OperationResult[[]matchdomain.StandingRow, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]matchdomain.StandingRow, error], error) {
			matches, err := s.tournamentMatches(ctx, db, tournamentID, matchdb.ListFilter{Status: string(matchdomain.StatusCompleted)})
			if err != nil {
				return failureOr[[]matchdomain.StandingRow](err)
			}
			teams, err := s.roster.ActiveTeamNames(ctx, tournamentID)
			if err != nil {
				return results.OperationResult[[]matchdomain.StandingRow, error]{}, fmt.Errorf("failed to list teams: %w", err)
			}
			return results.SuccessResult[[]matchdomain.StandingRow, error](matchdomain.ComputeStandings(teams, matches)), nil
		})
	})
	return unwrap(result, err)
}

// StandingsChart renders the table as a PNG bar chart of points or goals scored.
func (s *MatchService) StandingsChart(ctx context.Context, tournamentID string, metric ChartMetric) ([]byte, error) {
	t, err := s.tournament(tournamentID)
	if err != nil {
		return nil, err
	}
	if metric == "" {
		metric = ChartPoints
	}
	if _, err := ParseChartMetric(string(metric)); err != nil {
		return nil, err
	}
	table, err := s.Standings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	title := t.Name
	if metric == ChartGoals {
		title += " - goals scored"
	}
	return GenerateStandingsChart(title, table, metric, DefaultPalette)
}

// Summary gathers the dashboard counts of teams, players and matches. Upcoming
// matches are those still scheduled; NextMatch is the one kicking off first.
func (s *MatchService) Summary(ctx context.Context, tournamentID string) (*Summary, error) {
	result, err := withTelemetry(s, ctx, "Summary", tournamentID, func(ctx context.Context) (results.OperationResult[*Summary, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*Summary, error], error) {
			matches, err := s.tournamentMatches(ctx, db, tournamentID, matchdb.ListFilter{})
			if err != nil {
				return failureOr[*Summary](err)
			}
			counts, err := s.roster.Headcount(ctx, tournamentID)
			if err != nil {
				return results.OperationResult[*Summary, error]{}, fmt.Errorf("failed to count teams: %w", err)
			}

			summary := &Summary{
				TournamentID:      tournamentID,
				TotalTeams:        counts.Teams,
				ActiveTeams:       counts.ActiveTeams,
				PlayersRegistered: counts.Players,
				MatchesScheduled:  len(matches),
			}
			var next *matchdomain.Match
			for i, m := range matches {
				switch m.Status() {
				case matchdomain.StatusScheduled:
					summary.UpcomingMatches++
					if next == nil || m.KickoffAt(nil).Before(next.KickoffAt(nil)) {
						next = &matches[i]
					}
				case matchdomain.StatusInProgress:
					summary.MatchesLive++
				case matchdomain.StatusCompleted:
					summary.MatchesCompleted++
				}
			}
			if next != nil {
				v := next.View()
				summary.NextMatch = &v
			}
			return results.SuccessResult[*Summary, error](summary), nil
		})
	})
	return unwrap(result, err)
}

// ExportFixtures renders the tournament's fixtures as an XLSX workbook.
func (s *MatchService) ExportFixtures(ctx context.Context, tournamentID string) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "ExportFixtures", tournamentID, func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
			matches, err := s.tournamentMatches(ctx, db, tournamentID, matchdb.ListFilter{})
			if err != nil {
				return failureOr[[]byte](err)
			}
			data, err := matchfixtures.Export(matches)
			if err != nil {
				return results.OperationResult[[]byte, error]{}, err
			}
			return results.SuccessResult[[]byte, error](data), nil
		})
	})
	return unwrap(result, err)
}

// tournamentMatches loads and decodes a tournament's matches in schedule order.
func (s *MatchService) tournamentMatches(ctx context.Context, db bun.IDB, tournamentID string, filter matchdb.ListFilter) ([]matchdomain.Match, error) {
	if _, err := s.tournament(tournamentID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByTournament(ctx, db, tournamentID, filter)
	if err != nil {
		return nil, err
	}
	matches := make([]matchdomain.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("stored match %s is corrupt: %v", row.ID, err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}
