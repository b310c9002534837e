package matchservice

import (
	"context"
	"errors"
	"fmt"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	matchfixtures "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/fixtures"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/uptrace/bun"
)

// ErrInvalidFixtureRow is returned when an imported row cannot be scheduled.
var ErrInvalidFixtureRow = errors.New("invalid fixture row")

// ImportFixtures schedules every row of an XLSX fixture sheet. Nothing is stored unless
// every row is valid.
func (s *MatchService) ImportFixtures(ctx context.Context, tournamentID string, data []byte) ([]matchdomain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := withTelemetry(s, ctx, "ImportFixtures", tournamentID, func(ctx context.Context) (results.OperationResult[[]matchdomain.View, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]matchdomain.View, error], error) {
			return s.importFixturesLogic(ctx, db, tournamentID, data)
		})
	})
	imported, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	t, _ := s.tournament(tournamentID)
	for _, v := range imported {
		s.publish(ctx, matchevents.MatchScheduledV1, tournamentID, &matchevents.MatchPayloadV1{
			TournamentID: tournamentID,
			Match:        v,
			OccurredAt:   s.now(),
		})
	}
	s.scheduleKickoffs(ctx, t, imported)
	return imported, nil
}

func (s *MatchService) importFixturesLogic(ctx context.Context, db bun.IDB, tournamentID string, data []byte) (results.OperationResult[[]matchdomain.View, error], error) {
	t, err := s.tournament(tournamentID)
	if err != nil {
		return failureOr[[]matchdomain.View](err)
	}

	parsed, err := matchfixtures.Import(data)
	if err != nil {
		if IsDomainError(err) {
			return failureOr[[]matchdomain.View](err)
		}
		return failureOr[[]matchdomain.View](fmt.Errorf("%w: %v", ErrInvalidFixtureRow, err))
	}

	matches := make([]matchdomain.Match, 0, len(parsed))
	for _, row := range parsed {
		date, err := row.ParseDate()
		if err != nil {
			return failureOr[[]matchdomain.View](fmt.Errorf("%w: %v", ErrInvalidFixtureRow, err))
		}
		m, err := s.buildManualMatch(t, row.TeamA, row.TeamB, date.Format(matchdomain.DateLayout), row.Time, row.Venue)
		if err != nil {
			return failureOr[[]matchdomain.View](fmt.Errorf("%w: row %d: %w", ErrInvalidFixtureRow, row.Line, err))
		}
		matches = append(matches, m)
	}

	if err := s.repo.InsertMany(ctx, db, rows(matches)); err != nil {
		return results.OperationResult[[]matchdomain.View, error]{}, err
	}
	return results.SuccessResult[[]matchdomain.View, error](views(matches)), nil
}
