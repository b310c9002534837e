package matchservice

import (
	"context"
	"errors"
	"fmt"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/uptrace/bun"
)

type transitionFunc func(matchdomain.Match) (matchdomain.Match, error)

// StartMatch moves a scheduled match to in-progress.
func (s *MatchService) StartMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error) {
	return s.transition(ctx, "StartMatch", matchevents.MatchStartedV1, tournamentID, matchID, matchdomain.Start)
}

// UpdateLiveScore overwrites the live score of an in-progress match.
func (s *MatchService) UpdateLiveScore(ctx context.Context, tournamentID, matchID string, score matchdomain.Score) (*matchdomain.View, error) {
	return s.transition(ctx, "UpdateLiveScore", matchevents.ScoreUpdatedV1, tournamentID, matchID, func(m matchdomain.Match) (matchdomain.Match, error) {
		return matchdomain.UpdateLiveScore(m, score)
	})
}

// CompleteMatch records the final score from any state, subject to the tournament's
// draw policy.
func (s *MatchService) CompleteMatch(ctx context.Context, tournamentID, matchID string, score matchdomain.Score, explicitWinner string) (*matchdomain.View, error) {
	return s.transition(ctx, "CompleteMatch", matchevents.MatchCompletedV1, tournamentID, matchID, func(m matchdomain.Match) (matchdomain.Match, error) {
		return matchdomain.Complete(m, score, explicitWinner)
	})
}

// EndMatch completes a live match with its current score.
func (s *MatchService) EndMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error) {
	return s.transition(ctx, "EndMatch", matchevents.MatchCompletedV1, tournamentID, matchID, matchdomain.EndInProgress)
}

// transition loads a match, applies fn and the draw policy, stores the result and
// publishes topic. Rejected transitions leave the stored match untouched. The mutex
// covers this process; the row lock and status guard cover other replicas.
func (s *MatchService) transition(ctx context.Context, operationName, topic, tournamentID, matchID string, fn transitionFunc) (*matchdomain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := withTelemetry(s, ctx, operationName, matchID, func(ctx context.Context) (results.OperationResult[*matchdomain.View, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*matchdomain.View, error], error) {
			return s.transitionLogic(ctx, db, tournamentID, matchID, fn)
		})
	})
	v, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, topic, tournamentID, &matchevents.MatchPayloadV1{
		TournamentID: tournamentID,
		Match:        *v,
		OccurredAt:   s.now(),
	})
	return v, nil
}

func (s *MatchService) transitionLogic(ctx context.Context, db bun.IDB, tournamentID, matchID string, fn transitionFunc) (results.OperationResult[*matchdomain.View, error], error) {
	t, err := s.tournament(tournamentID)
	if err != nil {
		return failureOr[*matchdomain.View](err)
	}

	row, err := s.repo.GetForUpdate(ctx, db, matchID)
	m, err := matchFromRow(row, err, tournamentID, matchID)
	if err != nil {
		return failureOr[*matchdomain.View](err)
	}

	updated, err := fn(m)
	if err != nil {
		return failureOr[*matchdomain.View](err)
	}
	if err := t.DrawPolicy.Check(updated); err != nil {
		return failureOr[*matchdomain.View](err)
	}

	if err := s.repo.UpdateFromStatus(ctx, db, matchdb.FromDomain(updated), string(m.Status())); err != nil {
		if errors.Is(err, matchdb.ErrStatusChanged) {
			return failureOr[*matchdomain.View](fmt.Errorf("%w: match %s changed while it was being updated", matchdomain.ErrInvalidTransition, matchID))
		}
		return results.OperationResult[*matchdomain.View, error]{}, err
	}

	v := updated.View()
	return results.SuccessResult[*matchdomain.View, error](&v), nil
}

// loadMatch returns the match if it belongs to the tournament. Missing matches wrap
// ErrMatchNotFound.
func (s *MatchService) loadMatch(ctx context.Context, db bun.IDB, tournamentID, matchID string) (matchdomain.Match, error) {
	row, err := s.repo.GetByID(ctx, db, matchID)
	return matchFromRow(row, err, tournamentID, matchID)
}

func matchFromRow(row *matchdb.Match, err error, tournamentID, matchID string) (matchdomain.Match, error) {
	if err != nil {
		if errors.Is(err, matchdb.ErrNotFound) {
			return matchdomain.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return matchdomain.Match{}, fmt.Errorf("failed to get match: %w", err)
	}
	if row.TournamentID != tournamentID {
		return matchdomain.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	m, err := row.ToDomain()
	if err != nil {
		return matchdomain.Match{}, fmt.Errorf("stored match %s is corrupt: %v", matchID, err)
	}
	return m, nil
}
