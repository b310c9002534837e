package matchservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchevents "github.com/ahalia-sports/tournament-admin/app/modules/match/events"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GenerateSchedule builds the round robin for the tournament's active teams. A tournament
// that already has fixtures is rejected with ErrScheduleExists unless DryRun is set.
func (s *MatchService) GenerateSchedule(ctx context.Context, req GenerateScheduleRequest) (*ScheduleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := withTelemetry(s, ctx, "GenerateSchedule", req.TournamentID, func(ctx context.Context) (results.OperationResult[*ScheduleResult, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*ScheduleResult, error], error) {
			return s.generateScheduleLogic(ctx, db, req)
		})
	})
	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	if !out.DryRun {
		t, _ := s.tournament(req.TournamentID)
		s.publish(ctx, matchevents.ScheduleGeneratedV1, req.TournamentID, &matchevents.ScheduleGeneratedPayloadV1{
			TournamentID: req.TournamentID,
			StartDate:    out.StartDate,
			Matches:      out.Matches,
			OccurredAt:   s.now(),
		})
		s.scheduleKickoffs(ctx, t, out.Matches)
	}
	return out, nil
}

func (s *MatchService) generateScheduleLogic(ctx context.Context, db bun.IDB, req GenerateScheduleRequest) (results.OperationResult[*ScheduleResult, error], error) {
	t, err := s.tournament(req.TournamentID)
	if err != nil {
		return results.FailureResult[*ScheduleResult, error](err), nil
	}

	start, err := s.dates.ParseStartDate(req.StartDate, t.Location)
	if err != nil {
		return results.FailureResult[*ScheduleResult, error](err), nil
	}

	teams, err := s.roster.ActiveTeamNames(ctx, t.ID)
	if err != nil {
		return results.OperationResult[*ScheduleResult, error]{}, fmt.Errorf("failed to list teams: %w", err)
	}

	fixtures, err := matchdomain.GenerateRoundRobin(t.ScheduleParams(teams, start))
	if err != nil {
		return results.FailureResult[*ScheduleResult, error](err), nil
	}

	out := &ScheduleResult{
		TournamentID: t.ID,
		StartDate:    start.Format(matchdomain.DateLayout),
		DryRun:       req.DryRun,
		Matches:      views(fixtures),
	}
	if req.DryRun {
		return results.SuccessResult[*ScheduleResult, error](out), nil
	}

	existing, err := s.repo.CountByTournament(ctx, db, t.ID)
	if err != nil {
		return results.OperationResult[*ScheduleResult, error]{}, fmt.Errorf("failed to count matches: %w", err)
	}
	if existing > 0 {
		return results.FailureResult[*ScheduleResult, error](fmt.Errorf("%w: %s has %d matches", ErrScheduleExists, t.ID, existing)), nil
	}

	if err := s.repo.InsertMany(ctx, db, rows(fixtures)); err != nil {
		return results.OperationResult[*ScheduleResult, error]{}, err
	}

	return results.SuccessResult[*ScheduleResult, error](out), nil
}

// ScheduleMatch adds a manually entered fixture. Every field is required and a team
// cannot be paired with itself.
func (s *MatchService) ScheduleMatch(ctx context.Context, req ScheduleMatchRequest) (*matchdomain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := withTelemetry(s, ctx, "ScheduleMatch", req.TournamentID, func(ctx context.Context) (results.OperationResult[*matchdomain.View, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*matchdomain.View, error], error) {
			t, err := s.tournament(req.TournamentID)
			if err != nil {
				return results.FailureResult[*matchdomain.View, error](err), nil
			}
			m, err := s.buildManualMatch(t, req.TeamA, req.TeamB, req.Date, req.Time, req.Venue)
			if err != nil {
				return results.FailureResult[*matchdomain.View, error](err), nil
			}
			if err := s.repo.InsertMany(ctx, db, rows([]matchdomain.Match{m})); err != nil {
				return results.OperationResult[*matchdomain.View, error]{}, err
			}
			v := m.View()
			return results.SuccessResult[*matchdomain.View, error](&v), nil
		})
	})
	v, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	t, _ := s.tournament(req.TournamentID)
	s.publish(ctx, matchevents.MatchScheduledV1, req.TournamentID, &matchevents.MatchPayloadV1{
		TournamentID: req.TournamentID,
		Match:        *v,
		OccurredAt:   s.now(),
	})
	s.scheduleKickoffs(ctx, t, []matchdomain.View{*v})
	return v, nil
}

// buildManualMatch validates raw form fields into a scheduled match with a fresh ID.
func (s *MatchService) buildManualMatch(t matchdomain.Tournament, teamA, teamB, rawDate, rawTime, venue string) (matchdomain.Match, error) {
	if strings.TrimSpace(rawDate) == "" || strings.TrimSpace(rawTime) == "" {
		return matchdomain.Match{}, matchdomain.ErrIncompleteMatch
	}
	date, err := s.dates.ParseStartDate(rawDate, t.Location)
	if err != nil {
		return matchdomain.Match{}, err
	}
	kickoff, err := matchdomain.ParseKickoffTime(rawTime)
	if err != nil {
		return matchdomain.Match{}, err
	}
	return matchdomain.NewMatch(uuid.NewString(), t.ID, teamA, teamB, date, kickoff, venue)
}

// scheduleKickoffs queues a kickoff notification for each fixture still in the future.
func (s *MatchService) scheduleKickoffs(ctx context.Context, t matchdomain.Tournament, fixtures []matchdomain.View) {
	if s.kickoffs == nil {
		return
	}
	now := s.clock.Now()
	for _, v := range fixtures {
		date, err := time.Parse(matchdomain.DateLayout, v.Date)
		if err != nil {
			continue
		}
		at := matchdomain.Match{Date: date, Time: matchdomain.KickoffTime(v.Time)}.KickoffAt(t.Location)
		if !at.After(now) {
			continue
		}
		if err := s.kickoffs.ScheduleKickoff(ctx, t.ID, v.ID, at); err != nil {
			s.logger.WarnContext(ctx, "Failed to schedule kickoff",
				observability.CorrelationAttr(ctx),
				slog.String("match_id", v.ID),
				slog.Any("error", err),
			)
		}
	}
}

func rows(matches []matchdomain.Match) []*matchdb.Match {
	out := make([]*matchdb.Match, len(matches))
	for i, m := range matches {
		out[i] = matchdb.FromDomain(m)
	}
	return out
}
