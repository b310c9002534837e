package matchhandlers

import (
	"context"

	matchservice "github.com/ahalia-sports/tournament-admin/app/modules/match/application"
	matchdomain "github.com/ahalia-sports/tournament-admin/app/modules/match/domain"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	GenerateScheduleFunc func(ctx context.Context, req matchservice.GenerateScheduleRequest) (*matchservice.ScheduleResult, error)
	ScheduleMatchFunc    func(ctx context.Context, req matchservice.ScheduleMatchRequest) (*matchdomain.View, error)
	ImportFixturesFunc   func(ctx context.Context, tournamentID string, data []byte) ([]matchdomain.View, error)
	StartMatchFunc       func(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error)
	UpdateLiveScoreFunc  func(ctx context.Context, tournamentID, matchID string, score matchdomain.Score) (*matchdomain.View, error)
	CompleteMatchFunc    func(ctx context.Context, tournamentID, matchID string, score matchdomain.Score, winner string) (*matchdomain.View, error)
	EndMatchFunc         func(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error)
	GetMatchFunc         func(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error)
	ListMatchesFunc      func(ctx context.Context, tournamentID string, filter matchdb.ListFilter) ([]matchdomain.View, error)
	StandingsFunc        func(ctx context.Context, tournamentID string) ([]matchdomain.StandingRow, error)
	StandingsChartFunc   func(ctx context.Context, tournamentID string, metric matchservice.ChartMetric) ([]byte, error)
	SummaryFunc          func(ctx context.Context, tournamentID string) (*matchservice.Summary, error)
	ExportFixturesFunc   func(ctx context.Context, tournamentID string) ([]byte, error)
	TournamentFunc       func(tournamentID string) (matchdomain.Tournament, bool)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ matchservice.Service = (*FakeService)(nil)

func (f *FakeService) GenerateSchedule(ctx context.Context, req matchservice.GenerateScheduleRequest) (*matchservice.ScheduleResult, error) {
	f.record("GenerateSchedule")
	if f.GenerateScheduleFunc != nil {
		return f.GenerateScheduleFunc(ctx, req)
	}
	return &matchservice.ScheduleResult{TournamentID: req.TournamentID, DryRun: req.DryRun}, nil
}

func (f *FakeService) ScheduleMatch(ctx context.Context, req matchservice.ScheduleMatchRequest) (*matchdomain.View, error) {
	f.record("ScheduleMatch")
	if f.ScheduleMatchFunc != nil {
		return f.ScheduleMatchFunc(ctx, req)
	}
	return &matchdomain.View{TournamentID: req.TournamentID, TeamA: req.TeamA, TeamB: req.TeamB}, nil
}

func (f *FakeService) ImportFixtures(ctx context.Context, tournamentID string, data []byte) ([]matchdomain.View, error) {
	f.record("ImportFixtures")
	if f.ImportFixturesFunc != nil {
		return f.ImportFixturesFunc(ctx, tournamentID, data)
	}
	return []matchdomain.View{}, nil
}

func (f *FakeService) StartMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error) {
	f.record("StartMatch")
	if f.StartMatchFunc != nil {
		return f.StartMatchFunc(ctx, tournamentID, matchID)
	}
	return &matchdomain.View{ID: matchID, Status: matchdomain.StatusInProgress}, nil
}

func (f *FakeService) UpdateLiveScore(ctx context.Context, tournamentID, matchID string, score matchdomain.Score) (*matchdomain.View, error) {
	f.record("UpdateLiveScore")
	if f.UpdateLiveScoreFunc != nil {
		return f.UpdateLiveScoreFunc(ctx, tournamentID, matchID, score)
	}
	return &matchdomain.View{ID: matchID, Status: matchdomain.StatusInProgress, Score: &score}, nil
}

func (f *FakeService) CompleteMatch(ctx context.Context, tournamentID, matchID string, score matchdomain.Score, winner string) (*matchdomain.View, error) {
	f.record("CompleteMatch")
	if f.CompleteMatchFunc != nil {
		return f.CompleteMatchFunc(ctx, tournamentID, matchID, score, winner)
	}
	return &matchdomain.View{ID: matchID, Status: matchdomain.StatusCompleted, Score: &score}, nil
}

func (f *FakeService) EndMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error) {
	f.record("EndMatch")
	if f.EndMatchFunc != nil {
		return f.EndMatchFunc(ctx, tournamentID, matchID)
	}
	return &matchdomain.View{ID: matchID, Status: matchdomain.StatusCompleted}, nil
}

func (f *FakeService) GetMatch(ctx context.Context, tournamentID, matchID string) (*matchdomain.View, error) {
	f.record("GetMatch")
	if f.GetMatchFunc != nil {
		return f.GetMatchFunc(ctx, tournamentID, matchID)
	}
	return &matchdomain.View{ID: matchID, TournamentID: tournamentID}, nil
}

func (f *FakeService) ListMatches(ctx context.Context, tournamentID string, filter matchdb.ListFilter) ([]matchdomain.View, error) {
	f.record("ListMatches")
	if f.ListMatchesFunc != nil {
		return f.ListMatchesFunc(ctx, tournamentID, filter)
	}
	return []matchdomain.View{}, nil
}

func (f *FakeService) Standings(ctx context.Context, tournamentID string) ([]matchdomain.StandingRow, error) {
	f.record("Standings")
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx, tournamentID)
	}
	return []matchdomain.StandingRow{}, nil
}

func (f *FakeService) StandingsChart(ctx context.Context, tournamentID string, metric matchservice.ChartMetric) ([]byte, error) {
	f.record("StandingsChart")
	if f.StandingsChartFunc != nil {
		return f.StandingsChartFunc(ctx, tournamentID, metric)
	}
	return []byte("\x89PNG"), nil
}

func (f *FakeService) Summary(ctx context.Context, tournamentID string) (*matchservice.Summary, error) {
	f.record("Summary")
	if f.SummaryFunc != nil {
		return f.SummaryFunc(ctx, tournamentID)
	}
	return &matchservice.Summary{TournamentID: tournamentID}, nil
}

func (f *FakeService) ExportFixtures(ctx context.Context, tournamentID string) ([]byte, error) {
	f.record("ExportFixtures")
	if f.ExportFixturesFunc != nil {
		return f.ExportFixturesFunc(ctx, tournamentID)
	}
	return []byte("PK"), nil
}

func (f *FakeService) Tournament(tournamentID string) (matchdomain.Tournament, bool) {
	f.record("Tournament")
	if f.TournamentFunc != nil {
		return f.TournamentFunc(tournamentID)
	}
	return matchdomain.Tournament{ID: tournamentID}, true
}
