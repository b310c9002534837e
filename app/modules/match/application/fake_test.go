package matchservice

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	matchdb "github.com/ahalia-sports/tournament-admin/app/modules/match/infrastructure/repositories"
	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Match Repo
// ------------------------

// FakeMatchRepo delegates to an in-memory repository unless a Func override is set.
type FakeMatchRepo struct {
	trace []string
	mem   *matchdb.MemoryRepository

	InsertManyFunc        func(ctx context.Context, db bun.IDB, matches []*matchdb.Match) error
	UpdateFunc            func(ctx context.Context, db bun.IDB, match *matchdb.Match) error
	UpdateFromStatusFunc  func(ctx context.Context, db bun.IDB, match *matchdb.Match, fromStatus string) error
	GetByIDFunc           func(ctx context.Context, db bun.IDB, id string) (*matchdb.Match, error)
	GetForUpdateFunc      func(ctx context.Context, db bun.IDB, id string) (*matchdb.Match, error)
	ListByTournamentFunc  func(ctx context.Context, db bun.IDB, tournamentID string, filter matchdb.ListFilter) ([]*matchdb.Match, error)
	CountByTournamentFunc func(ctx context.Context, db bun.IDB, tournamentID string) (int, error)
}

func NewFakeMatchRepo() *FakeMatchRepo {
	return &FakeMatchRepo{
		trace: []string{},
		mem:   matchdb.NewMemoryRepository(),
	}
}

func (f *FakeMatchRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMatchRepo) InsertMany(ctx context.Context, db bun.IDB, matches []*matchdb.Match) error {
	f.record("InsertMany")
	if f.InsertManyFunc != nil {
		return f.InsertManyFunc(ctx, db, matches)
	}
	return f.mem.InsertMany(ctx, db, matches)
}

func (f *FakeMatchRepo) Update(ctx context.Context, db bun.IDB, match *matchdb.Match) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, match)
	}
	return f.mem.Update(ctx, db, match)
}

func (f *FakeMatchRepo) UpdateFromStatus(ctx context.Context, db bun.IDB, match *matchdb.Match, fromStatus string) error {
	f.record("UpdateFromStatus")
	if f.UpdateFromStatusFunc != nil {
		return f.UpdateFromStatusFunc(ctx, db, match, fromStatus)
	}
	return f.mem.UpdateFromStatus(ctx, db, match, fromStatus)
}

func (f *FakeMatchRepo) GetForUpdate(ctx context.Context, db bun.IDB, id string) (*matchdb.Match, error) {
	f.record("GetForUpdate")
	if f.GetForUpdateFunc != nil {
		return f.GetForUpdateFunc(ctx, db, id)
	}
	return f.mem.GetForUpdate(ctx, db, id)
}

func (f *FakeMatchRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*matchdb.Match, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return f.mem.GetByID(ctx, db, id)
}

func (f *FakeMatchRepo) ListByTournament(ctx context.Context, db bun.IDB, tournamentID string, filter matchdb.ListFilter) ([]*matchdb.Match, error) {
	f.record("ListByTournament")
	if f.ListByTournamentFunc != nil {
		return f.ListByTournamentFunc(ctx, db, tournamentID, filter)
	}
	return f.mem.ListByTournament(ctx, db, tournamentID, filter)
}

func (f *FakeMatchRepo) CountByTournament(ctx context.Context, db bun.IDB, tournamentID string) (int, error) {
	f.record("CountByTournament")
	if f.CountByTournamentFunc != nil {
		return f.CountByTournamentFunc(ctx, db, tournamentID)
	}
	return f.mem.CountByTournament(ctx, db, tournamentID)
}

// --- Accessors for assertions ---

func (f *FakeMatchRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ matchdb.Repository = (*FakeMatchRepo)(nil)

// ------------------------
// Fake collaborators
// ------------------------

type fakeRoster struct {
	teams  map[string][]string
	counts map[string]teamdomain.Headcount
	err    error
}

func (f *fakeRoster) ActiveTeamNames(_ context.Context, tournamentID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teams[tournamentID], nil
}

func (f *fakeRoster) Headcount(_ context.Context, tournamentID string) (teamdomain.Headcount, error) {
	if f.err != nil {
		return teamdomain.Headcount{}, f.err
	}
	if c, ok := f.counts[tournamentID]; ok {
		return c, nil
	}
	n := len(f.teams[tournamentID])
	return teamdomain.Headcount{Teams: n, ActiveTeams: n}, nil
}

type scheduledKickoff struct {
	TournamentID string
	MatchID      string
	At           time.Time
}

type fakeKickoffs struct {
	scheduled []scheduledKickoff
}

func (f *fakeKickoffs) ScheduleKickoff(_ context.Context, tournamentID, matchID string, at time.Time) error {
	f.scheduled = append(f.scheduled, scheduledKickoff{TournamentID: tournamentID, MatchID: matchID, At: at})
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.topics))
	copy(out, p.topics)
	return out
}
