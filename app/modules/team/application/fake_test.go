package teamservice

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeTeamRepo delegates to an in-memory repository unless a Func override is set.
type FakeTeamRepo struct {
	trace []string
	mem   *teamdb.MemoryRepository

	InsertFunc    func(ctx context.Context, db bun.IDB, team *teamdb.Team) error
	UpdateFunc    func(ctx context.Context, db bun.IDB, team *teamdb.Team) error
	DeleteFunc    func(ctx context.Context, db bun.IDB, tournamentID, id string) error
	GetByIDFunc   func(ctx context.Context, db bun.IDB, tournamentID, id string) (*teamdb.Team, error)
	GetByNameFunc func(ctx context.Context, db bun.IDB, tournamentID, name string) (*teamdb.Team, error)
	ListFunc      func(ctx context.Context, db bun.IDB, tournamentID, status string) ([]*teamdb.Team, error)
}

func NewFakeTeamRepo() *FakeTeamRepo {
	return &FakeTeamRepo{mem: teamdb.NewMemoryRepository()}
}

func (f *FakeTeamRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTeamRepo) Trace() []string {
	return append([]string(nil), f.trace...)
}

var _ teamdb.Repository = (*FakeTeamRepo)(nil)

func (f *FakeTeamRepo) Insert(ctx context.Context, db bun.IDB, team *teamdb.Team) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, team)
	}
	return f.mem.Insert(ctx, db, team)
}

func (f *FakeTeamRepo) Update(ctx context.Context, db bun.IDB, team *teamdb.Team) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, team)
	}
	return f.mem.Update(ctx, db, team)
}

func (f *FakeTeamRepo) Delete(ctx context.Context, db bun.IDB, tournamentID, id string) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, tournamentID, id)
	}
	return f.mem.Delete(ctx, db, tournamentID, id)
}

func (f *FakeTeamRepo) GetByID(ctx context.Context, db bun.IDB, tournamentID, id string) (*teamdb.Team, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, tournamentID, id)
	}
	return f.mem.GetByID(ctx, db, tournamentID, id)
}

func (f *FakeTeamRepo) GetByName(ctx context.Context, db bun.IDB, tournamentID, name string) (*teamdb.Team, error) {
	f.record("GetByName")
	if f.GetByNameFunc != nil {
		return f.GetByNameFunc(ctx, db, tournamentID, name)
	}
	return f.mem.GetByName(ctx, db, tournamentID, name)
}

func (f *FakeTeamRepo) List(ctx context.Context, db bun.IDB, tournamentID, status string) ([]*teamdb.Team, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, tournamentID, status)
	}
	return f.mem.List(ctx, db, tournamentID, status)
}

// FakePlayerRepo delegates to an in-memory repository unless a Func override is set.
type FakePlayerRepo struct {
	trace []string
	mem   *teamdb.MemoryPlayerRepository

	InsertFunc       func(ctx context.Context, db bun.IDB, player *teamdb.Player) error
	UpdateStatsFunc  func(ctx context.Context, db bun.IDB, player *teamdb.Player) error
	DeleteByTeamFunc func(ctx context.Context, db bun.IDB, tournamentID, teamID string) (int, error)
	ListFunc         func(ctx context.Context, db bun.IDB, tournamentID string, filter teamdb.PlayerFilter) ([]*teamdb.Player, error)
	CountFunc        func(ctx context.Context, db bun.IDB, tournamentID string) (int, error)
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{mem: teamdb.NewMemoryPlayerRepository()}
}

func (f *FakePlayerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePlayerRepo) Trace() []string {
	return append([]string(nil), f.trace...)
}

var _ teamdb.PlayerRepository = (*FakePlayerRepo)(nil)

func (f *FakePlayerRepo) Insert(ctx context.Context, db bun.IDB, player *teamdb.Player) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, player)
	}
	return f.mem.Insert(ctx, db, player)
}

func (f *FakePlayerRepo) UpdateStats(ctx context.Context, db bun.IDB, player *teamdb.Player) error {
	f.record("UpdateStats")
	if f.UpdateStatsFunc != nil {
		return f.UpdateStatsFunc(ctx, db, player)
	}
	return f.mem.UpdateStats(ctx, db, player)
}

func (f *FakePlayerRepo) Delete(ctx context.Context, db bun.IDB, tournamentID, id string) error {
	f.record("Delete")
	return f.mem.Delete(ctx, db, tournamentID, id)
}

func (f *FakePlayerRepo) DeleteByTeam(ctx context.Context, db bun.IDB, tournamentID, teamID string) (int, error) {
	f.record("DeleteByTeam")
	if f.DeleteByTeamFunc != nil {
		return f.DeleteByTeamFunc(ctx, db, tournamentID, teamID)
	}
	return f.mem.DeleteByTeam(ctx, db, tournamentID, teamID)
}

func (f *FakePlayerRepo) GetByID(ctx context.Context, db bun.IDB, tournamentID, id string) (*teamdb.Player, error) {
	f.record("GetByID")
	return f.mem.GetByID(ctx, db, tournamentID, id)
}

func (f *FakePlayerRepo) List(ctx context.Context, db bun.IDB, tournamentID string, filter teamdb.PlayerFilter) ([]*teamdb.Player, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, tournamentID, filter)
	}
	return f.mem.List(ctx, db, tournamentID, filter)
}

func (f *FakePlayerRepo) Count(ctx context.Context, db bun.IDB, tournamentID string) (int, error) {
	f.record("Count")
	if f.CountFunc != nil {
		return f.CountFunc(ctx, db, tournamentID)
	}
	return f.mem.Count(ctx, db, tournamentID)
}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
