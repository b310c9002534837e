package teamhandlers

import (
	"context"

	teamservice "github.com/ahalia-sports/tournament-admin/app/modules/team/application"
	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
)

// FakeService is a programmable fake for teamservice.Service.
type FakeService struct {
	trace []string

	RegisterFunc         func(ctx context.Context, reg teamdomain.Registration) (*teamdomain.Team, error)
	AddTeamFunc          func(ctx context.Context, entry teamdomain.Entry) (*teamdomain.Team, error)
	UpdateRosterSizeFunc func(ctx context.Context, tournamentID, teamID string, players int) (*teamdomain.Team, error)
	SetStatusFunc        func(ctx context.Context, tournamentID, teamID string, status teamdomain.Status) (*teamdomain.Team, error)
	RemoveTeamFunc       func(ctx context.Context, tournamentID, teamID string) error
	GetTeamFunc          func(ctx context.Context, tournamentID, teamID string) (*teamdomain.Team, error)
	ListTeamsFunc        func(ctx context.Context, tournamentID string, status teamdomain.Status) ([]teamdomain.Team, error)

	AddPlayerFunc         func(ctx context.Context, entry teamdomain.PlayerEntry) (*teamdomain.Player, error)
	UpdatePlayerStatsFunc func(ctx context.Context, tournamentID, playerID string, stats teamdomain.PlayerStats) (*teamdomain.Player, error)
	GetPlayerFunc         func(ctx context.Context, tournamentID, playerID string) (*teamdomain.Player, error)
	ListPlayersFunc       func(ctx context.Context, tournamentID string, filter teamservice.PlayerFilter) ([]teamdomain.Player, error)
	LeadersFunc           func(ctx context.Context, tournamentID string, limit int) (*teamdomain.Leaders, error)
}

var _ teamservice.Service = (*FakeService)(nil)

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	return append([]string(nil), f.trace...)
}

func (f *FakeService) Register(ctx context.Context, reg teamdomain.Registration) (*teamdomain.Team, error) {
	f.record("Register")
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, reg)
	}
	return &teamdomain.Team{ID: "t-1", TournamentID: reg.TournamentID, Name: reg.Name, Status: teamdomain.StatusPending}, nil
}

func (f *FakeService) AddTeam(ctx context.Context, entry teamdomain.Entry) (*teamdomain.Team, error) {
	f.record("AddTeam")
	if f.AddTeamFunc != nil {
		return f.AddTeamFunc(ctx, entry)
	}
	return &teamdomain.Team{ID: "t-1", TournamentID: entry.TournamentID, Name: entry.Name, Status: teamdomain.StatusActive}, nil
}

func (f *FakeService) UpdateRosterSize(ctx context.Context, tournamentID, teamID string, players int) (*teamdomain.Team, error) {
	f.record("UpdateRosterSize")
	if f.UpdateRosterSizeFunc != nil {
		return f.UpdateRosterSizeFunc(ctx, tournamentID, teamID, players)
	}
	return &teamdomain.Team{ID: teamID, TournamentID: tournamentID, PlayerCount: players}, nil
}

func (f *FakeService) SetStatus(ctx context.Context, tournamentID, teamID string, status teamdomain.Status) (*teamdomain.Team, error) {
	f.record("SetStatus")
	if f.SetStatusFunc != nil {
		return f.SetStatusFunc(ctx, tournamentID, teamID, status)
	}
	return &teamdomain.Team{ID: teamID, TournamentID: tournamentID, Status: status}, nil
}

func (f *FakeService) RemoveTeam(ctx context.Context, tournamentID, teamID string) error {
	f.record("RemoveTeam")
	if f.RemoveTeamFunc != nil {
		return f.RemoveTeamFunc(ctx, tournamentID, teamID)
	}
	return nil
}

func (f *FakeService) GetTeam(ctx context.Context, tournamentID, teamID string) (*teamdomain.Team, error) {
	f.record("GetTeam")
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, tournamentID, teamID)
	}
	return &teamdomain.Team{ID: teamID, TournamentID: tournamentID}, nil
}

func (f *FakeService) ListTeams(ctx context.Context, tournamentID string, status teamdomain.Status) ([]teamdomain.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, tournamentID, status)
	}
	return []teamdomain.Team{}, nil
}

func (f *FakeService) ActiveTeamNames(ctx context.Context, tournamentID string) ([]string, error) {
	f.record("ActiveTeamNames")
	return nil, nil
}

func (f *FakeService) AddPlayer(ctx context.Context, entry teamdomain.PlayerEntry) (*teamdomain.Player, error) {
	f.record("AddPlayer")
	if f.AddPlayerFunc != nil {
		return f.AddPlayerFunc(ctx, entry)
	}
	return &teamdomain.Player{ID: "p-1", TournamentID: entry.TournamentID, TeamID: entry.TeamID, Name: entry.Name}, nil
}

func (f *FakeService) UpdatePlayerStats(ctx context.Context, tournamentID, playerID string, stats teamdomain.PlayerStats) (*teamdomain.Player, error) {
	f.record("UpdatePlayerStats")
	if f.UpdatePlayerStatsFunc != nil {
		return f.UpdatePlayerStatsFunc(ctx, tournamentID, playerID, stats)
	}
	return &teamdomain.Player{ID: playerID, TournamentID: tournamentID, Stats: stats}, nil
}

func (f *FakeService) RemovePlayer(ctx context.Context, tournamentID, playerID string) error {
	f.record("RemovePlayer")
	return nil
}

func (f *FakeService) GetPlayer(ctx context.Context, tournamentID, playerID string) (*teamdomain.Player, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, tournamentID, playerID)
	}
	return &teamdomain.Player{ID: playerID, TournamentID: tournamentID}, nil
}

func (f *FakeService) ListPlayers(ctx context.Context, tournamentID string, filter teamservice.PlayerFilter) ([]teamdomain.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, tournamentID, filter)
	}
	return []teamdomain.Player{}, nil
}

func (f *FakeService) Leaders(ctx context.Context, tournamentID string, limit int) (*teamdomain.Leaders, error) {
	f.record("Leaders")
	if f.LeadersFunc != nil {
		return f.LeadersFunc(ctx, tournamentID, limit)
	}
	return &teamdomain.Leaders{TopScorers: []teamdomain.Player{}, TopAssists: []teamdomain.Player{}}, nil
}

func (f *FakeService) Headcount(ctx context.Context, tournamentID string) (teamdomain.Headcount, error) {
	f.record("Headcount")
	return teamdomain.Headcount{}, nil
}
