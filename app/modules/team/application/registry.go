package teamservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	teamevents "github.com/ahalia-sports/tournament-admin/app/modules/team/events"
	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/uptrace/bun"
)

type teamResult = results.OperationResult[*teamdomain.Team, error]

// Register records a public sign-up as a pending team.
func (s *TeamService) Register(ctx context.Context, reg teamdomain.Registration) (*teamdomain.Team, error) {
	result, err := withTelemetry(s, ctx, "Register", reg.Name, func(ctx context.Context) (teamResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (teamResult, error) {
			team, err := teamdomain.NewRegisteredTeam(s.newID(), reg, s.clock.Now().UTC())
			if err != nil {
				return failureOr[*teamdomain.Team](err)
			}
			return s.insert(ctx, db, team)
		})
	})
	team, err := unwrap(result, err)
	if err == nil {
		s.publish(ctx, teamevents.TeamRegisteredV1, *team)
	}
	return team, err
}

// AddTeam lists an admin-entered team as active.
func (s *TeamService) AddTeam(ctx context.Context, entry teamdomain.Entry) (*teamdomain.Team, error) {
	result, err := withTelemetry(s, ctx, "AddTeam", entry.Name, func(ctx context.Context) (teamResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (teamResult, error) {
			team, err := teamdomain.NewListedTeam(s.newID(), entry, s.clock.Now().UTC())
			if err != nil {
				return failureOr[*teamdomain.Team](err)
			}
			return s.insert(ctx, db, team)
		})
	})
	team, err := unwrap(result, err)
	if err == nil {
		s.publish(ctx, teamevents.TeamRegisteredV1, *team)
	}
	return team, err
}

func (s *TeamService) insert(ctx context.Context, db bun.IDB, team teamdomain.Team) (teamResult, error) {
	if err := s.checkTournament(team.TournamentID); err != nil {
		return failureOr[*teamdomain.Team](err)
	}
	if _, err := s.repo.GetByName(ctx, db, team.TournamentID, team.Name); err == nil {
		return failureOr[*teamdomain.Team](fmt.Errorf("%w: %q", ErrTeamExists, team.Name))
	} else if !errors.Is(err, teamdb.ErrNotFound) {
		return teamResult{}, fmt.Errorf("failed to check team name: %w", err)
	}

	row := teamdb.FromDomain(team)
	if err := s.repo.Insert(ctx, db, row); err != nil {
		if errors.Is(err, teamdb.ErrDuplicateName) {
			return failureOr[*teamdomain.Team](fmt.Errorf("%w: %q", ErrTeamExists, team.Name))
		}
		return teamResult{}, err
	}
	stored := row.ToDomain()
	return results.SuccessResult[*teamdomain.Team, error](&stored), nil
}

// UpdateRosterSize changes a team's player count.
func (s *TeamService) UpdateRosterSize(ctx context.Context, tournamentID, teamID string, players int) (*teamdomain.Team, error) {
	return s.modify(ctx, "UpdateRosterSize", tournamentID, teamID, func(row *teamdb.Team) error {
		if err := teamdomain.CheckRosterSize(players); err != nil {
			return err
		}
		row.PlayerCount = players
		return nil
	})
}

// SetStatus approves, rejects or re-opens a team.
func (s *TeamService) SetStatus(ctx context.Context, tournamentID, teamID string, status teamdomain.Status) (*teamdomain.Team, error) {
	return s.modify(ctx, "SetStatus", tournamentID, teamID, func(row *teamdb.Team) error {
		if _, err := teamdomain.ParseStatus(string(status)); err != nil {
			return err
		}
		row.Status = string(status)
		return nil
	})
}

func (s *TeamService) modify(ctx context.Context, opName, tournamentID, teamID string, apply func(*teamdb.Team) error) (*teamdomain.Team, error) {
	result, err := withTelemetry(s, ctx, opName, teamID, func(ctx context.Context) (teamResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (teamResult, error) {
			row, err := s.load(ctx, db, tournamentID, teamID)
			if err != nil {
				return failureOr[*teamdomain.Team](err)
			}
			if err := apply(row); err != nil {
				return failureOr[*teamdomain.Team](err)
			}
			if err := s.repo.Update(ctx, db, row); err != nil {
				return teamResult{}, err
			}
			team := row.ToDomain()
			return results.SuccessResult[*teamdomain.Team, error](&team), nil
		})
	})
	team, err := unwrap(result, err)
	if err == nil {
		s.publish(ctx, teamevents.TeamUpdatedV1, *team)
	}
	return team, err
}

// RemoveTeam deletes a team and its squad. Fixtures already played keep the team's name.
func (s *TeamService) RemoveTeam(ctx context.Context, tournamentID, teamID string) error {
	result, err := withTelemetry(s, ctx, "RemoveTeam", teamID, func(ctx context.Context) (teamResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (teamResult, error) {
			row, err := s.load(ctx, db, tournamentID, teamID)
			if err != nil {
				return failureOr[*teamdomain.Team](err)
			}
			squad, err := s.players.DeleteByTeam(ctx, db, tournamentID, teamID)
			if err != nil {
				return teamResult{}, err
			}
			if err := s.repo.Delete(ctx, db, tournamentID, teamID); err != nil {
				return teamResult{}, err
			}
			if squad > 0 {
				s.logger.InfoContext(ctx, "Removed squad with team",
					slog.String("team_id", teamID),
					slog.Int("players", squad),
				)
			}
			team := row.ToDomain()
			return results.SuccessResult[*teamdomain.Team, error](&team), nil
		})
	})
	team, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.publish(ctx, teamevents.TeamRemovedV1, *team)
	return nil
}

// GetTeam returns a single team.
func (s *TeamService) GetTeam(ctx context.Context, tournamentID, teamID string) (*teamdomain.Team, error) {
	result, err := withTelemetry(s, ctx, "GetTeam", teamID, func(ctx context.Context) (teamResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (teamResult, error) {
			row, err := s.load(ctx, db, tournamentID, teamID)
			if err != nil {
				return failureOr[*teamdomain.Team](err)
			}
			team := row.ToDomain()
			return results.SuccessResult[*teamdomain.Team, error](&team), nil
		})
	})
	return unwrap(result, err)
}

// ListTeams returns the tournament's teams in registration order. An empty status lists all.
func (s *TeamService) ListTeams(ctx context.Context, tournamentID string, status teamdomain.Status) ([]teamdomain.Team, error) {
	type listResult = results.OperationResult[[]teamdomain.Team, error]
	result, err := withTelemetry(s, ctx, "ListTeams", tournamentID, func(ctx context.Context) (listResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (listResult, error) {
			if err := s.checkTournament(tournamentID); err != nil {
				return failureOr[[]teamdomain.Team](err)
			}
			if status != "" {
				if _, err := teamdomain.ParseStatus(string(status)); err != nil {
					return failureOr[[]teamdomain.Team](err)
				}
			}
			rows, err := s.repo.List(ctx, db, tournamentID, string(status))
			if err != nil {
				return listResult{}, err
			}
			teams := make([]teamdomain.Team, len(rows))
			for i, row := range rows {
				teams[i] = row.ToDomain()
			}
			return results.SuccessResult[[]teamdomain.Team, error](teams), nil
		})
	})
	return unwrap(result, err)
}

// ActiveTeamNames lists the tournament's active teams in registration order.
func (s *TeamService) ActiveTeamNames(ctx context.Context, tournamentID string) ([]string, error) {
	teams, err := s.ListTeams(ctx, tournamentID, teamdomain.StatusActive)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.Name
	}
	return names, nil
}

func (s *TeamService) load(ctx context.Context, db bun.IDB, tournamentID, teamID string) (*teamdb.Team, error) {
	if err := s.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, db, tournamentID, teamID)
	if errors.Is(err, teamdb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return row, nil
}
