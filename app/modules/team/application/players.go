package teamservice

import (
	"context"
	"errors"
	"fmt"

	teamdomain "github.com/ahalia-sports/tournament-admin/app/modules/team/domain"
	teamevents "github.com/ahalia-sports/tournament-admin/app/modules/team/events"
	teamdb "github.com/ahalia-sports/tournament-admin/app/modules/team/infrastructure/repositories"
	"github.com/ahalia-sports/tournament-admin/pkg/results"
	"github.com/uptrace/bun"
)

type playerResult = results.OperationResult[*teamdomain.Player, error]

// PlayerFilter narrows ListPlayers. Zero values match everything.
type PlayerFilter struct {
	Position string
	TeamID   string
}

// AddPlayer registers a player in one of the tournament's teams.
func (s *TeamService) AddPlayer(ctx context.Context, entry teamdomain.PlayerEntry) (*teamdomain.Player, error) {
	result, err := withTelemetry(s, ctx, "AddPlayer", entry.Name, func(ctx context.Context) (playerResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (playerResult, error) {
			team, err := s.load(ctx, db, entry.TournamentID, entry.TeamID)
			if err != nil {
				return failureOr[*teamdomain.Player](err)
			}
			player, err := teamdomain.NewPlayer(s.newID(), entry, team.ToDomain(), s.clock.Now().UTC())
			if err != nil {
				return failureOr[*teamdomain.Player](err)
			}
			row := teamdb.PlayerFromDomain(player)
			if err := s.players.Insert(ctx, db, row); err != nil {
				return playerResult{}, err
			}
			stored := row.ToDomain()
			return results.SuccessResult[*teamdomain.Player, error](&stored), nil
		})
	})
	player, err := unwrap(result, err)
	if err == nil {
		s.publishPlayer(ctx, teamevents.PlayerRegisteredV1, *player)
	}
	return player, err
}

// UpdatePlayerStats overwrites a player's season totals.
func (s *TeamService) UpdatePlayerStats(ctx context.Context, tournamentID, playerID string, stats teamdomain.PlayerStats) (*teamdomain.Player, error) {
	result, err := withTelemetry(s, ctx, "UpdatePlayerStats", playerID, func(ctx context.Context) (playerResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (playerResult, error) {
			if err := stats.Validate(); err != nil {
				return failureOr[*teamdomain.Player](err)
			}
			row, err := s.loadPlayer(ctx, db, tournamentID, playerID)
			if err != nil {
				return failureOr[*teamdomain.Player](err)
			}
			row.Goals = stats.Goals
			row.Assists = stats.Assists
			row.YellowCards = stats.YellowCards
			row.RedCards = stats.RedCards
			if err := s.players.UpdateStats(ctx, db, row); err != nil {
				return playerResult{}, err
			}
			player := row.ToDomain()
			return results.SuccessResult[*teamdomain.Player, error](&player), nil
		})
	})
	player, err := unwrap(result, err)
	if err == nil {
		s.publishPlayer(ctx, teamevents.PlayerUpdatedV1, *player)
	}
	return player, err
}

// RemovePlayer deletes a player from the squad.
func (s *TeamService) RemovePlayer(ctx context.Context, tournamentID, playerID string) error {
	result, err := withTelemetry(s, ctx, "RemovePlayer", playerID, func(ctx context.Context) (playerResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (playerResult, error) {
			row, err := s.loadPlayer(ctx, db, tournamentID, playerID)
			if err != nil {
				return failureOr[*teamdomain.Player](err)
			}
			if err := s.players.Delete(ctx, db, tournamentID, playerID); err != nil {
				return playerResult{}, err
			}
			player := row.ToDomain()
			return results.SuccessResult[*teamdomain.Player, error](&player), nil
		})
	})
	player, err := unwrap(result, err)
	if err != nil {
		return err
	}
	s.publishPlayer(ctx, teamevents.PlayerRemovedV1, *player)
	return nil
}

// GetPlayer returns a single player.
func (s *TeamService) GetPlayer(ctx context.Context, tournamentID, playerID string) (*teamdomain.Player, error) {
	result, err := withTelemetry(s, ctx, "GetPlayer", playerID, func(ctx context.Context) (playerResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (playerResult, error) {
			row, err := s.loadPlayer(ctx, db, tournamentID, playerID)
			if err != nil {
				return failureOr[*teamdomain.Player](err)
			}
			player := row.ToDomain()
			return results.SuccessResult[*teamdomain.Player, error](&player), nil
		})
	})
	return unwrap(result, err)
}

// ListPlayers returns the tournament's players in registration order.
func (s *TeamService) ListPlayers(ctx context.Context, tournamentID string, filter PlayerFilter) ([]teamdomain.Player, error) {
	type listResult = results.OperationResult[[]teamdomain.Player, error]
	result, err := withTelemetry(s, ctx, "ListPlayers", tournamentID, func(ctx context.Context) (listResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (listResult, error) {
			players, err := s.listPlayers(ctx, db, tournamentID, filter)
			if err != nil {
				return failureOr[[]teamdomain.Player](err)
			}
			return results.SuccessResult[[]teamdomain.Player, error](players), nil
		})
	})
	return unwrap(result, err)
}

// Leaders ranks the tournament's top scorers and assist makers. A limit of zero uses
// teamdomain.DefaultLeaderCount.
func (s *TeamService) Leaders(ctx context.Context, tournamentID string, limit int) (*teamdomain.Leaders, error) {
	type leadersResult = results.OperationResult[*teamdomain.Leaders, error]
	result, err := withTelemetry(s, ctx, "Leaders", tournamentID, func(ctx context.Context) (leadersResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (leadersResult, error) {
			players, err := s.listPlayers(ctx, db, tournamentID, PlayerFilter{})
			if err != nil {
				return failureOr[*teamdomain.Leaders](err)
			}
			leaders := teamdomain.ComputeLeaders(players, limit)
			return results.SuccessResult[*teamdomain.Leaders, error](&leaders), nil
		})
	})
	return unwrap(result, err)
}

// Headcount counts the tournament's teams and players.
func (s *TeamService) Headcount(ctx context.Context, tournamentID string) (teamdomain.Headcount, error) {
	type headcountResult = results.OperationResult[teamdomain.Headcount, error]
	result, err := withTelemetry(s, ctx, "Headcount", tournamentID, func(ctx context.Context) (headcountResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (headcountResult, error) {
			if err := s.checkTournament(tournamentID); err != nil {
				return failureOr[teamdomain.Headcount](err)
			}
			teams, err := s.repo.List(ctx, db, tournamentID, "")
			if err != nil {
				return headcountResult{}, err
			}
			players, err := s.players.Count(ctx, db, tournamentID)
			if err != nil {
				return headcountResult{}, err
			}
			hc := teamdomain.Headcount{Teams: len(teams), Players: players}
			for _, t := range teams {
				if t.Status == string(teamdomain.StatusActive) {
					hc.ActiveTeams++
				}
			}
			return results.SuccessResult[teamdomain.Headcount, error](hc), nil
		})
	})
	return unwrap(result, err)
}

func (s *TeamService) listPlayers(ctx context.Context, db bun.IDB, tournamentID string, filter PlayerFilter) ([]teamdomain.Player, error) {
	if err := s.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	if filter.Position != "" {
		pos, err := teamdomain.ParsePosition(filter.Position)
		if err != nil {
			return nil, err
		}
		filter.Position = string(pos)
	}
	rows, err := s.players.List(ctx, db, tournamentID, teamdb.PlayerFilter{Position: filter.Position, TeamID: filter.TeamID})
	if err != nil {
		return nil, err
	}
	players := make([]teamdomain.Player, len(rows))
	for i, row := range rows {
		players[i] = row.ToDomain()
	}
	return players, nil
}

func (s *TeamService) loadPlayer(ctx context.Context, db bun.IDB, tournamentID, playerID string) (*teamdb.Player, error) {
	if err := s.checkTournament(tournamentID); err != nil {
		return nil, err
	}
	row, err := s.players.GetByID(ctx, db, tournamentID, playerID)
	if errors.Is(err, teamdb.ErrPlayerNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	return row, nil
}
