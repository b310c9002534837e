package teamdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrPlayerNotFound is returned when a player is not found.
var ErrPlayerNotFound = errors.New("player not found")

// PlayerImpl implements PlayerRepository using Bun ORM.
type PlayerImpl struct {
	db bun.IDB
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db bun.IDB) PlayerRepository {
	return &PlayerImpl{db: db}
}

func (r *PlayerImpl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *PlayerImpl) Insert(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if player.CreatedAt.IsZero() {
		player.CreatedAt = now
	}
	player.UpdatedAt = now

	if _, err := db.NewInsert().Model(player).ExcludeColumn("seq").Returning("seq").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *PlayerImpl) UpdateStats(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	player.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(player).
		Column("goals", "assists", "yellow_cards", "red_cards", "updated_at").
		WherePK().
		Where("tournament_id = ?", player.TournamentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerImpl) Delete(ctx context.Context, db bun.IDB, tournamentID, id string) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Player)(nil)).
		Where("id = ?", id).
		Where("tournament_id = ?", tournamentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerImpl) DeleteByTeam(ctx context.Context, db bun.IDB, tournamentID, teamID string) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Player)(nil)).
		Where("team_id = ?", teamID).
		Where("tournament_id = ?", tournamentID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete squad: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

func (r *PlayerImpl) GetByID(ctx context.Context, db bun.IDB, tournamentID, id string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("id = ?", id).
		Where("tournament_id = ?", tournamentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}
	return player, nil
}

func (r *PlayerImpl) List(ctx context.Context, db bun.IDB, tournamentID string, filter PlayerFilter) ([]*Player, error) {
	db = r.resolveDB(db)
	var players []*Player
	q := db.NewSelect().
		Model(&players).
		Where("tournament_id = ?", tournamentID).
		Order("seq ASC")
	if filter.Position != "" {
		q = q.Where("position = ?", filter.Position)
	}
	if filter.TeamID != "" {
		q = q.Where("team_id = ?", filter.TeamID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (r *PlayerImpl) Count(ctx context.Context, db bun.IDB, tournamentID string) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Player)(nil)).
		Where("tournament_id = ?", tournamentID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}
