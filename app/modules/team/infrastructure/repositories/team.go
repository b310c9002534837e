package teamdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a team is not found.
	ErrNotFound = errors.New("team not found")

	// ErrDuplicateName is returned when a tournament already has a team with the name.
	ErrDuplicateName = errors.New("team name already taken")
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new team repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Insert(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if team.CreatedAt.IsZero() {
		team.CreatedAt = now
	}
	team.UpdatedAt = now

	if _, err := db.NewInsert().Model(team).ExcludeColumn("seq").Returning("seq").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *Impl) Update(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	team.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(team).
		Column("player_count", "status", "updated_at").
		WherePK().
		Where("tournament_id = ?", team.TournamentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, tournamentID, id string) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Team)(nil)).
		Where("id = ?", id).
		Where("tournament_id = ?", tournamentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, tournamentID, id string) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	err := db.NewSelect().
		Model(team).
		Where("id = ?", id).
		Where("tournament_id = ?", tournamentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team by ID: %w", err)
	}
	return team, nil
}

func (r *Impl) GetByName(ctx context.Context, db bun.IDB, tournamentID, name string) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	err := db.NewSelect().
		Model(team).
		Where("tournament_id = ?", tournamentID).
		Where("lower(name) = ?", strings.ToLower(name)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team by name: %w", err)
	}
	return team, nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB, tournamentID, status string) ([]*Team, error) {
	db = r.resolveDB(db)
	var teams []*Team
	q := db.NewSelect().
		Model(&teams).
		Where("tournament_id = ?", tournamentID).
		Order("seq ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
