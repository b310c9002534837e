package matchdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a match is not found.
	ErrNotFound = errors.New("match not found")

	// ErrStatusChanged is returned by UpdateFromStatus when the stored status no longer
	// matches the one the caller loaded.
	ErrStatusChanged = errors.New("match status changed")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new match repository.
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

// InsertMany stores new matches after the tournament's existing ones.
func (r *Impl) InsertMany(ctx context.Context, db bun.IDB, matches []*Match) error {
	if len(matches) == 0 {
		return nil
	}
	db = r.resolveDB(db)

	var next int
	err := db.NewSelect().
		Model((*Match)(nil)).
		ColumnExpr("COALESCE(MAX(seq) + 1, 0)").
		Where("tournament_id = ?", matches[0].TournamentID).
		Scan(ctx, &next)
	if err != nil {
		return fmt.Errorf("failed to read next match sequence: %w", err)
	}

	now := time.Now().UTC()
	for i, m := range matches {
		m.Seq = next + i
		m.CreatedAt = now
		m.UpdatedAt = now
	}

	if _, err := db.NewInsert().Model(&matches).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert matches: %w", err)
	}
	return nil
}

// Update writes the lifecycle fields of a match.
func (r *Impl) Update(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	match.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(match).
		Column("status", "score_a", "score_b", "winner", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
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

// UpdateFromStatus writes the lifecycle fields only while the stored status is still
// fromStatus.
func (r *Impl) UpdateFromStatus(ctx context.Context, db bun.IDB, match *Match, fromStatus string) error {
	db = r.resolveDB(db)
	match.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(match).
		Column("status", "score_a", "score_b", "winner", "updated_at").
		WherePK().
		Where("status = ?", fromStatus).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	exists, err := db.NewSelect().Model((*Match)(nil)).Where("id = ?", match.ID).Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check match: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusChanged
}

// GetByID retrieves a match by its ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id string) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	err := db.NewSelect().
		Model(match).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match by ID: %w", err)
	}
	return match, nil
}

// GetForUpdate retrieves a match with SELECT ... FOR UPDATE. Outside a transaction the
// lock is released as soon as the statement finishes.
func (r *Impl) GetForUpdate(ctx context.Context, db bun.IDB, id string) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	err := db.NewSelect().
		Model(match).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock match: %w", err)
	}
	return match, nil
}

// ListByTournament returns a tournament's matches in schedule order.
func (r *Impl) ListByTournament(ctx context.Context, db bun.IDB, tournamentID string, filter ListFilter) ([]*Match, error) {
	db = r.resolveDB(db)
	var matches []*Match
	q := db.NewSelect().
		Model(&matches).
		Where("tournament_id = ?", tournamentID).
		Order("seq ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Team != "" {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("team_a = ?", filter.Team).WhereOr("team_b = ?", filter.Team)
		})
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// CountByTournament returns how many matches a tournament has.
func (r *Impl) CountByTournament(ctx context.Context, db bun.IDB, tournamentID string) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Match)(nil)).
		Where("tournament_id = ?", tournamentID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
