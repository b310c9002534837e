package matchdb

import (
	"context"

	"github.com/uptrace/bun"
)

// ListFilter narrows ListByTournament. Zero values match everything.
type ListFilter struct {
	Status string
	Team   string
}

// Repository defines the contract for match persistence.
type Repository interface {
	// InsertMany stores new matches in order, assigning their sequence numbers.
	InsertMany(ctx context.Context, db bun.IDB, matches []*Match) error

	// Update overwrites the lifecycle fields of an existing match.
	Update(ctx context.Context, db bun.IDB, match *Match) error

	// UpdateFromStatus is Update guarded by the status the caller loaded. It returns
	// ErrStatusChanged when another writer moved the match first.
	UpdateFromStatus(ctx context.Context, db bun.IDB, match *Match, fromStatus string) error

	// GetByID retrieves a match by its ID.
	GetByID(ctx context.Context, db bun.IDB, id string) (*Match, error)

	// GetForUpdate retrieves a match and locks its row until db's transaction ends.
	GetForUpdate(ctx context.Context, db bun.IDB, id string) (*Match, error)

	// ListByTournament returns a tournament's matches in schedule order.
	ListByTournament(ctx context.Context, db bun.IDB, tournamentID string, filter ListFilter) ([]*Match, error)

	// CountByTournament returns how many matches a tournament has.
	CountByTournament(ctx context.Context, db bun.IDB, tournamentID string) (int, error)
}
