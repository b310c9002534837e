package teamdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for team persistence.
type Repository interface {
	// Insert stores a new team. A name already used in the tournament yields ErrDuplicateName.
	Insert(ctx context.Context, db bun.IDB, team *Team) error

	// Update overwrites the editable fields of a team.
	Update(ctx context.Context, db bun.IDB, team *Team) error

	Delete(ctx context.Context, db bun.IDB, tournamentID, id string) error

	GetByID(ctx context.Context, db bun.IDB, tournamentID, id string) (*Team, error)

	// GetByName matches case-insensitively within the tournament.
	GetByName(ctx context.Context, db bun.IDB, tournamentID, name string) (*Team, error)

	// List returns teams in registration order. An empty status matches every team.
	List(ctx context.Context, db bun.IDB, tournamentID, status string) ([]*Team, error)
}

// PlayerFilter narrows PlayerRepository.List. Zero values match everything.
type PlayerFilter struct {
	Position string
	TeamID   string
}

// PlayerRepository defines the contract for player persistence.
type PlayerRepository interface {
	Insert(ctx context.Context, db bun.IDB, player *Player) error

	// UpdateStats overwrites the goal, assist and card totals.
	UpdateStats(ctx context.Context, db bun.IDB, player *Player) error

	Delete(ctx context.Context, db bun.IDB, tournamentID, id string) error

	// DeleteByTeam removes a team's whole squad and reports how many players went.
	DeleteByTeam(ctx context.Context, db bun.IDB, tournamentID, teamID string) (int, error)

	GetByID(ctx context.Context, db bun.IDB, tournamentID, id string) (*Player, error)

	// List returns players in registration order.
	List(ctx context.Context, db bun.IDB, tournamentID string, filter PlayerFilter) ([]*Player, error)

	Count(ctx context.Context, db bun.IDB, tournamentID string) (int, error)
}
