package matchdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

// MemoryRepository keeps matches in process. The db argument is ignored.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Match
	ordered map[string][]string
}

// NewMemoryRepository creates an empty in-memory match repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*Match),
		ordered: make(map[string][]string),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) InsertMany(_ context.Context, _ bun.IDB, matches []*Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range matches {
		if _, exists := r.byID[m.ID]; exists {
			return fmt.Errorf("failed to insert matches: duplicate id %s", m.ID)
		}
	}

	now := time.Now().UTC()
	for _, m := range matches {
		m.Seq = len(r.ordered[m.TournamentID])
		m.CreatedAt = now
		m.UpdatedAt = now
		r.byID[m.ID] = m.clone()
		r.ordered[m.TournamentID] = append(r.ordered[m.TournamentID], m.ID)
	}
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, _ bun.IDB, match *Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(match, "")
}

func (r *MemoryRepository) UpdateFromStatus(_ context.Context, _ bun.IDB, match *Match, fromStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(match, fromStatus)
}

// update requires r.mu. An empty fromStatus skips the status check.
func (r *MemoryRepository) update(match *Match, fromStatus string) error {
	stored, ok := r.byID[match.ID]
	if !ok {
		return ErrNotFound
	}
	if fromStatus != "" && stored.Status != fromStatus {
		return ErrStatusChanged
	}
	match.UpdatedAt = time.Now().UTC()
	updated := stored.clone()
	updated.Status = match.Status
	updated.ScoreA = match.ScoreA
	updated.ScoreB = match.ScoreB
	updated.Winner = match.Winner
	updated.UpdatedAt = match.UpdatedAt
	r.byID[match.ID] = updated.clone()
	return nil
}

// GetForUpdate is GetByID. The service mutex already serializes in-process writers.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, db bun.IDB, id string) (*Match, error) {
	return r.GetByID(ctx, db, id)
}

func (r *MemoryRepository) GetByID(_ context.Context, _ bun.IDB, id string) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.clone(), nil
}

func (r *MemoryRepository) ListByTournament(_ context.Context, _ bun.IDB, tournamentID string, filter ListFilter) ([]*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Match, 0, len(r.ordered[tournamentID]))
	for _, id := range r.ordered[tournamentID] {
		m := r.byID[id]
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Team != "" && m.TeamA != filter.Team && m.TeamB != filter.Team {
			continue
		}
		out = append(out, m.clone())
	}
	return out, nil
}

func (r *MemoryRepository) CountByTournament(_ context.Context, _ bun.IDB, tournamentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered[tournamentID]), nil
}
