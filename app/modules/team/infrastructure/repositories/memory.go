package teamdb

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

// MemoryRepository keeps teams in process. The db argument is ignored.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Team
	ordered map[string][]string
	seq     int64
}

// NewMemoryRepository creates an empty in-memory team repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*Team),
		ordered: make(map[string][]string),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Insert(_ context.Context, _ bun.IDB, team *Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByName(team.TournamentID, team.Name) != nil {
		return ErrDuplicateName
	}

	now := time.Now().UTC()
	if team.CreatedAt.IsZero() {
		team.CreatedAt = now
	}
	team.UpdatedAt = now
	r.seq++
	team.Seq = r.seq

	stored := *team
	r.byID[team.ID] = &stored
	r.ordered[team.TournamentID] = append(r.ordered[team.TournamentID], team.ID)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, _ bun.IDB, team *Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[team.ID]
	if !ok || stored.TournamentID != team.TournamentID {
		return ErrNotFound
	}
	team.UpdatedAt = time.Now().UTC()
	updated := *stored
	updated.PlayerCount = team.PlayerCount
	updated.Status = team.Status
	updated.UpdatedAt = team.UpdatedAt
	r.byID[team.ID] = &updated
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, _ bun.IDB, tournamentID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok || stored.TournamentID != tournamentID {
		return ErrNotFound
	}
	delete(r.byID, id)
	ids := r.ordered[tournamentID]
	for i, existing := range ids {
		if existing == id {
			r.ordered[tournamentID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, _ bun.IDB, tournamentID, id string) (*Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok || t.TournamentID != tournamentID {
		return nil, ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r *MemoryRepository) GetByName(_ context.Context, _ bun.IDB, tournamentID, name string) (*Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := r.findByName(tournamentID, name)
	if t == nil {
		return nil, ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r *MemoryRepository) List(_ context.Context, _ bun.IDB, tournamentID, status string) ([]*Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Team, 0, len(r.ordered[tournamentID]))
	for _, id := range r.ordered[tournamentID] {
		t := r.byID[id]
		if status != "" && t.Status != status {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (r *MemoryRepository) findByName(tournamentID, name string) *Team {
	for _, id := range r.ordered[tournamentID] {
		if t := r.byID[id]; strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}
