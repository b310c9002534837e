package teamdb

import (
	"context"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

// MemoryPlayerRepository keeps players in process. The db argument is ignored.
type MemoryPlayerRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Player
	ordered map[string][]string
	seq     int64
}

// NewMemoryPlayerRepository creates an empty in-memory player repository.
func NewMemoryPlayerRepository() *MemoryPlayerRepository {
	return &MemoryPlayerRepository{
		byID:    make(map[string]*Player),
		ordered: make(map[string][]string),
	}
}

var _ PlayerRepository = (*MemoryPlayerRepository)(nil)

func (r *MemoryPlayerRepository) Insert(_ context.Context, _ bun.IDB, player *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if player.CreatedAt.IsZero() {
		player.CreatedAt = now
	}
	player.UpdatedAt = now
	r.seq++
	player.Seq = r.seq

	stored := *player
	r.byID[player.ID] = &stored
	r.ordered[player.TournamentID] = append(r.ordered[player.TournamentID], player.ID)
	return nil
}

func (r *MemoryPlayerRepository) UpdateStats(_ context.Context, _ bun.IDB, player *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[player.ID]
	if !ok || stored.TournamentID != player.TournamentID {
		return ErrPlayerNotFound
	}
	player.UpdatedAt = time.Now().UTC()
	updated := *stored
	updated.Goals = player.Goals
	updated.Assists = player.Assists
	updated.YellowCards = player.YellowCards
	updated.RedCards = player.RedCards
	updated.UpdatedAt = player.UpdatedAt
	r.byID[player.ID] = &updated
	return nil
}

func (r *MemoryPlayerRepository) Delete(_ context.Context, _ bun.IDB, tournamentID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok || stored.TournamentID != tournamentID {
		return ErrPlayerNotFound
	}
	r.remove(tournamentID, map[string]bool{id: true})
	return nil
}

func (r *MemoryPlayerRepository) DeleteByTeam(_ context.Context, _ bun.IDB, tournamentID, teamID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gone := make(map[string]bool)
	for _, id := range r.ordered[tournamentID] {
		if r.byID[id].TeamID == teamID {
			gone[id] = true
		}
	}
	r.remove(tournamentID, gone)
	return len(gone), nil
}

// remove requires r.mu.
func (r *MemoryPlayerRepository) remove(tournamentID string, ids map[string]bool) {
	if len(ids) == 0 {
		return
	}
	kept := make([]string, 0, len(r.ordered[tournamentID]))
	for _, id := range r.ordered[tournamentID] {
		if ids[id] {
			delete(r.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	r.ordered[tournamentID] = kept
}

func (r *MemoryPlayerRepository) GetByID(_ context.Context, _ bun.IDB, tournamentID, id string) (*Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok || p.TournamentID != tournamentID {
		return nil, ErrPlayerNotFound
	}
	c := *p
	return &c, nil
}

func (r *MemoryPlayerRepository) List(_ context.Context, _ bun.IDB, tournamentID string, filter PlayerFilter) ([]*Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Player, 0, len(r.ordered[tournamentID]))
	for _, id := range r.ordered[tournamentID] {
		p := r.byID[id]
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if filter.TeamID != "" && p.TeamID != filter.TeamID {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r *MemoryPlayerRepository) Count(_ context.Context, _ bun.IDB, tournamentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered[tournamentID]), nil
}
