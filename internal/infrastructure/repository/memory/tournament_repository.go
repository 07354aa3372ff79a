package memory

import (
	"context"
	"sync"

	"github.com/SaloAlex/clasharena/internal/domain/tournament"
)

// TournamentRepository is a mutex-guarded map store, used by tests and by
// deployments that run without a database.
type TournamentRepository struct {
	mu    sync.RWMutex
	items map[string]tournament.Tournament
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{items: map[string]tournament.Tournament{}}
}

func (r *TournamentRepository) Put(t tournament.Tournament) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.ID] = t
}

func (r *TournamentRepository) Get(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[tournamentID]
	return t, ok, nil
}

func (r *TournamentRepository) ListActive(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]tournament.Tournament, 0, len(r.items))
	for _, t := range r.items {
		if t.Status == tournament.StatusActive {
			out = append(out, t)
		}
	}
	return out, nil
}
