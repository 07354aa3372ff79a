package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SaloAlex/clasharena/internal/domain/registration"
)

type RegistrationRepository struct {
	mu    sync.RWMutex
	items map[string]registration.Registration
}

func NewRegistrationRepository() *RegistrationRepository {
	return &RegistrationRepository{items: map[string]registration.Registration{}}
}

func (r *RegistrationRepository) Put(reg registration.Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[reg.ID] = reg
}

func (r *RegistrationRepository) Get(_ context.Context, registrationID string) (registration.Registration, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.items[registrationID]
	return reg, ok, nil
}

func (r *RegistrationRepository) ListByTournament(_ context.Context, tournamentID string) ([]registration.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []registration.Registration
	for _, reg := range r.items {
		if reg.TournamentID == tournamentID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// IncrementTotals applies the delta under the store lock, so concurrent
// scans never lose an update.
func (r *RegistrationRepository) IncrementTotals(_ context.Context, registrationID string, points, matches int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.items[registrationID]
	if !ok {
		return fmt.Errorf("increment registration totals: registration %s not found", registrationID)
	}
	reg.TotalPoints += points
	reg.TotalMatches += matches
	r.items[registrationID] = reg
	return nil
}
