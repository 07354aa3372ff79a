package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SaloAlex/clasharena/internal/domain/match"
)

type recordKey struct {
	tournamentID   string
	registrationID string
	matchID        string
}

type MatchRecordRepository struct {
	mu    sync.Mutex
	items map[recordKey]match.Record
}

func NewMatchRecordRepository() *MatchRecordRepository {
	return &MatchRecordRepository{items: map[recordKey]match.Record{}}
}

// CreateIfAbsent is check-and-insert under one lock, matching the database
// implementation's ON CONFLICT DO NOTHING semantics.
func (r *MatchRecordRepository) CreateIfAbsent(_ context.Context, record match.Record) (bool, error) {
	key := recordKey{record.TournamentID, record.RegistrationID, record.MatchID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[key]; exists {
		return false, nil
	}
	r.items[key] = record
	return true, nil
}

func (r *MatchRecordRepository) Exists(_ context.Context, tournamentID, registrationID, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[recordKey{tournamentID, registrationID, matchID}]
	return ok, nil
}

func (r *MatchRecordRepository) CountOnDay(_ context.Context, tournamentID, registrationID string, dayStart time.Time) (int, error) {
	dayEnd := nextDayStart(dayStart)
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key, rec := range r.items {
		if key.tournamentID != tournamentID || key.registrationID != registrationID {
			continue
		}
		if !rec.StartTimestamp.Before(dayStart) && rec.StartTimestamp.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

// nextDayStart is the following midnight in dayStart's location. A flat 24h
// offset would drift an hour on DST shift days.
func nextDayStart(dayStart time.Time) time.Time {
	y, m, d := dayStart.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, dayStart.Location())
}

func (r *MatchRecordRepository) ListByRegistration(_ context.Context, tournamentID, registrationID string) ([]match.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []match.Record
	for key, rec := range r.items {
		if key.tournamentID == tournamentID && key.registrationID == registrationID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTimestamp.After(out[j].StartTimestamp) })
	return out, nil
}
