package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/registration"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
	"github.com/SaloAlex/clasharena/internal/infrastructure/repository/memory"
	"github.com/SaloAlex/clasharena/internal/platform/logging"
	"github.com/SaloAlex/clasharena/internal/usecase"
)

// stubProvider serves canned matches and can fail specific match ids.
type stubProvider struct {
	mu       sync.Mutex
	ids      []string
	matches  map[string]match.External
	fail     map[string]error
	getCalls int
}

func (p *stubProvider) ListMatchIDs(_ context.Context, _, _ string, _ usecase.MatchWindow, start, count int) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if start >= len(p.ids) {
		return nil, nil
	}
	end := start + count
	if end > len(p.ids) {
		end = len(p.ids)
	}
	return p.ids[start:end], nil
}

func (p *stubProvider) GetMatch(_ context.Context, _, matchID string) (match.External, error) {
	p.mu.Lock()
	p.getCalls++
	p.mu.Unlock()
	if err, ok := p.fail[matchID]; ok {
		return match.External{}, err
	}
	m, ok := p.matches[matchID]
	if !ok {
		return match.External{}, usecase.ErrProviderNotFound
	}
	return m, nil
}

type scanFixture struct {
	tournaments   *memory.TournamentRepository
	registrations *memory.RegistrationRepository
	records       *memory.MatchRecordRepository
	provider      *stubProvider
	service       *usecase.ScanService
	tour          tournament.Tournament
	reg           registration.Registration
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f := &scanFixture{
		tournaments:   memory.NewTournamentRepository(),
		registrations: memory.NewRegistrationRepository(),
		records:       memory.NewMatchRecordRepository(),
		provider:      &stubProvider{matches: map[string]match.External{}, fail: map[string]error{}},
	}
	f.tour = tournament.Tournament{
		ID:      "t-1",
		Title:   "Spring Clash",
		StartAt: start,
		EndAt:   start.AddDate(0, 1, 0),
		Status:  tournament.StatusActive,
		Queues:  []tournament.Queue{{ID: 420, PointMultiplier: 1.0}},
		Policy:  tournament.DefaultPolicy(),
	}
	f.reg = registration.Registration{
		ID:           "r-1",
		TournamentID: "t-1",
		UserID:       "u-1",
		PUUID:        "puuid-1",
		Platform:     "na1",
		RegisteredAt: start,
		TotalPoints:  0,
	}
	f.tournaments.Put(f.tour)
	f.registrations.Put(f.reg)

	f.service = usecase.NewScanService(f.tournaments, f.registrations, f.records, f.provider, logging.NewNop())
	return f
}

func (f *scanFixture) addMatch(id string, startedAt time.Time, stats match.ParticipantStats) {
	f.provider.ids = append(f.provider.ids, id)
	f.provider.matches[id] = match.External{
		MatchID:         id,
		QueueID:         420,
		StartTimestamp:  startedAt,
		DurationSeconds: 1800,
		Participants:    map[string]match.ParticipantStats{"puuid-1": stats},
	}
}

func TestScanTournamentScoresNewMatches(t *testing.T) {
	f := newScanFixture(t)
	played := f.tour.StartAt.Add(6 * time.Hour)
	f.addMatch("NA1_100", played, match.ParticipantStats{Win: true, Deaths: 2})
	f.addMatch("NA1_101", played.Add(time.Hour), match.ParticipantStats{Win: false, Deaths: 3})

	summary, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, 2, summary.ProcessedMatches)
	require.Equal(t, 100, summary.NewPoints) // win 100, loss 0
	require.Empty(t, summary.Errors)

	reg, _, _ := f.registrations.Get(context.Background(), "r-1")
	require.Equal(t, 100, reg.TotalPoints)
	require.Equal(t, 2, reg.TotalMatches)
}

func TestScanTournamentIsIdempotent(t *testing.T) {
	f := newScanFixture(t)
	f.addMatch("NA1_100", f.tour.StartAt.Add(time.Hour), match.ParticipantStats{Win: true, Deaths: 1})

	first, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, 100, first.NewPoints)

	second, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Zero(t, second.NewPoints)
	require.Zero(t, second.ProcessedMatches)

	reg, _, _ := f.registrations.Get(context.Background(), "r-1")
	require.Equal(t, 100, reg.TotalPoints)
	require.Equal(t, 1, reg.TotalMatches)
}

func TestScanDrainsBacklogBeyondOnePassBudget(t *testing.T) {
	f := newScanFixture(t)
	const total = 120
	base := f.tour.StartAt.Add(time.Hour)
	for i := 0; i < total; i++ {
		f.addMatch(fmt.Sprintf("NA1_%03d", i), base.Add(time.Duration(i)*time.Minute), match.ParticipantStats{Win: true, Deaths: 1})
	}

	first, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, 100, first.ProcessedMatches)

	// The second pass must page past the hundred already-recorded ids and
	// reach the older matches instead of re-listing the same window.
	second, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, 20, second.ProcessedMatches)

	records, err := f.records.ListByRegistration(context.Background(), "t-1", "r-1")
	require.NoError(t, err)
	require.Len(t, records, total)

	reg, _, _ := f.registrations.Get(context.Background(), "r-1")
	require.Equal(t, total, reg.TotalMatches)
}

func TestConcurrentScansAwardEachMatchOnce(t *testing.T) {
	f := newScanFixture(t)
	f.reg.TotalPoints = 500
	f.registrations.Put(f.reg)
	f.addMatch("NA1_100", f.tour.StartAt.Add(time.Hour), match.ParticipantStats{Win: true, Deaths: 2})
	f.addMatch("NA1_101", f.tour.StartAt.Add(2*time.Hour), match.ParticipantStats{Win: true, Deaths: 4})

	var wg sync.WaitGroup
	scanErrs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.ScanTournament(context.Background(), "t-1")
			scanErrs <- err
		}()
	}
	wg.Wait()
	close(scanErrs)
	for err := range scanErrs {
		require.NoError(t, err)
	}

	reg, _, _ := f.registrations.Get(context.Background(), "r-1")
	require.Equal(t, 700, reg.TotalPoints)
	require.Equal(t, 2, reg.TotalMatches)

	records, err := f.records.ListByRegistration(context.Background(), "t-1", "r-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestScanSkipsRemakes(t *testing.T) {
	f := newScanFixture(t)
	f.provider.ids = append(f.provider.ids, "NA1_100")
	f.provider.matches["NA1_100"] = match.External{
		MatchID:         "NA1_100",
		QueueID:         420,
		StartTimestamp:  f.tour.StartAt.Add(time.Hour),
		DurationSeconds: 120,
		Participants:    map[string]match.ParticipantStats{"puuid-1": {Win: true, Deaths: 0}},
	}

	summary, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Zero(t, summary.NewPoints)
	require.Equal(t, 1, summary.SkippedIneligible)

	reg, _, _ := f.registrations.Get(context.Background(), "r-1")
	require.Zero(t, reg.TotalPoints)
}

func TestScanToleratesSingleMatchFailure(t *testing.T) {
	f := newScanFixture(t)
	played := f.tour.StartAt.Add(time.Hour)
	f.addMatch("NA1_100", played, match.ParticipantStats{Win: true, Deaths: 2})
	f.addMatch("NA1_101", played.Add(time.Hour), match.ParticipantStats{Win: true, Deaths: 2})
	f.provider.fail["NA1_100"] = usecase.ErrProviderUnavailable

	summary, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, 1, summary.ProcessedMatches)
	require.Equal(t, 100, summary.NewPoints)
	require.Equal(t, 1, summary.SkippedUpstream)
	require.Len(t, summary.Errors, 1)
	require.Equal(t, "NA1_100", summary.Errors[0].MatchID)
}

func TestScanEnforcesDailyCapWithinOnePass(t *testing.T) {
	f := newScanFixture(t)
	f.tour.MaxGamesPerDay = 2
	f.tournaments.Put(f.tour)

	day := f.tour.StartAt.Add(8 * time.Hour)
	f.addMatch("NA1_100", day, match.ParticipantStats{Win: true, Deaths: 1})
	f.addMatch("NA1_101", day.Add(time.Hour), match.ParticipantStats{Win: true, Deaths: 1})
	f.addMatch("NA1_102", day.Add(2*time.Hour), match.ParticipantStats{Win: true, Deaths: 1})

	summary, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, 2, summary.ProcessedMatches)
	require.Equal(t, 1, summary.SkippedIneligible)
}

func TestScanRejectsNonActiveTournament(t *testing.T) {
	f := newScanFixture(t)
	f.tour.Status = tournament.StatusFinished
	f.tournaments.Put(f.tour)

	_, err := f.service.ScanTournament(context.Background(), "t-1")
	require.ErrorIs(t, err, usecase.ErrTournamentNotScannable)
}

func TestScanUnknownTournament(t *testing.T) {
	f := newScanFixture(t)
	_, err := f.service.ScanTournament(context.Background(), "nope")
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestScanSkipsUnverifiedRegistration(t *testing.T) {
	f := newScanFixture(t)
	f.reg.PUUID = ""
	f.registrations.Put(f.reg)
	f.addMatch("NA1_100", f.tour.StartAt.Add(time.Hour), match.ParticipantStats{Win: true})

	summary, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Zero(t, summary.RegistrationsScanned)
	require.Len(t, summary.Errors, 1)
	require.Equal(t, "account_unlinked", summary.Errors[0].Category)
}

func TestScanRegistrationScopesToOneEntrant(t *testing.T) {
	f := newScanFixture(t)
	other := registration.Registration{
		ID:           "r-2",
		TournamentID: "t-1",
		UserID:       "u-2",
		PUUID:        "puuid-2",
		Platform:     "na1",
		RegisteredAt: f.tour.StartAt,
	}
	f.registrations.Put(other)
	f.addMatch("NA1_100", f.tour.StartAt.Add(time.Hour), match.ParticipantStats{Win: true, Deaths: 2})

	summary, err := f.service.ScanRegistration(context.Background(), "r-1")
	require.NoError(t, err)
	require.Equal(t, 1, summary.RegistrationsScanned)
	require.Equal(t, 100, summary.NewPoints)

	otherReg, _, _ := f.registrations.Get(context.Background(), "r-2")
	require.Zero(t, otherReg.TotalPoints)
}

func TestScanBucketsProviderErrors(t *testing.T) {
	f := newScanFixture(t)
	played := f.tour.StartAt.Add(time.Hour)
	f.addMatch("NA1_100", played, match.ParticipantStats{Win: true, Deaths: 2})
	f.provider.fail["NA1_100"] = errors.New("socket reset")

	summary, err := f.service.ScanTournament(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, 1, summary.SkippedUpstream)
	require.Equal(t, "upstream_unavailable", summary.Errors[0].Category)
}
