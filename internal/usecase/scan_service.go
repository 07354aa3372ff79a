package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/registration"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
	"github.com/SaloAlex/clasharena/internal/platform/logging"
)

const (
	defaultIDPageSize    = 20
	defaultDetailWorkers = 4
	// maxNewMatchesPerPass bounds one registration's detail-fetch work per
	// pass. Paging keeps going past already-recorded ids, so a backlog
	// deeper than one pass drains over successive passes.
	maxNewMatchesPerPass = 100
)

// MatchWindow bounds a match-id listing to matches started inside
// [Start, End].
type MatchWindow struct {
	Start time.Time
	End   time.Time
}

// MatchProvider is the read surface of the external game API the scan needs.
// *riot.Client satisfies it.
type MatchProvider interface {
	ListMatchIDs(ctx context.Context, platform, puuid string, window MatchWindow, start, count int) ([]string, error)
	GetMatch(ctx context.Context, platform, matchID string) (match.External, error)
}

// ScanError is one non-fatal failure recorded during a scan.
type ScanError struct {
	RegistrationID string `json:"registration_id"`
	MatchID        string `json:"match_id,omitempty"`
	Category       string `json:"category"`
	Message        string `json:"message"`
}

const (
	errCategoryRateLimited  = "rate_limited"
	errCategoryUpstream     = "upstream_unavailable"
	errCategoryNotFound     = "match_not_found"
	errCategoryMalformed    = "malformed_match"
	errCategoryUnlinked     = "account_unlinked"
	errCategoryRegistration = "registration_failed"
)

// ScanSummary is the terminal result of one scan pass.
type ScanSummary struct {
	TournamentID         string      `json:"tournament_id"`
	RegistrationsScanned int         `json:"registrations_scanned"`
	ProcessedMatches     int         `json:"processed_matches"`
	NewPoints            int         `json:"new_points"`
	SkippedIneligible    int         `json:"skipped_ineligible"`
	SkippedDuplicate     int         `json:"skipped_duplicate"`
	SkippedRateLimited   int         `json:"skipped_rate_limited"`
	SkippedUpstream      int         `json:"skipped_upstream"`
	SkippedNotFound      int         `json:"skipped_not_found"`
	SkippedMalformed     int         `json:"skipped_malformed"`
	Errors               []ScanError `json:"errors"`
}

// ScanService drives the ingestion pipeline: enumerate registrations, pull
// match history, filter, dedupe, score, and commit totals.
type ScanService struct {
	tournamentRepo   tournament.Repository
	registrationRepo registration.Repository
	recordRepo       match.RecordRepository
	provider         MatchProvider
	logger           *logging.Logger
	now              func() time.Time
	idPageSize       int
	detailWorkers    int
}

func NewScanService(
	tournamentRepo tournament.Repository,
	registrationRepo registration.Repository,
	recordRepo match.RecordRepository,
	provider MatchProvider,
	logger *logging.Logger,
) *ScanService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScanService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		recordRepo:       recordRepo,
		provider:         provider,
		logger:           logger,
		now:              time.Now,
		idPageSize:       defaultIDPageSize,
		detailWorkers:    defaultDetailWorkers,
	}
}

// SetBatching overrides the id page size and detail-fetch worker count.
func (s *ScanService) SetBatching(idPageSize, detailWorkers int) {
	if idPageSize > 0 {
		if idPageSize > defaultIDPageSize {
			idPageSize = defaultIDPageSize
		}
		s.idPageSize = idPageSize
	}
	if detailWorkers > 0 {
		s.detailWorkers = detailWorkers
	}
}

// ScanTournament runs one scan pass over every registration of an active
// tournament. Per-registration failures are recorded in the summary and the
// loop continues; failures before enumeration abort the scan.
func (s *ScanService) ScanTournament(ctx context.Context, tournamentID string) (ScanSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScanService.ScanTournament")
	defer span.End()

	tour, err := s.loadScannableTournament(ctx, tournamentID)
	if err != nil {
		return ScanSummary{}, err
	}

	registrations, err := s.registrationRepo.ListByTournament(ctx, tour.ID)
	if err != nil {
		return ScanSummary{}, fmt.Errorf("list registrations tournament=%s: %w", tour.ID, err)
	}

	summary := ScanSummary{TournamentID: tour.ID}
	for _, reg := range registrations {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		s.scanRegistrationInto(ctx, tour, reg, &summary)
	}

	s.logger.InfoContext(ctx, "tournament scan finished",
		"tournament_id", tour.ID,
		"registrations", summary.RegistrationsScanned,
		"processed_matches", summary.ProcessedMatches,
		"new_points", summary.NewPoints,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

// ScanRegistration runs the same pipeline for a single registration.
func (s *ScanService) ScanRegistration(ctx context.Context, registrationID string) (ScanSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScanService.ScanRegistration")
	defer span.End()

	reg, found, err := s.registrationRepo.Get(ctx, registrationID)
	if err != nil {
		return ScanSummary{}, fmt.Errorf("get registration %s: %w", registrationID, err)
	}
	if !found {
		return ScanSummary{}, fmt.Errorf("%w: registration %s", ErrNotFound, registrationID)
	}

	tour, err := s.loadScannableTournament(ctx, reg.TournamentID)
	if err != nil {
		return ScanSummary{}, err
	}

	summary := ScanSummary{TournamentID: tour.ID}
	s.scanRegistrationInto(ctx, tour, reg, &summary)
	return summary, nil
}

func (s *ScanService) loadScannableTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	tour, found, err := s.tournamentRepo.Get(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament %s: %w", tournamentID, err)
	}
	if !found {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
	}
	if tour.Status != tournament.StatusActive {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament %s is %s", ErrTournamentNotScannable, tour.ID, tour.Status)
	}
	if err := tour.Policy.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return tour, nil
}

// scanRegistrationInto processes one registration and folds the outcome into
// the shared summary. Failures stay local to the registration.
func (s *ScanService) scanRegistrationInto(
	ctx context.Context,
	tour tournament.Tournament,
	reg registration.Registration,
	summary *ScanSummary,
) {
	if !reg.Verified() {
		s.logger.WarnContext(ctx, "registration has no verified account link, skipping",
			"registration_id", reg.ID, "tournament_id", tour.ID)
		summary.Errors = append(summary.Errors, ScanError{
			RegistrationID: reg.ID,
			Category:       errCategoryUnlinked,
			Message:        "registration has no verified puuid/platform",
		})
		return
	}

	summary.RegistrationsScanned++

	ids, err := s.listNewMatchIDs(ctx, tour, reg)
	if err != nil {
		summary.Errors = append(summary.Errors, ScanError{
			RegistrationID: reg.ID,
			Category:       classifyProviderError(err),
			Message:        err.Error(),
		})
		bumpSkipCounter(summary, classifyProviderError(err))
		return
	}
	if len(ids) == 0 {
		return
	}

	fetched := s.fetchDetails(ctx, reg, ids, summary)

	batchPoints := 0
	batchMatches := 0
	// Stored counts are snapshotted per day before this pass inserts
	// anything for that day; scoredToday tracks this pass's own inserts so
	// they are not counted twice.
	storedOnDay := make(map[time.Time]int)
	scoredToday := make(map[time.Time]int)

	for _, id := range ids {
		m, ok := fetched[id]
		if !ok {
			continue
		}

		stats, ok := m.Participants[reg.PUUID]
		if !ok {
			summary.SkippedMalformed++
			summary.Errors = append(summary.Errors, ScanError{
				RegistrationID: reg.ID,
				MatchID:        m.MatchID,
				Category:       errCategoryMalformed,
				Message:        "expected participant missing from match payload",
			})
			continue
		}

		dayStart := DayStart(tour, m.StartTimestamp)
		scoredOnDay := 0
		if tour.MaxGamesPerDay > 0 {
			stored, known := storedOnDay[dayStart]
			if !known {
				var countErr error
				stored, countErr = s.recordRepo.CountOnDay(ctx, tour.ID, reg.ID, dayStart)
				if countErr != nil {
					summary.Errors = append(summary.Errors, ScanError{
						RegistrationID: reg.ID,
						MatchID:        m.MatchID,
						Category:       errCategoryRegistration,
						Message:        fmt.Sprintf("count scored matches on day: %v", countErr),
					})
					continue
				}
				storedOnDay[dayStart] = stored
			}
			scoredOnDay = stored + scoredToday[dayStart]
		}

		multiplier, rejection := CheckEligibility(m, tour, reg, scoredOnDay)
		if rejection != RejectNone {
			summary.SkippedIneligible++
			continue
		}

		points, entries := Score(m, stats, tour.Policy, multiplier)
		record := match.Record{
			TournamentID:   tour.ID,
			RegistrationID: reg.ID,
			MatchID:        m.MatchID,
			QueueID:        m.QueueID,
			StartTimestamp: m.StartTimestamp,
			Points:         points,
			Entries:        entries,
			ScoredAt:       s.now().UTC(),
		}

		inserted, insertErr := s.recordRepo.CreateIfAbsent(ctx, record)
		if insertErr != nil {
			summary.Errors = append(summary.Errors, ScanError{
				RegistrationID: reg.ID,
				MatchID:        m.MatchID,
				Category:       errCategoryRegistration,
				Message:        fmt.Sprintf("persist match record: %v", insertErr),
			})
			continue
		}
		if !inserted {
			// Another scan won the race for this match.
			summary.SkippedDuplicate++
			continue
		}

		scoredToday[dayStart]++
		batchPoints += points
		batchMatches++
		summary.ProcessedMatches++
		summary.NewPoints += points
	}

	if batchMatches == 0 {
		return
	}
	if err := s.registrationRepo.IncrementTotals(ctx, reg.ID, batchPoints, batchMatches); err != nil {
		summary.Errors = append(summary.Errors, ScanError{
			RegistrationID: reg.ID,
			Category:       errCategoryRegistration,
			Message:        fmt.Sprintf("increment totals: %v", err),
		})
		return
	}

	s.logger.InfoContext(ctx, "registration scan committed",
		"registration_id", reg.ID,
		"tournament_id", tour.ID,
		"new_matches", batchMatches,
		"new_points", batchPoints,
	)
}

// listNewMatchIDs pages through the provider's id listing inside the
// registration's effective window and drops ids that already have a record.
// Provider ordering (newest first) is preserved. Pages full of recorded ids
// do not stop the walk; only a short page or the per-pass budget of new ids
// does, so every match in the window is eventually reached.
func (s *ScanService) listNewMatchIDs(
	ctx context.Context,
	tour tournament.Tournament,
	reg registration.Registration,
) ([]string, error) {
	windowStart := tour.StartAt
	if reg.RegisteredAt.After(windowStart) {
		windowStart = reg.RegisteredAt
	}
	windowEnd := tour.EndAt
	if now := s.now().UTC(); now.Before(windowEnd) {
		windowEnd = now
	}
	window := MatchWindow{Start: windowStart, End: windowEnd}

	var out []string
	for page := 0; ; page++ {
		ids, err := s.provider.ListMatchIDs(ctx, reg.Platform, reg.PUUID, window, page*s.idPageSize, s.idPageSize)
		if err != nil {
			return nil, fmt.Errorf("list match ids: %w", err)
		}

		for _, id := range ids {
			exists, existsErr := s.recordRepo.Exists(ctx, tour.ID, reg.ID, id)
			if existsErr != nil {
				return nil, fmt.Errorf("check match record %s: %w", id, existsErr)
			}
			if exists {
				continue
			}
			out = append(out, id)
			if len(out) == maxNewMatchesPerPass {
				return out, nil
			}
		}

		if len(ids) < s.idPageSize {
			return out, nil
		}
	}
}

// fetchDetails pulls match detail for each id with a bounded worker pool.
// All workers share the process-wide rate limiter through the provider, so
// concurrency raises utilization of the call window, not its size. One
// failed fetch is recorded and skipped; the rest of the batch proceeds.
func (s *ScanService) fetchDetails(
	ctx context.Context,
	reg registration.Registration,
	ids []string,
	summary *ScanSummary,
) map[string]match.External {
	type detailResult struct {
		id  string
		m   match.External
		err error
	}

	results := make(chan detailResult, len(ids))

	pool, err := ants.NewPool(s.detailWorkers)
	if err != nil {
		// Pool construction only fails on nonsense sizes; fall back to
		// sequential fetches rather than dropping the batch.
		for _, id := range ids {
			m, fetchErr := s.provider.GetMatch(ctx, reg.Platform, id)
			results <- detailResult{id: id, m: m, err: fetchErr}
		}
	} else {
		defer pool.Release()

		var workers sync.WaitGroup
		for _, id := range ids {
			id := id
			workers.Add(1)
			if submitErr := pool.Submit(func() {
				defer workers.Done()
				m, fetchErr := s.provider.GetMatch(ctx, reg.Platform, id)
				results <- detailResult{id: id, m: m, err: fetchErr}
			}); submitErr != nil {
				workers.Done()
				results <- detailResult{id: id, err: submitErr}
			}
		}
		workers.Wait()
	}
	close(results)

	fetched := make(map[string]match.External, len(ids))
	for res := range results {
		if res.err != nil {
			category := classifyProviderError(res.err)
			bumpSkipCounter(summary, category)
			summary.Errors = append(summary.Errors, ScanError{
				RegistrationID: reg.ID,
				MatchID:        res.id,
				Category:       category,
				Message:        res.err.Error(),
			})
			continue
		}
		fetched[res.id] = res.m
	}
	return fetched
}

func classifyProviderError(err error) string {
	switch {
	case errors.Is(err, ErrProviderRateLimited):
		return errCategoryRateLimited
	case errors.Is(err, ErrProviderNotFound):
		return errCategoryNotFound
	default:
		return errCategoryUpstream
	}
}

func bumpSkipCounter(summary *ScanSummary, category string) {
	switch category {
	case errCategoryRateLimited:
		summary.SkippedRateLimited++
	case errCategoryUpstream:
		summary.SkippedUpstream++
	case errCategoryNotFound:
		summary.SkippedNotFound++
	case errCategoryMalformed:
		summary.SkippedMalformed++
	}
}
