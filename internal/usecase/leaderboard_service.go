package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/registration"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
)

// StandingRow is one leaderboard position. Accumulated totals come straight
// from the registration row, never recomputed from records.
type StandingRow struct {
	Rank           int    `json:"rank"`
	RegistrationID string `json:"registrationId"`
	UserID         string `json:"userId"`
	TotalPoints    int    `json:"totalPoints"`
	TotalMatches   int    `json:"totalMatches"`
}

// LeaderboardService serves the read side: active tournaments, standings,
// and per-entrant match history.
type LeaderboardService struct {
	tournamentRepo   tournament.Repository
	registrationRepo registration.Repository
	recordRepo       match.RecordRepository
}

func NewLeaderboardService(
	tournamentRepo tournament.Repository,
	registrationRepo registration.Repository,
	recordRepo match.RecordRepository,
) *LeaderboardService {
	return &LeaderboardService{
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		recordRepo:       recordRepo,
	}
}

func (s *LeaderboardService) ListActiveTournaments(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ListActiveTournaments")
	defer span.End()

	tours, err := s.tournamentRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active tournaments: %w", err)
	}
	return tours, nil
}

// Standings ranks entrants by total points, ties broken by fewer matches
// played, then by registration id for a stable order.
func (s *LeaderboardService) Standings(ctx context.Context, tournamentID string) ([]StandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	_, found, err := s.tournamentRepo.Get(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("get tournament %s: %w", tournamentID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
	}

	registrations, err := s.registrationRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list registrations tournament=%s: %w", tournamentID, err)
	}

	sort.Slice(registrations, func(i, j int) bool {
		a, b := registrations[i], registrations[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.TotalMatches != b.TotalMatches {
			return a.TotalMatches < b.TotalMatches
		}
		return a.ID < b.ID
	})

	rows := make([]StandingRow, 0, len(registrations))
	for i, reg := range registrations {
		rows = append(rows, StandingRow{
			Rank:           i + 1,
			RegistrationID: reg.ID,
			UserID:         reg.UserID,
			TotalPoints:    reg.TotalPoints,
			TotalMatches:   reg.TotalMatches,
		})
	}
	return rows, nil
}

// MatchHistory lists the scored records for one entrant, newest first.
func (s *LeaderboardService) MatchHistory(ctx context.Context, tournamentID, registrationID string) ([]match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.MatchHistory")
	defer span.End()

	reg, found, err := s.registrationRepo.Get(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("get registration %s: %w", registrationID, err)
	}
	if !found || reg.TournamentID != tournamentID {
		return nil, fmt.Errorf("%w: registration %s in tournament %s", ErrNotFound, registrationID, tournamentID)
	}

	records, err := s.recordRepo.ListByRegistration(ctx, tournamentID, registrationID)
	if err != nil {
		return nil, fmt.Errorf("list match records: %w", err)
	}
	return records, nil
}
