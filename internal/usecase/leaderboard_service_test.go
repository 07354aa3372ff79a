package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SaloAlex/clasharena/internal/domain/registration"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
	"github.com/SaloAlex/clasharena/internal/infrastructure/repository/memory"
	"github.com/SaloAlex/clasharena/internal/usecase"
)

func TestStandingsRanksByPointsThenMatches(t *testing.T) {
	tournaments := memory.NewTournamentRepository()
	registrations := memory.NewRegistrationRepository()
	records := memory.NewMatchRecordRepository()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tournaments.Put(tournament.Tournament{ID: "t-1", StartAt: start, EndAt: start.AddDate(0, 1, 0), Status: tournament.StatusActive})

	put := func(id, user string, points, matches int) {
		registrations.Put(registration.Registration{
			ID: id, TournamentID: "t-1", UserID: user,
			PUUID: "p-" + id, Platform: "na1", RegisteredAt: start,
			TotalPoints: points, TotalMatches: matches,
		})
	}
	put("r-1", "u-1", 300, 5)
	put("r-2", "u-2", 500, 8)
	put("r-3", "u-3", 300, 3) // same points as r-1, fewer matches, ranks higher

	svc := usecase.NewLeaderboardService(tournaments, registrations, records)
	rows, err := svc.Standings(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "r-2", rows[0].RegistrationID)
	require.Equal(t, "r-3", rows[1].RegistrationID)
	require.Equal(t, "r-1", rows[2].RegistrationID)
	require.Equal(t, 1, rows[0].Rank)
	require.Equal(t, 3, rows[2].Rank)
}

func TestStandingsUnknownTournament(t *testing.T) {
	svc := usecase.NewLeaderboardService(
		memory.NewTournamentRepository(),
		memory.NewRegistrationRepository(),
		memory.NewMatchRecordRepository(),
	)

	_, err := svc.Standings(context.Background(), "nope")
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestMatchHistoryRejectsForeignRegistration(t *testing.T) {
	tournaments := memory.NewTournamentRepository()
	registrations := memory.NewRegistrationRepository()
	records := memory.NewMatchRecordRepository()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tournaments.Put(tournament.Tournament{ID: "t-1", StartAt: start, EndAt: start.AddDate(0, 1, 0), Status: tournament.StatusActive})
	registrations.Put(registration.Registration{ID: "r-1", TournamentID: "t-other", UserID: "u-1", RegisteredAt: start})

	svc := usecase.NewLeaderboardService(tournaments, registrations, records)
	_, err := svc.MatchHistory(context.Background(), "t-1", "r-1")
	require.ErrorIs(t, err, usecase.ErrNotFound)
}
