package usecase

import (
	"testing"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
)

func TestScoreWinWithFirstBloodAndPerfectGame(t *testing.T) {
	policy := tournament.ScoringPolicy{
		PointsForWin:     100,
		FirstBloodBonus:  10,
		PerfectGameBonus: 50,
	}
	stats := match.ParticipantStats{
		Win:            true,
		Kills:          7,
		Deaths:         0,
		Assists:        4,
		FirstBloodKill: true,
	}

	points, entries := Score(match.External{}, stats, policy, 1.0)
	if points != 160 {
		t.Fatalf("points = %d, want 160", points)
	}

	wantReasons := []match.Reason{match.ReasonWin, match.ReasonFirstBlood, match.ReasonPerfectGame}
	if len(entries) != len(wantReasons) {
		t.Fatalf("entries = %v, want reasons %v", entries, wantReasons)
	}
	for i, reason := range wantReasons {
		if entries[i].Reason != reason {
			t.Fatalf("entries[%d].Reason = %s, want %s", i, entries[i].Reason, reason)
		}
	}
}

func TestScoreLossWithZeroLossPointsHasNoEntries(t *testing.T) {
	policy := tournament.ScoringPolicy{PointsForWin: 100, PointsForLoss: 0}
	stats := match.ParticipantStats{Win: false, Deaths: 2}

	points, entries := Score(match.External{}, stats, policy, 1.0)
	if points != 0 {
		t.Fatalf("points = %d, want 0", points)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %v, want none", entries)
	}
}

func TestScoreLossPointsGetLossEntry(t *testing.T) {
	policy := tournament.ScoringPolicy{PointsForWin: 100, PointsForLoss: 25}
	points, entries := Score(match.External{}, match.ParticipantStats{Deaths: 3}, policy, 1.0)
	if points != 25 {
		t.Fatalf("points = %d, want 25", points)
	}
	if len(entries) != 1 || entries[0].Reason != match.ReasonLoss {
		t.Fatalf("entries = %v, want single LOSS entry", entries)
	}
}

func TestScorePerfectGameIgnoresTeamOutcome(t *testing.T) {
	policy := tournament.ScoringPolicy{PointsForWin: 100, PerfectGameBonus: 50}
	stats := match.ParticipantStats{Win: false, Deaths: 0}

	points, entries := Score(match.External{}, stats, policy, 1.0)
	if points != 50 {
		t.Fatalf("points = %d, want 50", points)
	}
	if len(entries) != 1 || entries[0].Reason != match.ReasonPerfectGame {
		t.Fatalf("entries = %v, want single PERFECT_GAME entry", entries)
	}
}

func TestScoreCapClampsTotal(t *testing.T) {
	policy := tournament.ScoringPolicy{
		PointsForWin:    50,
		FirstBloodBonus: 30,
		CapPerMatch:     50,
	}
	stats := match.ParticipantStats{Win: true, Deaths: 1, FirstBloodKill: true}

	points, _ := Score(match.External{}, stats, policy, 1.0)
	if points != 50 {
		t.Fatalf("points = %d, want capped 50", points)
	}
}

func TestScoreMultiplierRoundsHalfUp(t *testing.T) {
	policy := tournament.ScoringPolicy{PointsForWin: 25}
	stats := match.ParticipantStats{Win: true, Deaths: 1}

	points, _ := Score(match.External{}, stats, policy, 1.5)
	if points != 38 {
		t.Fatalf("points = %d, want 38 (round(37.5))", points)
	}
}

func TestScoreEntriesRecordBaseBreakdown(t *testing.T) {
	policy := tournament.ScoringPolicy{PointsForWin: 80, FirstBloodBonus: 20}
	stats := match.ParticipantStats{Win: true, Deaths: 3, FirstBloodKill: true}

	points, entries := Score(match.External{}, stats, policy, 2.0)
	if points != 200 {
		t.Fatalf("points = %d, want 200 (multiplied)", points)
	}
	sum := 0
	for _, e := range entries {
		sum += e.Points
	}
	if sum != 100 {
		t.Fatalf("entries sum = %d, want base subtotal 100", sum)
	}
}

func TestScoreZeroMultiplierCountsAsOne(t *testing.T) {
	policy := tournament.ScoringPolicy{PointsForWin: 100}
	stats := match.ParticipantStats{Win: true, Deaths: 1}

	points, _ := Score(match.External{}, stats, policy, 0)
	if points != 100 {
		t.Fatalf("points = %d, want 100", points)
	}
}

func TestScoreKillAndAssistBonuses(t *testing.T) {
	policy := tournament.ScoringPolicy{
		PointsForWin:   100,
		BonusPerKill:   2,
		BonusPerAssist: 1,
	}
	stats := match.ParticipantStats{Win: true, Kills: 10, Deaths: 4, Assists: 8}

	points, entries := Score(match.External{}, stats, policy, 1.0)
	if points != 128 {
		t.Fatalf("points = %d, want 128", points)
	}
	if entries[len(entries)-1].Reason != match.ReasonAssists || entries[len(entries)-1].Points != 8 {
		t.Fatalf("last entry = %v, want ASSISTS/8", entries[len(entries)-1])
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	policy := tournament.DefaultPolicy()
	stats := match.ParticipantStats{Win: true, Kills: 3, Deaths: 2, Assists: 11, FirstTowerKill: true}

	first, _ := Score(match.External{}, stats, policy, 1.25)
	for i := 0; i < 100; i++ {
		got, _ := Score(match.External{}, stats, policy, 1.25)
		if got != first {
			t.Fatalf("run %d: points = %d, want %d", i, got, first)
		}
	}
}
