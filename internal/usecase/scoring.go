package usecase

import (
	"math"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
)

// Score converts one player's performance in a match into a point award and
// its reason-tagged breakdown. It is a pure function: identical inputs always
// produce identical output, which is what makes replaying a scan safe.
//
// A perfect game means the scored player recorded zero deaths; the team
// outcome is irrelevant.
//
// The returned entries break down the base subtotal before the queue
// multiplier and cap are applied; the returned total is the stored award.
func Score(m match.External, stats match.ParticipantStats, policy tournament.ScoringPolicy, queueMultiplier float64) (int, []match.PointEntry) {
	entries := make([]match.PointEntry, 0, 6)
	subtotal := 0

	if stats.Win {
		subtotal += policy.PointsForWin
		entries = append(entries, match.PointEntry{Reason: match.ReasonWin, Points: policy.PointsForWin})
	} else {
		subtotal += policy.PointsForLoss
		if policy.PointsForLoss > 0 {
			entries = append(entries, match.PointEntry{Reason: match.ReasonLoss, Points: policy.PointsForLoss})
		}
	}

	if stats.FirstBloodKill && policy.FirstBloodBonus > 0 {
		subtotal += policy.FirstBloodBonus
		entries = append(entries, match.PointEntry{Reason: match.ReasonFirstBlood, Points: policy.FirstBloodBonus})
	}
	if stats.FirstTowerKill && policy.FirstTowerBonus > 0 {
		subtotal += policy.FirstTowerBonus
		entries = append(entries, match.PointEntry{Reason: match.ReasonFirstTower, Points: policy.FirstTowerBonus})
	}
	if stats.Deaths == 0 && policy.PerfectGameBonus > 0 {
		subtotal += policy.PerfectGameBonus
		entries = append(entries, match.PointEntry{Reason: match.ReasonPerfectGame, Points: policy.PerfectGameBonus})
	}

	if killPoints := policy.BonusPerKill * stats.Kills; killPoints > 0 {
		subtotal += killPoints
		entries = append(entries, match.PointEntry{Reason: match.ReasonKills, Points: killPoints})
	}
	if assistPoints := policy.BonusPerAssist * stats.Assists; assistPoints > 0 {
		subtotal += assistPoints
		entries = append(entries, match.PointEntry{Reason: match.ReasonAssists, Points: assistPoints})
	}

	if queueMultiplier <= 0 {
		queueMultiplier = 1.0
	}
	total := int(math.Round(float64(subtotal) * queueMultiplier))

	if policy.CapPerMatch > 0 && total > policy.CapPerMatch {
		total = policy.CapPerMatch
	}
	if total < 0 {
		total = 0
	}

	return total, entries
}
