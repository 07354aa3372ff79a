package usecase

import (
	"time"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/registration"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
)

// RejectionReason explains why a match was skipped without being scored.
// Rejections are expected flow, never errors.
type RejectionReason string

const (
	RejectQueueDisabled RejectionReason = "queue_disabled"
	RejectOutsideWindow RejectionReason = "outside_window"
	RejectRemake        RejectionReason = "remake"
	RejectDailyCapHit   RejectionReason = "daily_cap_hit"
	RejectNone          RejectionReason = ""
)

// CheckEligibility evaluates the tournament's eligibility rules in order,
// short-circuiting on the first failure:
//
//  1. the match's queue must be enabled,
//  2. the match must have started inside [registeredAt, endAt],
//  3. the match must run at least ignoreRemakesUnderSeconds,
//  4. the registration's per-day scored-match cap must not be reached.
//
// scoredOnDay is the count of already-scored matches on the match's calendar
// day; the caller resolves it only when a daily cap is configured.
func CheckEligibility(
	m match.External,
	tour tournament.Tournament,
	reg registration.Registration,
	scoredOnDay int,
) (float64, RejectionReason) {
	multiplier, enabled := tour.QueueMultiplier(m.QueueID)
	if !enabled {
		return 0, RejectQueueDisabled
	}

	// A player cannot backdate pre-registration games, and post-window games
	// never count.
	if m.StartTimestamp.Before(reg.RegisteredAt) || m.StartTimestamp.After(tour.EndAt) {
		return 0, RejectOutsideWindow
	}

	if m.DurationSeconds < tour.Policy.IgnoreRemakesUnderSeconds {
		return 0, RejectRemake
	}

	if tour.MaxGamesPerDay > 0 && scoredOnDay >= tour.MaxGamesPerDay {
		return 0, RejectDailyCapHit
	}

	return multiplier, RejectNone
}

// DayStart buckets a match start into its calendar day in the tournament's
// timezone, for the per-day cap lookup.
func DayStart(tour tournament.Tournament, startedAt time.Time) time.Time {
	loc := tour.Location()
	local := startedAt.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
