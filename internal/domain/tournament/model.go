package tournament

import "time"

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Queue is a game mode enabled for a tournament. Riot identifies queues by
// small integer ids (420 ranked solo, 440 ranked flex, 450 ARAM).
type Queue struct {
	ID              int
	PointMultiplier float64
}

type Tournament struct {
	ID             string
	Title          string
	StartAt        time.Time
	EndAt          time.Time
	Status         Status
	Queues         []Queue
	Policy         ScoringPolicy
	MaxGamesPerDay int
	// Timezone buckets the per-day game cap; empty means UTC.
	Timezone string
}

// QueueMultiplier reports whether queueID is enabled and its multiplier.
// An enabled queue with a zero multiplier counts at 1.0.
func (t Tournament) QueueMultiplier(queueID int) (float64, bool) {
	for _, q := range t.Queues {
		if q.ID != queueID {
			continue
		}
		if q.PointMultiplier <= 0 {
			return 1.0, true
		}
		return q.PointMultiplier, true
	}
	return 0, false
}

// Location resolves the tournament's day-bucketing timezone, falling back to
// UTC when unset or unknown.
func (t Tournament) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
