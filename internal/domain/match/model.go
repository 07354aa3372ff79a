package match

import "time"

// External is a match as fetched from the Riot API, immutable once built.
// Participants is keyed by puuid.
type External struct {
	MatchID         string
	QueueID         int
	StartTimestamp  time.Time
	DurationSeconds int
	Participants    map[string]ParticipantStats
}

type ParticipantStats struct {
	Win            bool
	Kills          int
	Deaths         int
	Assists        int
	FirstBloodKill bool
	FirstTowerKill bool
}

// Reason tags one component of a point award.
type Reason string

const (
	ReasonWin         Reason = "WIN"
	ReasonLoss        Reason = "LOSS"
	ReasonFirstBlood  Reason = "FIRST_BLOOD"
	ReasonFirstTower  Reason = "FIRST_TOWER"
	ReasonPerfectGame Reason = "PERFECT_GAME"
	ReasonKills       Reason = "KILLS"
	ReasonAssists     Reason = "ASSISTS"
)

// PointEntry is one reason-tagged award. Write-once audit rows. The entries
// of a record sum to its base subtotal before the queue multiplier and the
// per-match cap; Record.Points holds the final stored award.
type PointEntry struct {
	Reason Reason
	Points int
}

// Record is the durable memo that a match was scored for a registration.
// Its existence is the dedup signal: at most one Record ever exists per
// (TournamentID, RegistrationID, MatchID).
type Record struct {
	TournamentID   string
	RegistrationID string
	MatchID        string
	QueueID        int
	StartTimestamp time.Time
	Points         int
	Entries        []PointEntry
	ScoredAt       time.Time
}
