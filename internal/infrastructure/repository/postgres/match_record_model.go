package postgres

import (
	"time"
)

type matchRecordTableModel struct {
	ID             int64     `db:"id"`
	TournamentID   string    `db:"tournament_public_id"`
	RegistrationID string    `db:"registration_public_id"`
	MatchID        string    `db:"match_id"`
	QueueID        int       `db:"queue_id"`
	StartTimestamp time.Time `db:"match_started_at"`
	Points         int       `db:"points"`
	ScoredAt       time.Time `db:"scored_at"`
}

type pointEntryTableModel struct {
	RecordID int64  `db:"match_record_id"`
	Reason   string `db:"reason"`
	Points   int    `db:"points"`
}
