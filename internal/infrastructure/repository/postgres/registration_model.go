package postgres

import (
	"database/sql"
	"time"
)

type registrationTableModel struct {
	ID           string         `db:"public_id"`
	TournamentID string         `db:"tournament_public_id"`
	UserID       string         `db:"user_public_id"`
	PUUID        sql.NullString `db:"puuid"`
	Platform     sql.NullString `db:"platform"`
	RegisteredAt time.Time      `db:"registered_at"`
	TotalPoints  int            `db:"total_points"`
	TotalMatches int            `db:"total_matches"`
}
