package postgres

import (
	"time"
)

type tournamentTableModel struct {
	ID             string    `db:"public_id"`
	Title          string    `db:"title"`
	StartAt        time.Time `db:"start_at"`
	EndAt          time.Time `db:"end_at"`
	Status         string    `db:"status"`
	ScoringPolicy  []byte    `db:"scoring_policy"`
	MaxGamesPerDay int       `db:"max_games_per_day"`
	Timezone       string    `db:"timezone"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type tournamentQueueTableModel struct {
	TournamentID    string  `db:"tournament_public_id"`
	QueueID         int     `db:"queue_id"`
	PointMultiplier float64 `db:"point_multiplier"`
}
