package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SaloAlex/clasharena/internal/domain/tournament"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

const tournamentSelectColumns = `public_id, title, start_at, end_at, status, scoring_policy, max_games_per_day, timezone, created_at, updated_at`

func (r *TournamentRepository) Get(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	var row tournamentTableModel
	query := `SELECT ` + tournamentSelectColumns + ` FROM tournaments WHERE public_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &row, query, tournamentID); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}

	tour, err := r.hydrate(ctx, row)
	if err != nil {
		return tournament.Tournament{}, false, err
	}
	return tour, true, nil
}

func (r *TournamentRepository) ListActive(ctx context.Context) ([]tournament.Tournament, error) {
	var rows []tournamentTableModel
	query := `SELECT ` + tournamentSelectColumns + ` FROM tournaments WHERE status = $1 AND deleted_at IS NULL ORDER BY start_at`
	if err := r.db.SelectContext(ctx, &rows, query, string(tournament.StatusActive)); err != nil {
		return nil, fmt.Errorf("list active tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		tour, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, tour)
	}
	return out, nil
}

// hydrate attaches queues and normalizes the stored policy document. Policy
// rows written by older app versions use different field spellings, so the
// document goes through NormalizePolicy rather than straight decoding.
func (r *TournamentRepository) hydrate(ctx context.Context, row tournamentTableModel) (tournament.Tournament, error) {
	policy, err := tournament.NormalizePolicy(row.ScoringPolicy)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("normalize scoring policy tournament=%s: %w", row.ID, err)
	}

	var queueRows []tournamentQueueTableModel
	query := `SELECT tournament_public_id, queue_id, point_multiplier FROM tournament_queues WHERE tournament_public_id = $1 ORDER BY queue_id`
	if err := r.db.SelectContext(ctx, &queueRows, query, row.ID); err != nil {
		return tournament.Tournament{}, fmt.Errorf("list tournament queues: %w", err)
	}

	queues := make([]tournament.Queue, 0, len(queueRows))
	for _, q := range queueRows {
		queues = append(queues, tournament.Queue{ID: q.QueueID, PointMultiplier: q.PointMultiplier})
	}

	return tournament.Tournament{
		ID:             row.ID,
		Title:          row.Title,
		StartAt:        row.StartAt,
		EndAt:          row.EndAt,
		Status:         tournament.Status(row.Status),
		Queues:         queues,
		Policy:         policy,
		MaxGamesPerDay: row.MaxGamesPerDay,
		Timezone:       row.Timezone,
	}, nil
}
