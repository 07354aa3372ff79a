package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/SaloAlex/clasharena/internal/domain/match"
)

type MatchRecordRepository struct {
	db *sqlx.DB
}

func NewMatchRecordRepository(db *sqlx.DB) *MatchRecordRepository {
	return &MatchRecordRepository{db: db}
}

// CreateIfAbsent leans on the unique index over (tournament, registration,
// match): ON CONFLICT DO NOTHING makes concurrent inserts race safely, and
// RETURNING id tells us whether this call was the winner. Point entries are
// written in the same transaction so a record never exists half-audited.
func (r *MatchRecordRepository) CreateIfAbsent(ctx context.Context, record match.Record) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin match record tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var recordID int64
	insert := `INSERT INTO match_records
		(tournament_public_id, registration_public_id, match_id, queue_id, match_started_at, points, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tournament_public_id, registration_public_id, match_id) DO NOTHING
		RETURNING id`
	err = tx.QueryRowxContext(ctx, insert,
		record.TournamentID,
		record.RegistrationID,
		record.MatchID,
		record.QueueID,
		record.StartTimestamp,
		record.Points,
		record.ScoredAt,
	).Scan(&recordID)
	if err == sql.ErrNoRows {
		// Conflict: another scan already recorded this match.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert match record: %w", err)
	}

	for _, entry := range record.Entries {
		entryInsert := `INSERT INTO point_entries (match_record_id, reason, points) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, entryInsert, recordID, string(entry.Reason), entry.Points); err != nil {
			return false, fmt.Errorf("insert point entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit match record tx: %w", err)
	}
	return true, nil
}

func (r *MatchRecordRepository) Exists(ctx context.Context, tournamentID, registrationID, matchID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM match_records
		WHERE tournament_public_id = $1 AND registration_public_id = $2 AND match_id = $3
	)`
	if err := r.db.GetContext(ctx, &exists, query, tournamentID, registrationID, matchID); err != nil {
		return false, fmt.Errorf("check match record exists: %w", err)
	}
	return exists, nil
}

func (r *MatchRecordRepository) CountOnDay(ctx context.Context, tournamentID, registrationID string, dayStart time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM match_records
		WHERE tournament_public_id = $1 AND registration_public_id = $2
		  AND match_started_at >= $3 AND match_started_at < $4`
	if err := r.db.GetContext(ctx, &count, query, tournamentID, registrationID, dayStart, nextDayStart(dayStart)); err != nil {
		return 0, fmt.Errorf("count match records on day: %w", err)
	}
	return count, nil
}

// nextDayStart is the following midnight in dayStart's location. A flat 24h
// offset would drift an hour on DST shift days.
func nextDayStart(dayStart time.Time) time.Time {
	y, m, d := dayStart.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, dayStart.Location())
}

func (r *MatchRecordRepository) ListByRegistration(ctx context.Context, tournamentID, registrationID string) ([]match.Record, error) {
	var rows []matchRecordTableModel
	query := `SELECT id, tournament_public_id, registration_public_id, match_id, queue_id, match_started_at, points, scored_at
		FROM match_records
		WHERE tournament_public_id = $1 AND registration_public_id = $2
		ORDER BY match_started_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, tournamentID, registrationID); err != nil {
		return nil, fmt.Errorf("list match records: %w", err)
	}

	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		entries, err := r.listEntries(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, match.Record{
			TournamentID:   row.TournamentID,
			RegistrationID: row.RegistrationID,
			MatchID:        row.MatchID,
			QueueID:        row.QueueID,
			StartTimestamp: row.StartTimestamp,
			Points:         row.Points,
			Entries:        entries,
			ScoredAt:       row.ScoredAt,
		})
	}
	return out, nil
}

func (r *MatchRecordRepository) listEntries(ctx context.Context, recordID int64) ([]match.PointEntry, error) {
	var rows []pointEntryTableModel
	query := `SELECT match_record_id, reason, points FROM point_entries WHERE match_record_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query, recordID); err != nil {
		return nil, fmt.Errorf("list point entries: %w", err)
	}
	entries := make([]match.PointEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, match.PointEntry{Reason: match.Reason(row.Reason), Points: row.Points})
	}
	return entries, nil
}
