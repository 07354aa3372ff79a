package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SaloAlex/clasharena/internal/domain/registration"
)

type RegistrationRepository struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationSelectColumns = `public_id, tournament_public_id, user_public_id, puuid, platform, registered_at, total_points, total_matches`

func (r *RegistrationRepository) Get(ctx context.Context, registrationID string) (registration.Registration, bool, error) {
	var row registrationTableModel
	query := `SELECT ` + registrationSelectColumns + ` FROM registrations WHERE public_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &row, query, registrationID); err != nil {
		if isNotFound(err) {
			return registration.Registration{}, false, nil
		}
		return registration.Registration{}, false, fmt.Errorf("get registration: %w", err)
	}
	return toRegistration(row), true, nil
}

func (r *RegistrationRepository) ListByTournament(ctx context.Context, tournamentID string) ([]registration.Registration, error) {
	var rows []registrationTableModel
	query := `SELECT ` + registrationSelectColumns + ` FROM registrations WHERE tournament_public_id = $1 AND deleted_at IS NULL ORDER BY registered_at, public_id`
	if err := r.db.SelectContext(ctx, &rows, query, tournamentID); err != nil {
		return nil, fmt.Errorf("list registrations by tournament: %w", err)
	}

	out := make([]registration.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRegistration(row))
	}
	return out, nil
}

// IncrementTotals is a single relative UPDATE, never read-then-write, so
// concurrent scans both land their deltas.
func (r *RegistrationRepository) IncrementTotals(ctx context.Context, registrationID string, points, matches int) error {
	query := `UPDATE registrations
		SET total_points = total_points + $1,
		    total_matches = total_matches + $2,
		    updated_at = NOW()
		WHERE public_id = $3 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, points, matches, registrationID)
	if err != nil {
		return fmt.Errorf("increment registration totals: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("increment registration totals: registration %s not found", registrationID)
	}
	return nil
}

func toRegistration(row registrationTableModel) registration.Registration {
	return registration.Registration{
		ID:           row.ID,
		TournamentID: row.TournamentID,
		UserID:       row.UserID,
		PUUID:        row.PUUID.String,
		Platform:     row.Platform.String,
		RegisteredAt: row.RegisteredAt,
		TotalPoints:  row.TotalPoints,
		TotalMatches: row.TotalMatches,
	}
}
