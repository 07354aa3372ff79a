package match

import (
	"context"
	"time"
)

type RecordRepository interface {
	// CreateIfAbsent persists the record unless one already exists for the
	// same (tournament, registration, match) triple. It reports whether this
	// call inserted the record, so concurrent scans agree on exactly one
	// winner per match.
	CreateIfAbsent(ctx context.Context, record Record) (bool, error)

	Exists(ctx context.Context, tournamentID, registrationID, matchID string) (bool, error)

	// CountOnDay counts records for a registration whose match started within
	// [dayStart, dayStart+24h) — the per-day cap input. dayStart carries the
	// tournament's timezone.
	CountOnDay(ctx context.Context, tournamentID, registrationID string, dayStart time.Time) (int, error)

	ListByRegistration(ctx context.Context, tournamentID, registrationID string) ([]Record, error)
}
