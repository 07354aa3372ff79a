package registration

import "context"

type Repository interface {
	Get(ctx context.Context, registrationID string) (Registration, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Registration, error)

	// IncrementTotals applies a relative update to the stored totals. It must
	// be atomic with respect to other writers on the same registration; a
	// read-then-write implementation is a lost-update bug.
	IncrementTotals(ctx context.Context, registrationID string, points, matches int) error
}
