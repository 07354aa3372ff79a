package tournament

import "context"

type Repository interface {
	Get(ctx context.Context, tournamentID string) (Tournament, bool, error)
	ListActive(ctx context.Context) ([]Tournament, error)
}
