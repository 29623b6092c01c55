package leaguestanding

import "context"

// Repository stores computed standing snapshots for read-heavy consumers.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Standing, error)
	ReplaceByLeague(ctx context.Context, leagueID string, standings []Standing) error
}
