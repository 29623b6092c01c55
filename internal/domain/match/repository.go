package match

import "context"

// Repository exposes match persistence operations.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Match, error)
	ListByLeagues(ctx context.Context, leagueIDs []string) ([]Match, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
	CountByLeague(ctx context.Context, leagueID string) (int, error)
	Create(ctx context.Context, item Match) error
	UpdateStatus(ctx context.Context, matchID, status string) error
	// WithVersionLock holds the match exclusively while fn runs and returns the bumped
	// version. ErrVersionConflict means the stored version no longer equals expected and
	// fn was not called. Repository calls made with the context passed to fn are part of
	// the same write and are discarded when fn fails.
	WithVersionLock(ctx context.Context, matchID string, expected int64, fn func(ctx context.Context) error) (int64, error)
	// Delete removes the match together with its events and lineup entries.
	Delete(ctx context.Context, matchID string) error
}
