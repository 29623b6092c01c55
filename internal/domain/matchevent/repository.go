package matchevent

import "context"

// Repository is the append-only store of match events.
type Repository interface {
	Append(ctx context.Context, item Event) error
	GetByID(ctx context.Context, eventID string) (Event, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Event, error)
	// DeleteMany removes every listed event or none of them. ErrEventsMissing reports
	// an id that no longer exists.
	DeleteMany(ctx context.Context, eventIDs []string) error
}
