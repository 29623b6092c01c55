package lineup

import "context"

// Repository exposes match lineup persistence operations.
type Repository interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Entry, error)
	ListByMatches(ctx context.Context, matchIDs []string) ([]Entry, error)
	// Add inserts the entry; adding an existing key is a no-op.
	Add(ctx context.Context, entry Entry) error
	// SetJersey stores number (nil clears it). Returns ErrEntryNotFound for an unknown
	// key and ErrJerseyTaken when another entry of the same match and team holds number.
	SetJersey(ctx context.Context, key Key, number *int) error
}
