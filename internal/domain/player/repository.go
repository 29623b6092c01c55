package player

import "context"

// Repository exposes player persistence operations.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByUsername(ctx context.Context, username string) (Player, bool, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	List(ctx context.Context) ([]Player, error)
	// Create returns ErrUsernameTaken when the username is already stored.
	Create(ctx context.Context, item Player) error
	Update(ctx context.Context, item Player) error
}
