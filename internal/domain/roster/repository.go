package roster

import (
	"context"
	"time"
)

// Repository stores roster conflicts.
type Repository interface {
	Create(ctx context.Context, item Conflict) error
	GetByID(ctx context.Context, conflictID string) (Conflict, bool, error)
	// GetLatestByUsername returns the newest conflict opened for username in any status.
	GetLatestByUsername(ctx context.Context, username string) (Conflict, bool, error)
	List(ctx context.Context, status string) ([]Conflict, error)
	// UpdateStatusIfPending closes a pending conflict and reports whether this call
	// performed the transition.
	UpdateStatusIfPending(ctx context.Context, conflictID, status string, resolvedAt time.Time) (bool, error)
}
