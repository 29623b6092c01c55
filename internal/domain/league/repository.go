package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	// Create and UpdateStatus return ErrActiveLeagueExists when the write would leave
	// two active leagues in the same scope.
	Create(ctx context.Context, item League) error
	UpdateStatus(ctx context.Context, leagueID, status string) error
	Delete(ctx context.Context, leagueID string) error
}
