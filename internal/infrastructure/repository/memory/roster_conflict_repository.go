package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/roster"
)

type RosterConflictRepository struct {
	mu     sync.RWMutex
	items  map[string]roster.Conflict
	orders []string
}

func NewRosterConflictRepository() *RosterConflictRepository {
	return &RosterConflictRepository{items: make(map[string]roster.Conflict)}
}

func (r *RosterConflictRepository) Create(_ context.Context, item roster.Conflict) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("roster conflict %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *RosterConflictRepository) GetByID(_ context.Context, conflictID string) (roster.Conflict, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[conflictID]
	return c, ok, nil
}

func (r *RosterConflictRepository) GetLatestByUsername(_ context.Context, username string) (roster.Conflict, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for idx := len(r.orders) - 1; idx >= 0; idx-- {
		c := r.items[r.orders[idx]]
		if c.Candidate.Username == username {
			return c, true, nil
		}
	}
	return roster.Conflict{}, false, nil
}

func (r *RosterConflictRepository) List(_ context.Context, status string) ([]roster.Conflict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Conflict, 0, len(r.orders))
	for _, id := range r.orders {
		c := r.items[id]
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *RosterConflictRepository) UpdateStatusIfPending(_ context.Context, conflictID, status string, resolvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[conflictID]
	if !ok || c.Status != roster.StatusPending {
		return false, nil
	}
	c.Status = status
	c.ResolvedAt = &resolvedAt
	r.items[conflictID] = c
	return true, nil
}
