package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
)

type MatchEventRepository struct {
	mu      sync.RWMutex
	items   map[string]matchevent.Event
	orders  []string
	matches *MatchRepository
}

// NewMatchEventRepository resolves league membership through matches and registers
// itself for cascade deletes.
func NewMatchEventRepository(matches *MatchRepository) *MatchEventRepository {
	r := &MatchEventRepository{
		items:   make(map[string]matchevent.Event),
		matches: matches,
	}
	if matches != nil {
		matches.CascadeTo(r)
	}
	return r
}

func (r *MatchEventRepository) Append(_ context.Context, item matchevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("match event %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *MatchEventRepository) GetByID(_ context.Context, eventID string) (matchevent.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[eventID]
	return e, ok, nil
}

// ListByMatch returns events in append order.
func (r *MatchEventRepository) ListByMatch(_ context.Context, matchID string) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchevent.Event, 0)
	for _, id := range r.orders {
		if e := r.items[id]; e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MatchEventRepository) ListByLeague(_ context.Context, leagueID string) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchevent.Event, 0)
	if r.matches == nil {
		return out, nil
	}
	for _, id := range r.orders {
		e := r.items[id]
		if owner, ok := r.matches.leagueOf(e.MatchID); ok && owner == leagueID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MatchEventRepository) DeleteMany(_ context.Context, eventIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range eventIDs {
		if _, ok := r.items[id]; !ok {
			return fmt.Errorf("match event %s: %w", id, matchevent.ErrEventsMissing)
		}
	}

	remove := make(map[string]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		delete(r.items, id)
		remove[id] = struct{}{}
	}
	r.compactLocked(remove)
	return nil
}

func (r *MatchEventRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	remove := make(map[string]struct{})
	for id, e := range r.items {
		if e.MatchID == matchID {
			delete(r.items, id)
			remove[id] = struct{}{}
		}
	}
	r.compactLocked(remove)
	return nil
}

func (r *MatchEventRepository) compactLocked(removed map[string]struct{}) {
	if len(removed) == 0 {
		return
	}
	kept := r.orders[:0]
	for _, id := range r.orders {
		if _, gone := removed[id]; !gone {
			kept = append(kept, id)
		}
	}
	r.orders = kept
}
