package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/lineup"
)

type LineupRepository struct {
	mu     sync.RWMutex
	items  map[lineup.Key]lineup.Entry
	orders []lineup.Key
}

// NewLineupRepository registers the repository for cascade deletes when matches is set.
func NewLineupRepository(matches *MatchRepository) *LineupRepository {
	r := &LineupRepository{items: make(map[lineup.Key]lineup.Entry)}
	if matches != nil {
		matches.CascadeTo(r)
	}
	return r
}

func (r *LineupRepository) Get(_ context.Context, key lineup.Key) (lineup.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[key]
	return cloneEntry(e), ok, nil
}

func (r *LineupRepository) ListByMatch(_ context.Context, matchID string) ([]lineup.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Entry, 0)
	for _, key := range r.orders {
		if key.MatchID == matchID {
			out = append(out, cloneEntry(r.items[key]))
		}
	}
	return out, nil
}

func (r *LineupRepository) ListByMatches(_ context.Context, matchIDs []string) ([]lineup.Entry, error) {
	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Entry, 0)
	for _, key := range r.orders {
		if _, ok := wanted[key.MatchID]; ok {
			out = append(out, cloneEntry(r.items[key]))
		}
	}
	return out, nil
}

func (r *LineupRepository) Add(_ context.Context, entry lineup.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entry.Key()
	if _, exists := r.items[key]; exists {
		return nil
	}
	entry.JerseyNumber = nil
	r.items[key] = entry
	r.orders = append(r.orders, key)
	return nil
}

func (r *LineupRepository) SetJersey(_ context.Context, key lineup.Key, number *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[key]
	if !ok {
		return lineup.ErrEntryNotFound
	}
	if number == nil {
		entry.JerseyNumber = nil
		r.items[key] = entry
		return nil
	}

	siblings := make([]lineup.Entry, 0)
	for k, e := range r.items {
		if k.MatchID == key.MatchID && k.TeamID == key.TeamID {
			siblings = append(siblings, e)
		}
	}
	if _, taken := lineup.JerseyHolder(siblings, key, *number); taken {
		return lineup.ErrJerseyTaken
	}

	value := *number
	entry.JerseyNumber = &value
	r.items[key] = entry
	return nil
}

func (r *LineupRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.orders[:0]
	for _, key := range r.orders {
		if key.MatchID == matchID {
			delete(r.items, key)
			continue
		}
		kept = append(kept, key)
	}
	r.orders = kept
	return nil
}

func cloneEntry(e lineup.Entry) lineup.Entry {
	if e.JerseyNumber != nil {
		value := *e.JerseyNumber
		e.JerseyNumber = &value
	}
	return e
}
