package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
)

// MatchDependent holds rows that belong to a match and go away with it.
type MatchDependent interface {
	DeleteByMatch(ctx context.Context, matchID string) error
}

type MatchRepository struct {
	mu         sync.RWMutex
	items      map[string]match.Match
	orders     []string
	dependents []MatchDependent
	writes     *keylock.Map
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	orders := make([]string, 0, len(matches))
	for _, m := range matches {
		items[m.ID] = m
		orders = append(orders, m.ID)
	}

	return &MatchRepository{items: items, orders: orders, writes: keylock.New()}
}

// CascadeTo registers stores whose rows are removed when a match is deleted.
func (r *MatchRepository) CascadeTo(dependents ...MatchDependent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dependents = append(r.dependents, dependents...)
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	return m, ok, nil
}

func (r *MatchRepository) ListByLeague(_ context.Context, leagueID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, id := range r.orders {
		if m := r.items[id]; m.LeagueID == leagueID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MatchRepository) ListByLeagues(_ context.Context, leagueIDs []string) ([]match.Match, error) {
	wanted := make(map[string]struct{}, len(leagueIDs))
	for _, id := range leagueIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, id := range r.orders {
		m := r.items[id]
		if _, ok := wanted[m.LeagueID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MatchRepository) CountByTeam(_ context.Context, teamID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.items {
		if m.HasTeam(teamID) {
			count++
		}
	}
	return count, nil
}

func (r *MatchRepository) CountByLeague(_ context.Context, leagueID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.items {
		if m.LeagueID == leagueID {
			count++
		}
	}
	return count, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("match %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}
	m.Status = status
	r.items[matchID] = m
	return nil
}

// WithVersionLock serializes writers of one match across every service sharing this
// repository. Writes made by fn are not rolled back when it fails.
func (r *MatchRepository) WithVersionLock(ctx context.Context, matchID string, expected int64, fn func(ctx context.Context) error) (int64, error) {
	unlock := r.writes.Lock(matchID)
	defer unlock()

	r.mu.RLock()
	m, ok := r.items[matchID]
	r.mu.RUnlock()
	if !ok || m.Version != expected {
		return 0, match.ErrVersionConflict
	}

	if err := fn(ctx); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok = r.items[matchID]
	if !ok {
		return expected, nil
	}
	m.Version++
	r.items[matchID] = m
	return m.Version, nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	r.mu.Lock()
	if _, ok := r.items[matchID]; !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.items, matchID)
	for idx, id := range r.orders {
		if id == matchID {
			r.orders = append(r.orders[:idx], r.orders[idx+1:]...)
			break
		}
	}
	dependents := append([]MatchDependent(nil), r.dependents...)
	r.mu.Unlock()

	for _, dep := range dependents {
		if err := dep.DeleteByMatch(ctx, matchID); err != nil {
			return fmt.Errorf("cascade delete match %s: %w", matchID, err)
		}
	}
	return nil
}

func (r *MatchRepository) leagueOf(matchID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	return m.LeagueID, ok
}
