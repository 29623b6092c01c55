package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[string]league.League
	orders []string
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	return &LeagueRepository{
		items:  items,
		orders: orders,
	}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("league %s already exists", item.ID)
	}
	if item.Status == league.StatusActive && r.activeInScopeLocked(item.Scope, item.ID) {
		return league.ErrActiveLeagueExists
	}

	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *LeagueRepository) UpdateStatus(_ context.Context, leagueID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	if status == league.StatusActive && r.activeInScopeLocked(item.Scope, item.ID) {
		return league.ErrActiveLeagueExists
	}

	item.Status = status
	r.items[leagueID] = item
	return nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[leagueID]; !ok {
		return nil
	}
	delete(r.items, leagueID)
	for idx, id := range r.orders {
		if id == leagueID {
			r.orders = append(r.orders[:idx], r.orders[idx+1:]...)
			break
		}
	}
	return nil
}

func (r *LeagueRepository) activeInScopeLocked(scope, exceptID string) bool {
	for id, item := range r.items {
		if id != exceptID && item.Scope == scope && item.Status == league.StatusActive {
			return true
		}
	}
	return false
}
