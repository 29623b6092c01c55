package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/leaguestanding"
)

type LeagueStandingRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]leaguestanding.Standing
}

func NewLeagueStandingRepository() *LeagueStandingRepository {
	return &LeagueStandingRepository{byLeague: make(map[string][]leaguestanding.Standing)}
}

func (r *LeagueStandingRepository) ListByLeague(_ context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byLeague[leagueID]
	out := make([]leaguestanding.Standing, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *LeagueStandingRepository) ReplaceByLeague(_ context.Context, leagueID string, standings []leaguestanding.Standing) error {
	rows := make([]leaguestanding.Standing, len(standings))
	copy(rows, standings)

	r.mu.Lock()
	r.byLeague[leagueID] = rows
	r.mu.Unlock()
	return nil
}
