package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/player"
)

type PlayerRepository struct {
	mu         sync.RWMutex
	items      map[string]player.Player
	byUsername map[string]string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		items:      make(map[string]player.Player, len(players)),
		byUsername: make(map[string]string, len(players)),
	}
	for _, p := range players {
		r.items[p.ID] = p
		r.byUsername[player.NormalizeUsername(p.Username)] = p.ID
	}

	return r
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByUsername(_ context.Context, username string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[player.NormalizeUsername(username)]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.items[id], true, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	seen := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

// List returns players ordered by creation time, then ID.
func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	username := player.NormalizeUsername(item.Username)
	if _, taken := r.byUsername[username]; taken {
		return player.ErrUsernameTaken
	}
	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("player %s already exists", item.ID)
	}

	r.items[item.ID] = item
	r.byUsername[username] = item.ID
	return nil
}

// Update keeps the stored username; it is the identity key.
func (r *PlayerRepository) Update(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("player %s not found", item.ID)
	}
	item.Username = current.Username
	item.CreatedAt = current.CreatedAt
	r.items[item.ID] = item
	return nil
}
