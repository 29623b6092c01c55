package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
)

// matchWriteGuard serializes every write that touches one match. Inside a process the
// keyed lock orders writers; across processes the repository holds the match while fn
// runs and rejects a writer whose version is stale with ErrConflict.
type matchWriteGuard struct {
	locks     *keylock.Map
	matchRepo match.Repository
}

func newMatchWriteGuard(locks *keylock.Map, matchRepo match.Repository) *matchWriteGuard {
	if locks == nil {
		locks = keylock.New()
	}
	return &matchWriteGuard{locks: locks, matchRepo: matchRepo}
}

// withMatch runs fn as one write of the match. fn must use the context it is given so
// its repository calls commit together with the version bump.
func (g *matchWriteGuard) withMatch(ctx context.Context, matchID string, fn func(ctx context.Context, item match.Match) error) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	unlock := g.locks.Lock(matchID)
	defer unlock()

	item, exists, err := g.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	version, err := g.matchRepo.WithVersionLock(ctx, matchID, item.Version, func(ctx context.Context) error {
		return fn(ctx, item)
	})
	if err != nil {
		if errors.Is(err, match.ErrVersionConflict) {
			return match.Match{}, fmt.Errorf("%w: match=%s was modified concurrently", ErrConflict, matchID)
		}
		return item, err
	}
	item.Version = version
	return item, nil
}

func validateInput(ctx context.Context, v *validator.Validate, input any) error {
	if err := v.StructCtx(ctx, input); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	return nil
}
