package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/roster"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

const (
	RosterActionResolve = "resolved"
	RosterActionIgnore  = "ignored"
)

// SyncResult counts what happened to every candidate of a roster batch.
type SyncResult struct {
	Imported    int
	Skipped     int
	Conflicts   int
	ConflictIDs []string
}

type RosterServiceOptions struct {
	Similarity roster.Similarity
	Threshold  float64
}

// RosterService imports player rosters from external feeds. Exact username matches are
// skipped, near matches are parked as conflicts for an admin, everything else becomes a
// new player.
type RosterService struct {
	playerRepo   player.Repository
	conflictRepo roster.Repository
	idGen        id.Generator
	similarity   roster.Similarity
	threshold    float64
	validator    *validator.Validate
	logger       *logging.Logger
	now          func() time.Time
	syncMu       sync.Mutex
}

func NewRosterService(
	playerRepo player.Repository,
	conflictRepo roster.Repository,
	idGen id.Generator,
	opts RosterServiceOptions,
	logger *logging.Logger,
) *RosterService {
	if opts.Similarity == nil {
		opts.Similarity = roster.NameAndPhoneSimilarity{}
	}
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = roster.DefaultMatchThreshold
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		playerRepo:   playerRepo,
		conflictRepo: conflictRepo,
		idGen:        idGen,
		similarity:   opts.Similarity,
		threshold:    opts.Threshold,
		validator:    validator.New(),
		logger:       logger,
		now:          time.Now,
	}
}

// SyncBatch imports a roster batch. Replaying the same batch imports nothing new and
// creates no new conflicts.
func (s *RosterService) SyncBatch(ctx context.Context, candidates []roster.Candidate) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SyncBatch")
	defer span.End()

	normalized := make([]roster.Candidate, 0, len(candidates))
	for idx, item := range candidates {
		item = item.Normalize()
		if err := s.validator.StructCtx(ctx, item); err != nil {
			return SyncResult{}, fmt.Errorf("%w: candidate %d: %v", ErrInvalidInput, idx, err)
		}
		normalized = append(normalized, item)
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	existing, err := s.playerRepo.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list players: %w", err)
	}
	byUsername := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		byUsername[player.NormalizeUsername(item.Username)] = struct{}{}
	}

	result := SyncResult{ConflictIDs: []string{}}
	inBatch := make(map[string]struct{}, len(normalized))
	for _, candidate := range normalized {
		if _, dup := inBatch[candidate.Username]; dup {
			result.Skipped++
			continue
		}
		inBatch[candidate.Username] = struct{}{}

		if _, taken := byUsername[candidate.Username]; taken {
			result.Skipped++
			continue
		}

		// A pending conflict awaits review and a closed one was already decided.
		_, seen, err := s.conflictRepo.GetLatestByUsername(ctx, candidate.Username)
		if err != nil {
			return result, fmt.Errorf("get roster conflict: %w", err)
		}
		if seen {
			result.Skipped++
			continue
		}

		if match, score, ok := roster.BestMatch(s.similarity, candidate, existing, s.threshold); ok {
			conflictID, err := s.openConflict(ctx, candidate, match, score)
			if err != nil {
				return result, err
			}
			result.Conflicts++
			result.ConflictIDs = append(result.ConflictIDs, conflictID)
			continue
		}

		created, err := s.createPlayer(ctx, candidate)
		if err != nil {
			if errors.Is(err, player.ErrUsernameTaken) {
				result.Skipped++
				continue
			}
			return result, err
		}
		existing = append(existing, created)
		byUsername[created.Username] = struct{}{}
		result.Imported++
	}

	s.logger.InfoContext(ctx, "roster batch synced",
		"candidates", len(normalized),
		"imported", result.Imported,
		"skipped", result.Skipped,
		"conflicts", result.Conflicts,
	)
	return result, nil
}

// ResolveConflict closes a pending conflict. Resolving merges the candidate into the
// target player; ignoring closes it untouched. Closing an already closed conflict is a
// no-op, and concurrent resolutions merge at most once.
func (s *RosterService) ResolveConflict(ctx context.Context, conflictID, action string, playerID *string) (roster.Conflict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ResolveConflict")
	defer span.End()

	conflictID = strings.TrimSpace(conflictID)
	if conflictID == "" {
		return roster.Conflict{}, fmt.Errorf("%w: conflict id is required", ErrInvalidInput)
	}
	status, ok := normalizeRosterAction(action)
	if !ok {
		return roster.Conflict{}, fmt.Errorf("%w: unknown conflict action %q", ErrInvalidInput, action)
	}

	item, exists, err := s.conflictRepo.GetByID(ctx, conflictID)
	if err != nil {
		return roster.Conflict{}, fmt.Errorf("get conflict: %w", err)
	}
	if !exists {
		return roster.Conflict{}, fmt.Errorf("%w: conflict=%s", ErrNotFound, conflictID)
	}
	if item.IsClosed() {
		return item, nil
	}

	var target player.Player
	if status == roster.StatusResolved {
		target, err = s.resolveTarget(ctx, item, playerID)
		if err != nil {
			return roster.Conflict{}, err
		}
	}

	resolvedAt := s.now().UTC()
	claimed, err := s.conflictRepo.UpdateStatusIfPending(ctx, item.ID, status, resolvedAt)
	if err != nil {
		return roster.Conflict{}, fmt.Errorf("update conflict status: %w", err)
	}
	if !claimed {
		latest, _, err := s.conflictRepo.GetByID(ctx, item.ID)
		if err != nil {
			return roster.Conflict{}, fmt.Errorf("get conflict: %w", err)
		}
		return latest, nil
	}

	// The claim is taken before merging so that only one caller merges. A merge failure
	// leaves the conflict closed and is surfaced to the caller.
	if status == roster.StatusResolved {
		merged := roster.Merge(target, item.Candidate)
		merged.UpdatedAt = resolvedAt
		if err := s.playerRepo.Update(ctx, merged); err != nil {
			return roster.Conflict{}, fmt.Errorf("merge candidate into player=%s: %w", target.ID, err)
		}
		item.ExistingPlayerID = &target.ID
	}

	item.Status = status
	item.ResolvedAt = &resolvedAt
	s.logger.InfoContext(ctx, "roster conflict closed",
		"conflict_id", item.ID,
		"status", status,
		"player_id", target.ID,
	)
	return item, nil
}

// ListConflicts lists conflicts with the given status; an empty status lists all.
func (s *RosterService) ListConflicts(ctx context.Context, status string) ([]roster.Conflict, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !roster.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown conflict status %q", ErrInvalidInput, status)
	}

	items, err := s.conflictRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	return items, nil
}

func (s *RosterService) openConflict(ctx context.Context, candidate roster.Candidate, match player.Player, score float64) (string, error) {
	conflictID, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate conflict id: %w", err)
	}
	existingID := match.ID
	item := roster.Conflict{
		ID:               conflictID,
		Candidate:        candidate,
		ExistingPlayerID: &existingID,
		Score:            score,
		Status:           roster.StatusPending,
		CreatedAt:        s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.conflictRepo.Create(ctx, item); err != nil {
		return "", fmt.Errorf("create conflict: %w", err)
	}

	s.logger.InfoContext(ctx, "roster conflict opened",
		"conflict_id", item.ID,
		"username", candidate.Username,
		"existing_player_id", existingID,
		"score", score,
	)
	return item.ID, nil
}

func (s *RosterService) createPlayer(ctx context.Context, candidate roster.Candidate) (player.Player, error) {
	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	now := s.now().UTC()
	item := player.Player{
		ID:        playerID,
		Username:  candidate.Username,
		FullName:  candidate.FullName,
		Phone:     candidate.Phone,
		City:      candidate.City,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.playerRepo.Create(ctx, item); err != nil {
		if errors.Is(err, player.ErrUsernameTaken) {
			return player.Player{}, err
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return item, nil
}

func (s *RosterService) resolveTarget(ctx context.Context, item roster.Conflict, playerID *string) (player.Player, error) {
	targetID := ""
	if playerID != nil {
		targetID = strings.TrimSpace(*playerID)
	}
	if targetID == "" && item.ExistingPlayerID != nil {
		targetID = *item.ExistingPlayerID
	}
	if targetID == "" {
		return player.Player{}, fmt.Errorf("%w: conflict=%s has no target player", ErrNotFound, item.ID)
	}

	target, exists, err := s.playerRepo.GetByID(ctx, targetID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, targetID)
	}
	return target, nil
}

func normalizeRosterAction(action string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case RosterActionResolve, "resolve", "merge":
		return roster.StatusResolved, true
	case RosterActionIgnore, "ignore":
		return roster.StatusIgnored, true
	default:
		return "", false
	}
}
