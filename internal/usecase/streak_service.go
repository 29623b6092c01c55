package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/streak"
)

// StreakScope narrows the participation records a streak is computed over. Empty fields
// do not filter; Limit <= 0 returns every player.
type StreakScope struct {
	LeagueID string
	City     string
	Limit    int
}

type StreakService struct {
	leagueRepo league.Repository
	matchRepo  match.Repository
	lineupRepo lineup.Repository
	playerRepo player.Repository
}

func NewStreakService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	lineupRepo lineup.Repository,
	playerRepo player.Repository,
) *StreakService {
	return &StreakService{
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
		lineupRepo: lineupRepo,
		playerRepo: playerRepo,
	}
}

// ListStreaks ranks players by their longest run of consecutive ISO weeks with a
// lineup appearance in a completed, dated match.
func (s *StreakService) ListStreaks(ctx context.Context, scope StreakScope) ([]streak.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StreakService.ListStreaks")
	defer span.End()

	scope.LeagueID = strings.TrimSpace(scope.LeagueID)
	scope.City = strings.TrimSpace(scope.City)

	matches, err := s.matchesInScope(ctx, scope.LeagueID)
	if err != nil {
		return nil, err
	}

	dated := make(map[string]match.Match, len(matches))
	matchIDs := make([]string, 0, len(matches))
	for _, item := range matches {
		if !item.IsCompleted() || item.Date == nil {
			continue
		}
		dated[item.ID] = item
		matchIDs = append(matchIDs, item.ID)
	}
	if len(matchIDs) == 0 {
		return []streak.Result{}, nil
	}

	entries, err := s.lineupRepo.ListByMatches(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("list lineup entries: %w", err)
	}

	allowed, err := s.playersInCity(ctx, entries, scope.City)
	if err != nil {
		return nil, err
	}

	type appearance struct {
		playerID string
		matchID  string
	}
	seen := make(map[appearance]struct{}, len(entries))
	records := make([]streak.Participation, 0, len(entries))
	for _, entry := range entries {
		item, ok := dated[entry.MatchID]
		if !ok {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[entry.PlayerID]; !ok {
				continue
			}
		}
		key := appearance{playerID: entry.PlayerID, matchID: entry.MatchID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, streak.Participation{PlayerID: entry.PlayerID, GameDate: *item.Date})
	}

	return streak.Top(streak.Compute(records), scope.Limit), nil
}

func (s *StreakService) matchesInScope(ctx context.Context, leagueID string) ([]match.Match, error) {
	if leagueID != "" {
		_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		items, err := s.matchRepo.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("list matches by league: %w", err)
		}
		return items, nil
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	leagueIDs := make([]string, 0, len(leagues))
	for _, item := range leagues {
		leagueIDs = append(leagueIDs, item.ID)
	}
	items, err := s.matchRepo.ListByLeagues(ctx, leagueIDs)
	if err != nil {
		return nil, fmt.Errorf("list matches by leagues: %w", err)
	}
	return items, nil
}

// playersInCity returns nil when city is empty, meaning no filter.
func (s *StreakService) playersInCity(ctx context.Context, entries []lineup.Entry, city string) (map[string]struct{}, error) {
	if city == "" {
		return nil, nil
	}

	playerIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		playerIDs = append(playerIDs, entry.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, uniqueStrings(playerIDs))
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}

	allowed := make(map[string]struct{}, len(players))
	for _, item := range players {
		if strings.EqualFold(strings.TrimSpace(item.City), city) {
			allowed[item.ID] = struct{}{}
		}
	}
	return allowed, nil
}
