package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/playerstats"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	"github.com/sourcegraph/conc/pool"
)

type PlayerStatsService struct {
	leagueRepo league.Repository
	matchRepo  match.Repository
	eventRepo  matchevent.Repository
	lineupRepo lineup.Repository
	playerRepo player.Repository
	teamRepo   team.Repository
}

func NewPlayerStatsService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	eventRepo matchevent.Repository,
	lineupRepo lineup.Repository,
	playerRepo player.Repository,
	teamRepo team.Repository,
) *PlayerStatsService {
	return &PlayerStatsService{
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
		eventRepo:  eventRepo,
		lineupRepo: lineupRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
	}
}

// ComputePlayerStats totals goals, assists, cards and MVP awards per player across the
// completed matches of a league.
func (s *PlayerStatsService) ComputePlayerStats(ctx context.Context, leagueID string) ([]playerstats.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.ComputePlayerStats", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	var (
		matches []match.Match
		events  []matchevent.Event
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.matchRepo.ListByLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list matches by league: %w", err)
		}
		matches = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.eventRepo.ListByLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list league events: %w", err)
		}
		events = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	completedIDs := make([]string, 0, len(matches))
	teamIDs := make([]string, 0, len(matches)*2)
	for _, item := range matches {
		teamIDs = append(teamIDs, item.HomeTeamID, item.AwayTeamID)
		if item.IsCompleted() {
			completedIDs = append(completedIDs, item.ID)
		}
	}
	if len(completedIDs) == 0 {
		return []playerstats.Row{}, nil
	}

	entries, err := s.lineupRepo.ListByMatches(ctx, completedIDs)
	if err != nil {
		return nil, fmt.Errorf("list lineup entries: %w", err)
	}
	teams, err := s.teamRepo.GetByIDs(ctx, uniqueStrings(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("get teams: %w", err)
	}
	teamNames := make(map[string]string, len(teams))
	for _, item := range teams {
		teamNames[item.ID] = item.Name
	}

	rows := playerstats.Compute(matches, events, entries, teamNames)
	if len(rows) == 0 {
		return rows, nil
	}

	playerIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		playerIDs = append(playerIDs, row.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	names := make(map[string]string, len(players))
	for _, item := range players {
		names[item.ID] = item.FullName
	}
	for idx := range rows {
		rows[idx].PlayerName = names[rows[idx].PlayerID]
	}

	return rows, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
