package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"
)

// StandingsService derives league tables from the event log. Results are never stored
// here; ProjectionService keeps the persisted snapshots.
type StandingsService struct {
	leagueRepo league.Repository
	matchRepo  match.Repository
	eventRepo  matchevent.Repository
	teamRepo   team.Repository
	flight     singleflight.Group
}

func NewStandingsService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	eventRepo matchevent.Repository,
	teamRepo team.Repository,
) *StandingsService {
	return &StandingsService{
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
		eventRepo:  eventRepo,
		teamRepo:   teamRepo,
	}
}

// ComputeStandings builds the current table. Concurrent calls for the same league share
// one computation; a caller that gives up does not cancel it for the others.
func (s *StandingsService) ComputeStandings(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ComputeStandings", leagueAttr(leagueID))
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	ch := s.flight.DoChan(leagueID, func() (any, error) {
		return s.compute(context.WithoutCancel(ctx), leagueID)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	shared := res.Val.([]leaguestanding.Standing)
	out := make([]leaguestanding.Standing, len(shared))
	copy(out, shared)
	return out, nil
}

// Invalidate makes the next ComputeStandings call for the league start over instead of
// joining a computation that began before the latest write.
func (s *StandingsService) Invalidate(leagueID string) {
	s.flight.Forget(strings.TrimSpace(leagueID))
}

func (s *StandingsService) compute(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
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

	table := leaguestanding.Compute(leagueID, matches, events)
	if len(table) == 0 {
		return table, nil
	}

	teamIDs := make([]string, 0, len(table))
	for _, row := range table {
		teamIDs = append(teamIDs, row.TeamID)
	}
	teams, err := s.teamRepo.GetByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("get teams: %w", err)
	}
	byID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}
	for idx := range table {
		if item, ok := byID[table[idx].TeamID]; ok {
			table[idx].TeamName = item.Name
			table[idx].TeamColor = item.Color
		}
	}

	return table, nil
}
