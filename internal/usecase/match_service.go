package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type CreateMatchInput struct {
	LeagueID   string     `json:"league_id" validate:"required"`
	Matchday   int        `json:"matchday" validate:"min=1"`
	HomeTeamID string     `json:"home_team_id" validate:"required"`
	AwayTeamID string     `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	Date       *time.Time `json:"date,omitempty"`
	Time       string     `json:"time,omitempty" validate:"omitempty,max=16"`
	Location   string     `json:"location,omitempty" validate:"omitempty,max=200"`
}

// UnassignedJersey marks a lineup entry that reached completion without a number.
type UnassignedJersey struct {
	TeamID   string
	PlayerID string
}

// StatusUpdateResult carries the updated match plus non-fatal warnings raised by the
// transition.
type StatusUpdateResult struct {
	Match    match.Match
	Warnings []UnassignedJersey
}

type MatchService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	lineupRepo lineup.Repository
	eventRepo  matchevent.Repository
	idGen      id.Generator
	guard      *matchWriteGuard
	notifier   notifier
	validator  *validator.Validate
	logger     *logging.Logger
}

func NewMatchService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	lineupRepo lineup.Repository,
	eventRepo matchevent.Repository,
	idGen id.Generator,
	locks *keylock.Map,
	publisher changefeed.Publisher,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		lineupRepo: lineupRepo,
		eventRepo:  eventRepo,
		idGen:      idGen,
		guard:      newMatchWriteGuard(locks, matchRepo),
		notifier:   newNotifier(publisher, logger),
		validator:  validator.New(),
		logger:     logger,
	}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	input.Time = strings.TrimSpace(input.Time)
	input.Location = strings.TrimSpace(input.Location)
	if err := validateInput(ctx, s.validator, input); err != nil {
		return match.Match{}, err
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}

	teams, err := s.teamRepo.GetByIDs(ctx, []string{input.HomeTeamID, input.AwayTeamID})
	if err != nil {
		return match.Match{}, fmt.Errorf("get teams: %w", err)
	}
	found := make(map[string]struct{}, len(teams))
	for _, item := range teams {
		found[item.ID] = struct{}{}
	}
	for _, teamID := range []string{input.HomeTeamID, input.AwayTeamID} {
		if _, ok := found[teamID]; !ok {
			return match.Match{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	item := match.Match{
		ID:         matchID,
		LeagueID:   input.LeagueID,
		Matchday:   input.Matchday,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Status:     match.StatusScheduled,
		Date:       input.Date,
		Time:       input.Time,
		Location:   input.Location,
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", item.ID,
		"league_id", item.LeagueID,
		"matchday", item.Matchday,
	)
	return item, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

func (s *MatchService) ListByLeague(ctx context.Context, leagueID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByLeague")
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

	items, err := s.matchRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list matches by league: %w", err)
	}
	match.SortSchedule(items)
	return items, nil
}

// UpdateStatus moves a match through its lifecycle. Completing a match reports lineup
// entries still missing a jersey number as warnings.
func (s *MatchService) UpdateStatus(ctx context.Context, matchID, status string) (StatusUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateStatus", matchAttr(matchID))
	defer span.End()

	if strings.TrimSpace(status) == "" {
		return StatusUpdateResult{}, fmt.Errorf("%w: match status is required", ErrInvalidInput)
	}
	status = match.NormalizeStatus(status)
	if !match.IsValidStatus(status) {
		return StatusUpdateResult{}, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, status)
	}

	var (
		previous string
		warnings []UnassignedJersey
	)
	item, err := s.guard.withMatch(ctx, matchID, func(ctx context.Context, item match.Match) error {
		if !match.CanTransition(item.Status, status) {
			return fmt.Errorf("%w: match=%s cannot move from %s to %s", ErrPreconditionFailed, item.ID, item.Status, status)
		}
		previous = item.Status
		if previous == status {
			return nil
		}
		if err := s.matchRepo.UpdateStatus(ctx, item.ID, status); err != nil {
			return fmt.Errorf("update match status: %w", err)
		}

		if status == match.StatusCompleted {
			entries, err := s.lineupRepo.ListByMatch(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("list lineup entries: %w", err)
			}
			lineup.SortForDisplay(entries)
			for _, entry := range entries {
				if !entry.HasJersey() {
					warnings = append(warnings, UnassignedJersey{TeamID: entry.TeamID, PlayerID: entry.PlayerID})
				}
			}
		}
		return nil
	})
	if err != nil {
		return StatusUpdateResult{}, err
	}
	item.Status = status

	if previous != status {
		s.logger.InfoContext(ctx, "match status updated",
			"match_id", item.ID,
			"from", previous,
			"to", status,
		)
		s.notifier.notify(ctx, changefeed.KindMatchUpdated, item.LeagueID, item.ID)
	}
	if len(warnings) > 0 {
		s.logger.WarnContext(ctx, "match completed with unassigned jersey numbers",
			"match_id", item.ID,
			"count", len(warnings),
		)
	}

	return StatusUpdateResult{Match: item, Warnings: warnings}, nil
}

// Delete removes the match with its events and lineup entries.
func (s *MatchService) Delete(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	item, err := s.guard.withMatch(ctx, matchID, func(ctx context.Context, item match.Match) error {
		if err := s.matchRepo.Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("delete match: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", item.ID, "league_id", item.LeagueID)
	s.notifier.notify(ctx, changefeed.KindMatchDeleted, item.LeagueID, item.ID)
	return nil
}

// GetScore derives the score from the event log on every call.
func (s *MatchService) GetScore(ctx context.Context, matchID string) (matchevent.Score, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetScore")
	defer span.End()

	item, err := s.Get(ctx, matchID)
	if err != nil {
		return matchevent.Score{}, err
	}
	events, err := s.eventRepo.ListByMatch(ctx, item.ID)
	if err != nil {
		return matchevent.Score{}, fmt.Errorf("list match events: %w", err)
	}
	return matchevent.ComputeScore(events, item.HomeTeamID, item.AwayTeamID), nil
}
