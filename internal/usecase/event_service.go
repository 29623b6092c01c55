package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type AppendEventInput struct {
	MatchID  string `json:"match_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
	TeamID   string `json:"team_id" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Minute   *int   `json:"minute,omitempty" validate:"omitempty,min=0,max=120"`
}

// RemoveEventResult lists every event deleted by one Remove call; a goal takes its
// paired assist with it.
type RemoveEventResult struct {
	RemovedIDs []string
}

// EventService owns the match event log: the only writer of goals, assists, cards and
// MVP awards. Scores and tables are always derived from it.
type EventService struct {
	leagueRepo league.Repository
	matchRepo  match.Repository
	lineupRepo lineup.Repository
	eventRepo  matchevent.Repository
	idGen      id.Generator
	guard      *matchWriteGuard
	notifier   notifier
	validator  *validator.Validate
	logger     *logging.Logger
	now        func() time.Time
}

func NewEventService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	lineupRepo lineup.Repository,
	eventRepo matchevent.Repository,
	idGen id.Generator,
	locks *keylock.Map,
	publisher changefeed.Publisher,
	logger *logging.Logger,
) *EventService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventService{
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
		lineupRepo: lineupRepo,
		eventRepo:  eventRepo,
		idGen:      idGen,
		guard:      newMatchWriteGuard(locks, matchRepo),
		notifier:   newNotifier(publisher, logger),
		validator:  validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *EventService) Append(ctx context.Context, input AppendEventInput) (matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Append", matchAttr(input.MatchID))
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	if err := validateInput(ctx, s.validator, input); err != nil {
		return matchevent.Event{}, err
	}
	eventType := matchevent.Type(input.Type)
	if !eventType.Valid() {
		return matchevent.Event{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.Type)
	}

	var appended matchevent.Event
	item, err := s.guard.withMatch(ctx, input.MatchID, func(ctx context.Context, item match.Match) error {
		if !item.HasTeam(input.TeamID) {
			return fmt.Errorf("%w: team=%s does not play match=%s", ErrInvalidInput, input.TeamID, item.ID)
		}

		key := lineup.Key{MatchID: item.ID, TeamID: input.TeamID, PlayerID: input.PlayerID}
		_, inLineup, err := s.lineupRepo.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get lineup entry: %w", err)
		}
		if !inLineup {
			return fmt.Errorf("%w: player=%s is not in the lineup of team=%s for match=%s", ErrInvalidInput, input.PlayerID, input.TeamID, item.ID)
		}

		eventID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate event id: %w", err)
		}
		event := matchevent.Event{
			ID:        eventID,
			MatchID:   item.ID,
			PlayerID:  input.PlayerID,
			TeamID:    input.TeamID,
			Type:      eventType,
			Minute:    input.Minute,
			CreatedAt: s.now().UTC(),
		}
		if err := event.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.eventRepo.Append(ctx, event); err != nil {
			return fmt.Errorf("append match event: %w", err)
		}
		appended = event
		return nil
	})
	if err != nil {
		return matchevent.Event{}, err
	}

	s.logger.InfoContext(ctx, "match event appended",
		"event_id", appended.ID,
		"match_id", appended.MatchID,
		"team_id", appended.TeamID,
		"type", string(appended.Type),
	)
	s.notifier.notify(ctx, changefeed.KindEventAppended, item.LeagueID, item.ID, appended.ID)
	return appended, nil
}

// Remove deletes an event. Removing a goal also removes the assist recorded for the same
// match, team and minute, in the same atomic delete.
func (s *EventService) Remove(ctx context.Context, eventID string) (RemoveEventResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Remove")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return RemoveEventResult{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	target, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return RemoveEventResult{}, fmt.Errorf("get match event: %w", err)
	}
	if !exists {
		return RemoveEventResult{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	var removed []string
	item, err := s.guard.withMatch(ctx, target.MatchID, func(ctx context.Context, item match.Match) error {
		events, err := s.eventRepo.ListByMatch(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list match events: %w", err)
		}

		current, ok := findEvent(events, eventID)
		if !ok {
			return fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
		}

		ids := []string{current.ID}
		if current.Type == matchevent.TypeGoal {
			if assist, paired := matchevent.PairedAssist(events, current); paired {
				ids = append(ids, assist.ID)
				if n := countPairCandidates(events, current); n > 1 {
					s.logger.WarnContext(ctx, "several assists share the goal minute, removing the earliest",
						"goal_id", current.ID,
						"assist_id", assist.ID,
						"candidates", n,
					)
				}
			}
		}

		if err := s.eventRepo.DeleteMany(ctx, ids); err != nil {
			if errors.Is(err, matchevent.ErrEventsMissing) {
				return fmt.Errorf("%w: events %v of match=%s were removed concurrently", ErrConflict, ids, item.ID)
			}
			return fmt.Errorf("delete match events: %w", err)
		}
		removed = ids
		return nil
	})
	if err != nil {
		return RemoveEventResult{}, err
	}

	s.logger.InfoContext(ctx, "match events removed",
		"match_id", item.ID,
		"event_ids", removed,
	)
	s.notifier.notify(ctx, changefeed.KindEventRemoved, item.LeagueID, item.ID, removed...)
	return RemoveEventResult{RemovedIDs: removed}, nil
}

func (s *EventService) ListByMatch(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	_, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	matchevent.SortChronological(events)
	return events, nil
}

func (s *EventService) ListByLeague(ctx context.Context, leagueID string) ([]matchevent.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListByLeague")
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

	events, err := s.eventRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league events: %w", err)
	}
	matchevent.SortChronological(events)
	return events, nil
}

func findEvent(events []matchevent.Event, eventID string) (matchevent.Event, bool) {
	for _, item := range events {
		if item.ID == eventID {
			return item, true
		}
	}
	return matchevent.Event{}, false
}

func countPairCandidates(events []matchevent.Event, goal matchevent.Event) int {
	count := 0
	for _, item := range events {
		if item.Type == matchevent.TypeAssist &&
			item.MatchID == goal.MatchID &&
			item.TeamID == goal.TeamID &&
			matchevent.SameMinute(item.Minute, goal.Minute) {
			count++
		}
	}
	return count
}
