package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
	changefeedmock "github.com/riskibarqy/league-engine/internal/mocks/domain/changefeed"
	leaguemock "github.com/riskibarqy/league-engine/internal/mocks/domain/league"
	lineupmock "github.com/riskibarqy/league-engine/internal/mocks/domain/lineup"
	matchmock "github.com/riskibarqy/league-engine/internal/mocks/domain/match"
	matcheventmock "github.com/riskibarqy/league-engine/internal/mocks/domain/matchevent"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func liveMatch() match.Match {
	return match.Match{
		ID:         "match-9",
		LeagueID:   "league-bdg",
		Matchday:   4,
		HomeTeamID: "team-x",
		AwayTeamID: "team-y",
		Status:     match.StatusLive,
		Version:    7,
	}
}

// runLocked stands in for WithVersionLock and runs the write it is handed.
func runLocked(ctx context.Context, _ string, expected int64, fn func(context.Context) error) (int64, error) {
	if err := fn(ctx); err != nil {
		return 0, err
	}
	return expected + 1, nil
}

func TestEventService_Append_VersionConflictUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	eventRepo := matcheventmock.NewRepository(t)
	publisher := changefeedmock.NewPublisher(t)

	service := NewEventService(
		leaguemock.NewRepository(t),
		matchRepo,
		lineupmock.NewRepository(t),
		eventRepo,
		id.NewSequenceGenerator("evt"),
		keylock.New(),
		publisher,
		logging.NewNop(),
	)

	item := liveMatch()
	matchRepo.
		On("GetByID", mock.Anything, item.ID).
		Return(item, true, nil).
		Once()
	matchRepo.
		On("WithVersionLock", mock.Anything, item.ID, int64(7), mock.Anything).
		Return(int64(0), match.ErrVersionConflict).
		Once()

	_, err := service.Append(ctx, AppendEventInput{
		MatchID:  item.ID,
		PlayerID: "p-1",
		TeamID:   "team-x",
		Type:     "goal",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	eventRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestEventService_Append_PublishFailureIsNotFatalUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	lineupRepo := lineupmock.NewRepository(t)
	eventRepo := matcheventmock.NewRepository(t)
	publisher := changefeedmock.NewPublisher(t)

	service := NewEventService(
		leaguemock.NewRepository(t),
		matchRepo,
		lineupRepo,
		eventRepo,
		id.NewSequenceGenerator("evt"),
		keylock.New(),
		publisher,
		logging.NewNop(),
	)

	item := liveMatch()
	key := lineup.Key{MatchID: item.ID, TeamID: "team-y", PlayerID: "p-2"}
	matchRepo.On("GetByID", mock.Anything, item.ID).Return(item, true, nil).Once()
	matchRepo.On("WithVersionLock", mock.Anything, item.ID, int64(7), mock.Anything).Return(runLocked).Once()
	lineupRepo.On("Get", mock.Anything, key).Return(lineup.Entry{MatchID: key.MatchID, TeamID: key.TeamID, PlayerID: key.PlayerID}, true, nil).Once()
	eventRepo.
		On("Append", mock.Anything, mock.MatchedBy(func(v matchevent.Event) bool {
			return v.ID == "evt-1" && v.Type == matchevent.TypeYellowCard && v.TeamID == "team-y"
		})).
		Return(nil).
		Once()
	publisher.
		On("Publish", mock.Anything, mock.MatchedBy(func(v changefeed.Notice) bool {
			return v.Kind == changefeed.KindEventAppended && v.LeagueID == item.LeagueID && len(v.EventIDs) == 1
		})).
		Return(errors.New("nats: connection closed")).
		Once()

	got, err := service.Append(ctx, AppendEventInput{
		MatchID:  item.ID,
		PlayerID: "p-2",
		TeamID:   "team-y",
		Type:     "YELLOW_CARD",
	})
	if err != nil {
		t.Fatalf("append event: %v", err)
	}
	if got.ID != "evt-1" {
		t.Fatalf("unexpected event id: %s", got.ID)
	}
}

func TestEventService_Append_TeamOutsideMatchUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewEventService(
		leaguemock.NewRepository(t),
		matchRepo,
		lineupmock.NewRepository(t),
		matcheventmock.NewRepository(t),
		id.NewSequenceGenerator("evt"),
		nil,
		nil,
		logging.NewNop(),
	)

	item := liveMatch()
	matchRepo.On("GetByID", mock.Anything, item.ID).Return(item, true, nil).Once()
	matchRepo.On("WithVersionLock", mock.Anything, item.ID, int64(7), mock.Anything).Return(runLocked).Once()

	_, err := service.Append(context.Background(), AppendEventInput{
		MatchID:  item.ID,
		PlayerID: "p-1",
		TeamID:   "team-z",
		Type:     "assist",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEventService_Remove_EventsGoneIsConflictUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	eventRepo := matcheventmock.NewRepository(t)
	publisher := changefeedmock.NewPublisher(t)

	service := NewEventService(
		leaguemock.NewRepository(t),
		matchRepo,
		lineupmock.NewRepository(t),
		eventRepo,
		id.NewSequenceGenerator("evt"),
		keylock.New(),
		publisher,
		logging.NewNop(),
	)

	item := liveMatch()
	minute := 12
	goal := matchevent.Event{ID: "evt-goal", MatchID: item.ID, TeamID: "team-x", PlayerID: "p-1", Type: matchevent.TypeGoal, Minute: &minute}
	assist := matchevent.Event{ID: "evt-assist", MatchID: item.ID, TeamID: "team-x", PlayerID: "p-2", Type: matchevent.TypeAssist, Minute: &minute}

	eventRepo.On("GetByID", mock.Anything, goal.ID).Return(goal, true, nil).Once()
	matchRepo.On("GetByID", mock.Anything, item.ID).Return(item, true, nil).Once()
	matchRepo.On("WithVersionLock", mock.Anything, item.ID, int64(7), mock.Anything).Return(runLocked).Once()
	eventRepo.On("ListByMatch", mock.Anything, item.ID).Return([]matchevent.Event{goal, assist}, nil).Once()
	eventRepo.
		On("DeleteMany", mock.Anything, []string{goal.ID, assist.ID}).
		Return(fmt.Errorf("deleted 1 of 2: %w", matchevent.ErrEventsMissing)).
		Once()

	_, err := service.Remove(ctx, goal.ID)
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
