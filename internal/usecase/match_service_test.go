package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchService_Create(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	item, err := f.matchSvc.Create(ctx, CreateMatchInput{
		LeagueID:   testLeagueID,
		Matchday:   2,
		HomeTeamID: testAwayID,
		AwayTeamID: "team-c",
		Date:       &date,
		Location:   "GBK Field 3",
	})
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, item.Status)
	assert.NotEmpty(t, item.ID)

	tests := []struct {
		name  string
		input CreateMatchInput
		kind  ErrorKind
	}{
		{name: "same team", input: CreateMatchInput{LeagueID: testLeagueID, Matchday: 1, HomeTeamID: testHomeID, AwayTeamID: testHomeID}, kind: KindInvalidArgument},
		{name: "matchday zero", input: CreateMatchInput{LeagueID: testLeagueID, Matchday: 0, HomeTeamID: testHomeID, AwayTeamID: testAwayID}, kind: KindInvalidArgument},
		{name: "unknown league", input: CreateMatchInput{LeagueID: "missing", Matchday: 1, HomeTeamID: testHomeID, AwayTeamID: testAwayID}, kind: KindNotFound},
		{name: "unknown team", input: CreateMatchInput{LeagueID: testLeagueID, Matchday: 1, HomeTeamID: testHomeID, AwayTeamID: "ghost"}, kind: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.matchSvc.Create(ctx, tt.input)
			assert.Equal(t, tt.kind, KindOf(err), "error: %v", err)
		})
	}
}

func TestMatchService_CompleteWarnsAboutMissingJerseys(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	for idx, playerID := range []string{"p1", "p2", "p3"} {
		number := idx + 1
		teamID := testHomeID
		if playerID == "p3" {
			teamID = testAwayID
		}
		_, err := f.lineupSvc.AssignJersey(ctx, testMatchID, teamID, playerID, &number)
		require.NoError(t, err)
	}

	result, err := f.matchSvc.UpdateStatus(ctx, testMatchID, "completed")
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, result.Match.Status)
	assert.Equal(t, []UnassignedJersey{{TeamID: testAwayID, PlayerID: "p4"}}, result.Warnings)

	_, err = f.matchSvc.UpdateStatus(ctx, testMatchID, "scheduled")
	assert.Equal(t, KindPreconditionFailed, KindOf(err), "error: %v", err)

	_, err = f.matchSvc.UpdateStatus(ctx, testMatchID, "postponed")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestMatchService_DeleteCascades(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	f.appendEvent(t, "p1", testHomeID, "goal", minuteOf(5))

	require.NoError(t, f.matchSvc.Delete(ctx, testMatchID))

	_, err := f.matchSvc.Get(ctx, testMatchID)
	assert.Equal(t, KindNotFound, KindOf(err))

	events, err := f.eventSvc.ListByLeague(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Empty(t, events)

	entries, err := f.lineups.ListByMatch(ctx, testMatchID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Equal(t, KindNotFound, KindOf(f.matchSvc.Delete(ctx, testMatchID)))
}

func TestMatchService_UpdateStatusRejectsBlankStatus(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	for _, status := range []string{"", "   "} {
		_, err := f.matchSvc.UpdateStatus(ctx, testMatchID, status)
		assert.Equal(t, KindInvalidArgument, KindOf(err), "status %q: %v", status, err)
	}

	item, err := f.matchSvc.Get(ctx, testMatchID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusLive, item.Status)
}
