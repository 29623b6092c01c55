package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineupService_AssignJersey(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	ten := 10

	entry, err := f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p1", &ten)
	require.NoError(t, err)
	require.NotNil(t, entry.JerseyNumber)
	assert.Equal(t, 10, *entry.JerseyNumber)

	_, err = f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p2", &ten)
	assert.Equal(t, KindConflict, KindOf(err), "error: %v", err)

	_, err = f.lineupSvc.AssignJersey(ctx, testMatchID, testAwayID, "p3", &ten)
	require.NoError(t, err, "the other team may use the same number")

	entry, err = f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p1", nil)
	require.NoError(t, err)
	assert.Nil(t, entry.JerseyNumber)

	_, err = f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p2", &ten)
	require.NoError(t, err, "a cleared number is free again")
}

func TestLineupService_AssignJerseyErrors(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	negative := -1
	nine := 9

	_, err := f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p1", &negative)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p5", &nine)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.lineupSvc.AssignJersey(ctx, "missing", testHomeID, "p1", &nine)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestLineupService_AddEntryIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	seven := 7

	_, err := f.lineupSvc.AddEntry(ctx, AddLineupEntryInput{MatchID: testMatchID, TeamID: testHomeID, PlayerID: "p5"})
	require.NoError(t, err)
	entry, err := f.lineupSvc.AddEntry(ctx, AddLineupEntryInput{MatchID: testMatchID, TeamID: testHomeID, PlayerID: "p5", JerseyNumber: &seven})
	require.NoError(t, err)
	require.NotNil(t, entry.JerseyNumber)
	assert.Equal(t, 7, *entry.JerseyNumber)

	entries, err := f.lineupSvc.ListByMatch(ctx, testMatchID)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	_, err = f.lineupSvc.AddEntry(ctx, AddLineupEntryInput{MatchID: testMatchID, TeamID: "team-c", PlayerID: "p6"})
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = f.lineupSvc.AddEntry(ctx, AddLineupEntryInput{MatchID: testMatchID, TeamID: testHomeID, PlayerID: "ghost"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestLineupService_AddEntryWithTakenJerseyStoresNothing(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	seven := 7

	_, err := f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p1", &seven)
	require.NoError(t, err)

	_, err = f.lineupSvc.AddEntry(ctx, AddLineupEntryInput{MatchID: testMatchID, TeamID: testHomeID, PlayerID: "p5", JerseyNumber: &seven})
	assert.Equal(t, KindConflict, KindOf(err), "error: %v", err)

	_, exists, err := f.lineups.Get(ctx, lineup.Key{MatchID: testMatchID, TeamID: testHomeID, PlayerID: "p5"})
	require.NoError(t, err)
	assert.False(t, exists, "a rejected entry must not stay in the lineup")

	entry, err := f.lineupSvc.AddEntry(ctx, AddLineupEntryInput{MatchID: testMatchID, TeamID: testAwayID, PlayerID: "p5", JerseyNumber: &seven})
	require.NoError(t, err, "the other team may use the same number")
	require.NotNil(t, entry.JerseyNumber)
	assert.Equal(t, 7, *entry.JerseyNumber)
}

func TestLineupService_ListSortsUnassignedLast(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	four := 4

	_, err := f.lineupSvc.AssignJersey(ctx, testMatchID, testHomeID, "p2", &four)
	require.NoError(t, err)

	entries, err := f.lineupSvc.ListByMatch(ctx, testMatchID)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "p2", entries[0].PlayerID)
	assert.Equal(t, "p1", entries[1].PlayerID)
	assert.Equal(t, testAwayID, entries[2].TeamID)
}
