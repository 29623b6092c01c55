package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/roster"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterBatch() []roster.Candidate {
	return []roster.Candidate{
		{FullName: "Andi Pratama", Username: "andi"},
		{FullName: "Andy Pratama", Username: "andy.p", Phone: "+62 812-3450-0001", City: "Bekasi"},
		{FullName: "Gilang Ramadhan", Username: "gilang", City: "Bogor"},
		{FullName: "Gilang R.", Username: " GILANG "},
	}
}

func TestRosterService_SyncBatchIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	first, err := f.rosterSvc.SyncBatch(ctx, rosterBatch())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)
	assert.Equal(t, 2, first.Skipped)
	assert.Equal(t, 1, first.Conflicts)
	require.Len(t, first.ConflictIDs, 1)

	second, err := f.rosterSvc.SyncBatch(ctx, rosterBatch())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 4, second.Skipped)
	assert.Equal(t, 0, second.Conflicts)

	pending, err := f.rosterSvc.ListConflicts(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "andy.p", pending[0].Candidate.Username)
	require.NotNil(t, pending[0].ExistingPlayerID)
	assert.Equal(t, "p1", *pending[0].ExistingPlayerID)

	gilang, exists, err := f.players.GetByUsername(ctx, "gilang")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "Gilang Ramadhan", gilang.FullName)
}

func TestRosterService_SyncBatchRejectsInvalidCandidate(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	_, err := f.rosterSvc.SyncBatch(context.Background(), []roster.Candidate{
		{FullName: "Hana Putri", Username: "hana"},
		{FullName: "No Username"},
	})
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, exists, err := f.players.GetByUsername(context.Background(), "hana")
	require.NoError(t, err)
	assert.False(t, exists, "an invalid batch imports nothing")
}

func TestRosterService_ResolveConflictMerges(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	synced, err := f.rosterSvc.SyncBatch(ctx, rosterBatch())
	require.NoError(t, err)
	conflictID := synced.ConflictIDs[0]

	resolved, err := f.rosterSvc.ResolveConflict(ctx, conflictID, "merge", nil)
	require.NoError(t, err)
	assert.Equal(t, roster.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	merged, _, err := f.players.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "andi", merged.Username)
	assert.Equal(t, "Andy Pratama", merged.FullName)
	assert.Equal(t, "Bekasi", merged.City)

	again, err := f.rosterSvc.ResolveConflict(ctx, conflictID, "ignore", nil)
	require.NoError(t, err)
	assert.Equal(t, roster.StatusResolved, again.Status, "closed conflicts stay closed")
}

func TestRosterService_ResolveConflictIgnoreAndErrors(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	synced, err := f.rosterSvc.SyncBatch(ctx, []roster.Candidate{
		{FullName: "Citra Lestari", Username: "citra.l"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, synced.Conflicts)
	conflictID := synced.ConflictIDs[0]

	_, err = f.rosterSvc.ResolveConflict(ctx, conflictID, "approve", nil)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	ghost := "ghost"
	_, err = f.rosterSvc.ResolveConflict(ctx, conflictID, "resolve", &ghost)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.rosterSvc.ResolveConflict(ctx, "missing", "ignore", nil)
	assert.Equal(t, KindNotFound, KindOf(err))

	ignored, err := f.rosterSvc.ResolveConflict(ctx, conflictID, "ignored", nil)
	require.NoError(t, err)
	assert.Equal(t, roster.StatusIgnored, ignored.Status)

	untouched, _, err := f.players.GetByID(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "081234500003", untouched.Phone)

	_, err = f.rosterSvc.ListConflicts(ctx, "archived")
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestRosterService_SyncBatchDoesNotReopenClosedConflicts(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	batch := append(rosterBatch(), roster.Candidate{FullName: "Citra Lestari", Username: "citra.l"})

	first, err := f.rosterSvc.SyncBatch(ctx, batch)
	require.NoError(t, err)
	require.Equal(t, 2, first.Conflicts)

	_, err = f.rosterSvc.ResolveConflict(ctx, first.ConflictIDs[0], "resolved", nil)
	require.NoError(t, err)
	_, err = f.rosterSvc.ResolveConflict(ctx, first.ConflictIDs[1], "ignored", nil)
	require.NoError(t, err)

	second, err := f.rosterSvc.SyncBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 0, second.Conflicts)
	assert.Equal(t, 5, second.Skipped)

	pending, err := f.rosterSvc.ListConflicts(ctx, "pending")
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := f.rosterSvc.ListConflicts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

type countingPlayerRepository struct {
	player.Repository
	updates atomic.Int32
}

func (r *countingPlayerRepository) Update(ctx context.Context, item player.Player) error {
	r.updates.Add(1)
	return r.Repository.Update(ctx, item)
}

func TestRosterService_ConcurrentResolveMergesOnce(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()
	players := &countingPlayerRepository{Repository: f.players}
	service := NewRosterService(players, f.conflicts, id.NewSequenceGenerator("roster"), RosterServiceOptions{}, logging.NewNop())

	synced, err := service.SyncBatch(ctx, rosterBatch())
	require.NoError(t, err)
	conflictID := synced.ConflictIDs[0]

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.ResolveConflict(ctx, conflictID, RosterActionResolve, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), players.updates.Load())
}
