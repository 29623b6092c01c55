package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeagueService_SingleActiveLeaguePerScope(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	draft, err := f.leagueSvc.Create(ctx, CreateLeagueInput{Name: "Jakarta Night", Season: "2025", Scope: "jakarta"})
	require.NoError(t, err)
	assert.Equal(t, league.StatusDraft, draft.Status)

	_, err = f.leagueSvc.SetStatus(ctx, draft.ID, "active")
	assert.Equal(t, KindConflict, KindOf(err), "error: %v", err)

	_, err = f.leagueSvc.Create(ctx, CreateLeagueInput{Name: "Jakarta Cup", Season: "2025", Scope: "jakarta", Status: "active"})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = f.leagueSvc.SetStatus(ctx, testLeagueID, "completed")
	require.NoError(t, err)
	activated, err := f.leagueSvc.SetStatus(ctx, draft.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, league.StatusActive, activated.Status)
}

func TestLeagueService_DeleteRequiresNoMatches(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	err := f.leagueSvc.Delete(ctx, testLeagueID)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))

	require.NoError(t, f.matchSvc.Delete(ctx, testMatchID))
	require.NoError(t, f.leagueSvc.Delete(ctx, testLeagueID))

	_, err = f.leagueSvc.Get(ctx, testLeagueID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestTeamService_CreateUpdateDelete(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t)
	ctx := context.Background()

	created, err := f.teamSvc.Create(ctx, CreateTeamInput{Name: "Badak Putih", Color: "grey"})
	require.NoError(t, err)

	name := "Badak Putih FC"
	updated, err := f.teamSvc.Update(ctx, UpdateTeamInput{ID: created.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Badak Putih FC", updated.Name)
	assert.Equal(t, "grey", updated.Color)

	badURL := "not a url"
	_, err = f.teamSvc.Update(ctx, UpdateTeamInput{ID: created.ID, LogoURL: &badURL})
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	require.NoError(t, f.teamSvc.Delete(ctx, created.ID))
	assert.Equal(t, KindPreconditionFailed, KindOf(f.teamSvc.Delete(ctx, testHomeID)))
	assert.Equal(t, KindNotFound, KindOf(f.teamSvc.Delete(ctx, "ghost")))
}
