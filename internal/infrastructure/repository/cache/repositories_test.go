package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	leaguemock "github.com/riskibarqy/league-engine/internal/mocks/domain/league"
	teammock "github.com/riskibarqy/league-engine/internal/mocks/domain/team"
	basecache "github.com/riskibarqy/league-engine/internal/platform/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeagueRepository_GetByIDCachesUntilWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	item := league.League{ID: "league-1", Name: "Sunday", Season: "2025", Status: league.StatusDraft}
	next.On("GetByID", mock.Anything, "league-1").Return(item, true, nil).Twice()
	next.On("UpdateStatus", mock.Anything, "league-1", league.StatusActive).Return(nil).Once()

	for i := 0; i < 3; i++ {
		got, exists, err := repo.GetByID(ctx, "league-1")
		require.NoError(t, err)
		require.True(t, exists)
		require.Equal(t, "Sunday", got.Name)
	}

	require.NoError(t, repo.UpdateStatus(ctx, "league-1", league.StatusActive))
	_, _, err := repo.GetByID(ctx, "league-1")
	require.NoError(t, err)
}

func TestLeagueRepository_CachesMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := leaguemock.NewRepository(t)
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))

	next.On("GetByID", mock.Anything, "ghost").Return(league.League{}, false, nil).Once()

	for i := 0; i < 2; i++ {
		_, exists, err := repo.GetByID(ctx, "ghost")
		require.NoError(t, err)
		require.False(t, exists)
	}
}

func TestTeamRepository_GetByIDsKeyIgnoresOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := teammock.NewRepository(t)
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))

	teams := []team.Team{{ID: "team-a", Name: "Garuda"}, {ID: "team-b", Name: "Elang"}}
	next.On("GetByIDs", mock.Anything, []string{"team-a", "team-b"}).Return(teams, nil).Once()
	next.On("Update", mock.Anything, mock.AnythingOfType("team.Team")).Return(nil).Once()
	next.On("GetByIDs", mock.Anything, []string{"team-b", "team-a"}).Return(teams, nil).Once()

	got, err := repo.GetByIDs(ctx, []string{"team-a", "team-b"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.GetByIDs(ctx, []string{"team-b", "team-a"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got[0].Name = "mutated"
	again, err := repo.GetByIDs(ctx, []string{"team-a", "team-b"})
	require.NoError(t, err)
	require.Equal(t, "Garuda", again[0].Name)

	require.NoError(t, repo.Update(ctx, team.Team{ID: "team-a", Name: "Garuda FC"}))
	_, err = repo.GetByIDs(ctx, []string{"team-b", "team-a"})
	require.NoError(t, err)
}
