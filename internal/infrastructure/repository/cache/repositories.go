package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	basecache "github.com/riskibarqy/league-engine/internal/platform/cache"
)

const (
	leagueListKey     = "league:list"
	leagueByIDPrefix  = "league:id:"
	teamByIDPrefix    = "team:id:"
	teamByIDsPrefix   = "team:ids:"
	playerByIDPrefix  = "player:id:"
	playerByIDsPrefix = "player:ids:"
)

type cachedLookup[T any] struct {
	value  T
	exists bool
}

// LeagueRepository caches league reads; every write drops the league list and the
// written league.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	items, err := basecache.Load(ctx, r.cache, leagueListKey, func(ctx context.Context) ([]league.League, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, leagueByIDPrefix+leagueID, func(ctx context.Context) (cachedLookup[league.League], error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return cachedLookup[league.League]{}, err
		}
		return cachedLookup[league.League]{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	defer r.cache.Invalidate(ctx, leagueListKey, leagueByIDPrefix+item.ID)
	return r.next.Create(ctx, item)
}

func (r *LeagueRepository) UpdateStatus(ctx context.Context, leagueID, status string) error {
	defer r.cache.Invalidate(ctx, leagueListKey, leagueByIDPrefix+leagueID)
	return r.next.UpdateStatus(ctx, leagueID, status)
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	defer r.cache.Invalidate(ctx, leagueListKey, leagueByIDPrefix+leagueID)
	return r.next.Delete(ctx, leagueID)
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, teamByIDPrefix+teamID, func(ctx context.Context) (cachedLookup[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return cachedLookup[team.Team]{}, err
		}
		return cachedLookup[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByIDs(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, teamByIDsPrefix+idsKey(teamIDs), func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.GetByIDs(ctx, teamIDs)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	defer r.invalidate(ctx, item.ID)
	return r.next.Create(ctx, item)
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	defer r.invalidate(ctx, item.ID)
	return r.next.Update(ctx, item)
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	defer r.invalidate(ctx, teamID)
	return r.next.Delete(ctx, teamID)
}

func (r *TeamRepository) invalidate(ctx context.Context, teamID string) {
	r.cache.Invalidate(ctx, teamByIDPrefix+teamID)
	r.cache.DeletePrefix(ctx, teamByIDsPrefix)
}

// PlayerRepository caches lookups by id. Username lookups and full listings back the
// roster sync, which needs fresh data, and always hit the next repository.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, playerByIDPrefix+playerID, func(ctx context.Context) (cachedLookup[player.Player], error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return cachedLookup[player.Player]{}, err
		}
		return cachedLookup[player.Player]{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (player.Player, bool, error) {
	return r.next.GetByUsername(ctx, username)
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	items, err := basecache.Load(ctx, r.cache, playerByIDsPrefix+idsKey(playerIDs), func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.next.List(ctx)
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	defer r.invalidate(ctx, item.ID)
	return r.next.Create(ctx, item)
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	defer r.invalidate(ctx, item.ID)
	return r.next.Update(ctx, item)
}

func (r *PlayerRepository) invalidate(ctx context.Context, playerID string) {
	r.cache.Invalidate(ctx, playerByIDPrefix+playerID)
	r.cache.DeletePrefix(ctx, playerByIDsPrefix)
}

func idsKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
