package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/riskibarqy/league-engine/internal/config"
	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/roster"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	natsfeed "github.com/riskibarqy/league-engine/internal/infrastructure/changefeed"
	cacherepo "github.com/riskibarqy/league-engine/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/league-engine/internal/platform/cache"
	idgen "github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/riskibarqy/league-engine/internal/platform/metrics"
	"github.com/riskibarqy/league-engine/internal/platform/resilience"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

// Engine holds the wired services of the league engine.
type Engine struct {
	Leagues     *usecase.LeagueService
	Teams       *usecase.TeamService
	Matches     *usecase.MatchService
	Lineups     *usecase.LineupService
	Events      *usecase.EventService
	Roster      *usecase.RosterService
	Standings   *usecase.StandingsService
	PlayerStats *usecase.PlayerStatsService
	Streaks     *usecase.StreakService
	Projection  *usecase.ProjectionService
	Metrics     *metrics.Recorder

	// Listener is nil unless NATS is enabled.
	Listener *natsfeed.Listener

	closers []func() error
	logger  *logging.Logger
}

type repositories struct {
	leagues   league.Repository
	teams     team.Repository
	players   player.Repository
	matches   match.Repository
	lineups   lineup.Repository
	events    matchevent.Repository
	standings leaguestanding.Repository
	conflicts roster.Repository
}

// New builds an engine on in-memory storage when DB_URL is empty, otherwise on Postgres.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.Default()
	}
	engine := &Engine{
		Metrics: metrics.New(),
		logger:  logger,
	}

	var repos repositories
	if cfg.MemoryMode() {
		repos = newMemoryRepositories()
		logger.Info("storage configured", "driver", "memory")
	} else {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		engine.closers = append(engine.closers, db.Close)
		repos = newPostgresRepositories(db, cfg)
		logger.Info("storage configured",
			"driver", "postgres",
			"db_name", dbNameFromURL(cfg.DBURL),
			"cache_enabled", cfg.CacheEnabled,
		)
	}

	var publisher changefeed.Publisher = changefeed.NopPublisher{}
	if cfg.NATSEnabled {
		conn, err := natsfeed.Connect(natsfeed.Config{
			URL:           cfg.NATSURL,
			SubjectPrefix: cfg.NATSSubjectPrefix,
			MaxReconnects: -1,
		}, logger)
		if err != nil {
			_ = engine.Close()
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		engine.closers = append(engine.closers, drainFunc(conn))

		breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.NATSCircuitEnabled,
			FailureThreshold: cfg.NATSCircuitFailureCount,
			OpenTimeout:      cfg.NATSCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NATSCircuitHalfOpenMaxReq,
			OnStateChange: func(from, to resilience.CircuitState) {
				engine.Metrics.ObserveBreakerState("nats", string(to))
				logger.Warn("change feed circuit breaker state changed", "from", string(from), "to", string(to))
			},
		})
		publisher = natsfeed.NewNATSPublisher(conn, cfg.NATSSubjectPrefix, breaker, engine.Metrics, logger)
		engine.Listener = natsfeed.NewListener(conn, cfg.NATSSubjectPrefix, logger)
		logger.Info("change feed configured", "url", cfg.NATSURL, "subject_prefix", cfg.NATSSubjectPrefix)
	}

	engine.wireServices(cfg, repos, publisher)
	return engine, nil
}

func (e *Engine) wireServices(cfg config.Config, repos repositories, publisher changefeed.Publisher) {
	ids := idgen.NewUUIDGenerator()
	locks := keylock.New()
	logger := e.logger

	e.Leagues = usecase.NewLeagueService(repos.leagues, repos.matches, ids, logger)
	e.Teams = usecase.NewTeamService(repos.teams, repos.matches, ids, logger)
	e.Matches = usecase.NewMatchService(repos.leagues, repos.teams, repos.matches, repos.lineups, repos.events, ids, locks, publisher, logger)
	e.Lineups = usecase.NewLineupService(repos.matches, repos.players, repos.lineups, locks, publisher, logger)
	e.Events = usecase.NewEventService(repos.leagues, repos.matches, repos.lineups, repos.events, ids, locks, publisher, logger)
	e.Roster = usecase.NewRosterService(repos.players, repos.conflicts, ids, usecase.RosterServiceOptions{
		Threshold: cfg.RosterMatchThreshold,
	}, logger)
	e.Standings = usecase.NewStandingsService(repos.leagues, repos.matches, repos.events, repos.teams)
	e.PlayerStats = usecase.NewPlayerStatsService(repos.leagues, repos.matches, repos.events, repos.lineups, repos.players, repos.teams)
	e.Streaks = usecase.NewStreakService(repos.leagues, repos.matches, repos.lineups, repos.players)
	e.Projection = usecase.NewProjectionService(repos.leagues, repos.standings, e.Standings, e.Metrics, cfg.ProjectorWorkers, logger)
}

// Close releases the broker connection and the database pool.
func (e *Engine) Close() error {
	var firstErr error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.closers = nil
	return firstErr
}

func newMemoryRepositories() repositories {
	matches := memory.NewMatchRepository(nil)
	return repositories{
		leagues:   memory.NewLeagueRepository(memory.SeedLeagues()),
		teams:     memory.NewTeamRepository(memory.SeedTeams()),
		players:   memory.NewPlayerRepository(memory.SeedPlayers()),
		matches:   matches,
		lineups:   memory.NewLineupRepository(matches),
		events:    memory.NewMatchEventRepository(matches),
		standings: memory.NewLeagueStandingRepository(),
		conflicts: memory.NewRosterConflictRepository(),
	}
}

func newPostgresRepositories(db *sqlx.DB, cfg config.Config) repositories {
	repos := repositories{
		leagues:   postgres.NewLeagueRepository(db),
		teams:     postgres.NewTeamRepository(db),
		players:   postgres.NewPlayerRepository(db),
		matches:   postgres.NewMatchRepository(db),
		lineups:   postgres.NewLineupRepository(db),
		events:    postgres.NewMatchEventRepository(db),
		standings: postgres.NewLeagueStandingRepository(db),
		conflicts: postgres.NewRosterConflictRepository(db),
	}
	if !cfg.CacheEnabled {
		return repos
	}

	store := basecache.NewStore(cfg.CacheTTL)
	repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
	repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	repos.players = cacherepo.NewPlayerRepository(repos.players, store)
	return repos
}

func drainFunc(conn *nats.Conn) func() error {
	return func() error {
		if conn == nil || conn.IsClosed() {
			return nil
		}
		return conn.Drain()
	}
}
