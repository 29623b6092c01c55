package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/changefeed"
	"github.com/riskibarqy/league-engine/internal/domain/league"
	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/keylock"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

const (
	testLeagueID = "league-jkt"
	testMatchID  = "match-1"
	testHomeID   = "team-a"
	testAwayID   = "team-b"
)

// engineFixture wires every service over memory repositories seeded with one league,
// three teams, six players and a live match between team-a and team-b.
type engineFixture struct {
	leagues   *memory.LeagueRepository
	teams     *memory.TeamRepository
	players   *memory.PlayerRepository
	matches   *memory.MatchRepository
	events    *memory.MatchEventRepository
	lineups   *memory.LineupRepository
	standing  *memory.LeagueStandingRepository
	conflicts *memory.RosterConflictRepository
	notices   *recordingPublisher

	eventSvc   *EventService
	matchSvc   *MatchService
	lineupSvc  *LineupService
	leagueSvc  *LeagueService
	teamSvc    *TeamService
	standings  *StandingsService
	statsSvc   *PlayerStatsService
	streakSvc  *StreakService
	rosterSvc  *RosterService
	projection *ProjectionService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &engineFixture{
		leagues: memory.NewLeagueRepository([]league.League{
			{ID: testLeagueID, Name: "Jakarta Sunday", Season: "2025", Scope: "jakarta", Status: league.StatusActive},
		}),
		teams: memory.NewTeamRepository([]team.Team{
			{ID: testHomeID, Name: "Garuda FC", Color: "red"},
			{ID: testAwayID, Name: "Elang United", Color: "blue"},
			{ID: "team-c", Name: "Harimau Muda", Color: "orange"},
		}),
		players: memory.NewPlayerRepository([]player.Player{
			{ID: "p1", Username: "andi", FullName: "Andi Pratama", Phone: "081234500001", City: "Jakarta", CreatedAt: created},
			{ID: "p2", Username: "budi", FullName: "Budi Santoso", Phone: "081234500002", City: "Jakarta", CreatedAt: created},
			{ID: "p3", Username: "citra", FullName: "Citra Lestari", Phone: "081234500003", City: "Bandung", CreatedAt: created},
			{ID: "p4", Username: "dewi", FullName: "Dewi Anggraini", Phone: "081234500004", City: "Bandung", CreatedAt: created},
			{ID: "p5", Username: "eko", FullName: "Eko Saputra", City: "Jakarta", CreatedAt: created},
			{ID: "p6", Username: "fajar", FullName: "Fajar Nugroho", City: "Depok", CreatedAt: created},
		}),
		matches: memory.NewMatchRepository([]match.Match{
			{ID: testMatchID, LeagueID: testLeagueID, Matchday: 1, HomeTeamID: testHomeID, AwayTeamID: testAwayID, Status: match.StatusLive},
		}),
		standing:  memory.NewLeagueStandingRepository(),
		conflicts: memory.NewRosterConflictRepository(),
		notices:   &recordingPublisher{},
	}
	f.events = memory.NewMatchEventRepository(f.matches)
	f.lineups = memory.NewLineupRepository(f.matches)

	ctx := context.Background()
	for _, entry := range []lineup.Entry{
		{MatchID: testMatchID, TeamID: testHomeID, PlayerID: "p1", CreatedAt: created},
		{MatchID: testMatchID, TeamID: testHomeID, PlayerID: "p2", CreatedAt: created},
		{MatchID: testMatchID, TeamID: testAwayID, PlayerID: "p3", CreatedAt: created},
		{MatchID: testMatchID, TeamID: testAwayID, PlayerID: "p4", CreatedAt: created},
	} {
		if err := f.lineups.Add(ctx, entry); err != nil {
			t.Fatalf("seed lineup: %v", err)
		}
	}

	locks := keylock.New()
	logger := logging.NewNop()
	idGen := id.NewSequenceGenerator("id")

	f.eventSvc = NewEventService(f.leagues, f.matches, f.lineups, f.events, idGen, locks, f.notices, logger)
	f.matchSvc = NewMatchService(f.leagues, f.teams, f.matches, f.lineups, f.events, idGen, locks, f.notices, logger)
	f.lineupSvc = NewLineupService(f.matches, f.players, f.lineups, locks, f.notices, logger)
	f.leagueSvc = NewLeagueService(f.leagues, f.matches, idGen, logger)
	f.teamSvc = NewTeamService(f.teams, f.matches, idGen, logger)
	f.standings = NewStandingsService(f.leagues, f.matches, f.events, f.teams)
	f.statsSvc = NewPlayerStatsService(f.leagues, f.matches, f.events, f.lineups, f.players, f.teams)
	f.streakSvc = NewStreakService(f.leagues, f.matches, f.lineups, f.players)
	f.rosterSvc = NewRosterService(f.players, f.conflicts, idGen, RosterServiceOptions{}, logger)
	f.projection = NewProjectionService(f.leagues, f.standing, f.standings, nil, 2, logger)
	return f
}

func (f *engineFixture) appendEvent(t *testing.T, playerID, teamID string, eventType string, minute *int) string {
	t.Helper()

	event, err := f.eventSvc.Append(context.Background(), AppendEventInput{
		MatchID:  testMatchID,
		PlayerID: playerID,
		TeamID:   teamID,
		Type:     eventType,
		Minute:   minute,
	})
	if err != nil {
		t.Fatalf("append %s: %v", eventType, err)
	}
	return event.ID
}

func minuteOf(v int) *int { return &v }

type recordingPublisher struct {
	mu      sync.Mutex
	notices []changefeed.Notice
}

func (p *recordingPublisher) Publish(_ context.Context, notice changefeed.Notice) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, notice)
	return nil
}

func (p *recordingPublisher) kinds() []changefeed.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]changefeed.Kind, 0, len(p.notices))
	for _, n := range p.notices {
		out = append(out, n.Kind)
	}
	return out
}
