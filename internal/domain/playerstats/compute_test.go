package playerstats

import (
	"testing"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		{ID: "m1", Matchday: 1, HomeTeamID: "t1", AwayTeamID: "t2", Status: match.StatusCompleted},
		{ID: "m2", Matchday: 2, HomeTeamID: "t3", AwayTeamID: "t1", Status: match.StatusCompleted},
		{ID: "m3", Matchday: 3, HomeTeamID: "t1", AwayTeamID: "t2", Status: match.StatusLive},
	}
	events := []matchevent.Event{
		{ID: "e1", MatchID: "m1", PlayerID: "p1", TeamID: "t1", Type: matchevent.TypeGoal},
		{ID: "e2", MatchID: "m1", PlayerID: "p2", TeamID: "t1", Type: matchevent.TypeAssist},
		{ID: "e3", MatchID: "m1", PlayerID: "p3", TeamID: "t2", Type: matchevent.TypeOwnGoal},
		{ID: "e4", MatchID: "m1", PlayerID: "p3", TeamID: "t2", Type: matchevent.TypeYellowCard},
		{ID: "e5", MatchID: "m2", PlayerID: "p1", TeamID: "t3", Type: matchevent.TypeGoal},
		{ID: "e6", MatchID: "m2", PlayerID: "p1", TeamID: "t3", Type: matchevent.TypeMVP},
		{ID: "e7", MatchID: "m2", PlayerID: "p2", TeamID: "t1", Type: matchevent.TypeRedCard},
		{ID: "e8", MatchID: "m3", PlayerID: "p1", TeamID: "t1", Type: matchevent.TypeGoal},
		{ID: "e9", MatchID: "m3", PlayerID: "p9", TeamID: "t1", Type: matchevent.TypeGoal},
	}
	entries := []lineup.Entry{
		{MatchID: "m1", TeamID: "t1", PlayerID: "p1", CreatedAt: time.Unix(1, 0)},
		{MatchID: "m2", TeamID: "t3", PlayerID: "p1", CreatedAt: time.Unix(2, 0)},
		{MatchID: "m3", TeamID: "t1", PlayerID: "p1", CreatedAt: time.Unix(3, 0)},
		{MatchID: "m1", TeamID: "t1", PlayerID: "p2", CreatedAt: time.Unix(1, 0)},
	}
	teamNames := map[string]string{"t1": "Red Lions", "t2": "Blue Sharks", "t3": "Green Owls"}

	got := Compute(matches, events, entries, teamNames)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(got), got)
	}

	p1 := got[0]
	if p1.PlayerID != "p1" || p1.Goals != 2 || p1.MVPCount != 1 {
		t.Fatalf("unexpected p1 row: %+v", p1)
	}
	if p1.TeamID != "t3" || p1.TeamName != "Green Owls" {
		t.Fatalf("p1 should be attributed to latest completed lineup team, got %+v", p1)
	}

	p2 := got[1]
	if p2.PlayerID != "p2" || p2.Assists != 1 || p2.RedCards != 1 || p2.TeamName != "Red Lions" {
		t.Fatalf("unexpected p2 row: %+v", p2)
	}

	p3 := got[2]
	if p3.PlayerID != "p3" || p3.Goals != 0 || p3.YellowCards != 1 {
		t.Fatalf("own goal must not count as goal: %+v", p3)
	}
	if p3.TeamID != "t2" {
		t.Fatalf("p3 without lineup falls back to event team, got %+v", p3)
	}
}

func TestCompute_NoCompletedMatches(t *testing.T) {
	t.Parallel()

	got := Compute([]match.Match{{ID: "m1", Status: match.StatusScheduled}}, []matchevent.Event{{ID: "e1", MatchID: "m1", PlayerID: "p1", Type: matchevent.TypeGoal}}, nil, nil)
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %+v", got)
	}
}

func TestCompute_TeamFollowsMatchDateBeforeMatchday(t *testing.T) {
	t.Parallel()

	january := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	february := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)
	matches := []match.Match{
		// A postponed matchday 1 fixture played after matchday 2.
		{ID: "m1", Matchday: 1, Date: &february, HomeTeamID: "t2", AwayTeamID: "t3", Status: match.StatusCompleted},
		{ID: "m2", Matchday: 2, Date: &january, HomeTeamID: "t1", AwayTeamID: "t3", Status: match.StatusCompleted},
	}
	events := []matchevent.Event{
		{ID: "e1", MatchID: "m2", PlayerID: "p1", TeamID: "t1", Type: matchevent.TypeGoal},
		{ID: "e2", MatchID: "m1", PlayerID: "p1", TeamID: "t2", Type: matchevent.TypeAssist},
	}
	entries := []lineup.Entry{
		{MatchID: "m1", TeamID: "t2", PlayerID: "p1", CreatedAt: time.Unix(1, 0)},
		{MatchID: "m2", TeamID: "t1", PlayerID: "p1", CreatedAt: time.Unix(2, 0)},
	}

	got := Compute(matches, events, entries, map[string]string{"t1": "Red Lions", "t2": "Blue Sharks"})
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %+v", got)
	}
	if got[0].TeamID != "t2" || got[0].TeamName != "Blue Sharks" {
		t.Fatalf("expected the February lineup team, got %+v", got[0])
	}

	withoutLineups := Compute(matches, events, nil, nil)
	if withoutLineups[0].TeamID != "t2" {
		t.Fatalf("expected the February event team, got %+v", withoutLineups[0])
	}
}
