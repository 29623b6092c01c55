package match

import (
	"testing"
	"time"
)

func TestMatchValidate(t *testing.T) {
	t.Parallel()

	valid := Match{ID: "m1", LeagueID: "l1", Matchday: 1, HomeTeamID: "a", AwayTeamID: "b", Status: StatusScheduled}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid match, got %v", err)
	}

	same := valid
	same.AwayTeamID = "a"
	if err := same.Validate(); err == nil {
		t.Fatalf("expected error for identical home and away team")
	}

	zeroDay := valid
	zeroDay.Matchday = 0
	if err := zeroDay.Validate(); err == nil {
		t.Fatalf("expected error for matchday 0")
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusScheduled, StatusLive, true},
		{StatusScheduled, StatusCompleted, true},
		{StatusLive, StatusCompleted, true},
		{StatusCompleted, StatusLive, true},
		{StatusCompleted, StatusScheduled, false},
		{StatusCompleted, StatusCompleted, true},
		{"bogus", StatusLive, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %t, want %t", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOpponent(t *testing.T) {
	t.Parallel()

	m := Match{HomeTeamID: "home", AwayTeamID: "away"}
	if got := m.Opponent("home"); got != "away" {
		t.Fatalf("unexpected opponent of home: %s", got)
	}
	if got := m.Opponent("away"); got != "home" {
		t.Fatalf("unexpected opponent of away: %s", got)
	}
	if got := m.Opponent("other"); got != "" {
		t.Fatalf("expected empty opponent, got %s", got)
	}
}

func TestSortByDate(t *testing.T) {
	t.Parallel()

	early := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	items := []Match{
		{ID: "undated", Matchday: 1},
		{ID: "late-md1", Matchday: 1, Date: &late},
		{ID: "early-md3", Matchday: 3, Date: &early},
		{ID: "early-md2", Matchday: 2, Date: &early},
	}
	SortByDate(items)

	want := []string{"early-md2", "early-md3", "late-md1", "undated"}
	for idx, id := range want {
		if items[idx].ID != id {
			t.Fatalf("position %d: want %s, got %s", idx, id, items[idx].ID)
		}
	}
}
