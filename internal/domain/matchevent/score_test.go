package matchevent

import (
	"testing"
	"time"
)

func minute(v int) *int { return &v }

func TestComputeScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []Event
		want   Score
	}{
		{
			name: "empty log",
			want: Score{},
		},
		{
			name: "goal assist and own goal",
			events: []Event{
				{ID: "e1", Type: TypeGoal, TeamID: "x", PlayerID: "p1", Minute: minute(5)},
				{ID: "e2", Type: TypeAssist, TeamID: "x", PlayerID: "p2", Minute: minute(5)},
				{ID: "e3", Type: TypeOwnGoal, TeamID: "y", PlayerID: "p3", Minute: minute(20)},
			},
			want: Score{Home: 2, Away: 0},
		},
		{
			name: "own goal by home credits away",
			events: []Event{
				{ID: "e1", Type: TypeOwnGoal, TeamID: "x", PlayerID: "p1"},
			},
			want: Score{Home: 0, Away: 1},
		},
		{
			name: "cards and mvp never score",
			events: []Event{
				{ID: "e1", Type: TypeYellowCard, TeamID: "x", PlayerID: "p1"},
				{ID: "e2", Type: TypeRedCard, TeamID: "y", PlayerID: "p2"},
				{ID: "e3", Type: TypeMVP, TeamID: "y", PlayerID: "p2"},
				{ID: "e4", Type: TypeAssist, TeamID: "y", PlayerID: "p2"},
			},
			want: Score{},
		},
		{
			name: "foreign team ignored",
			events: []Event{
				{ID: "e1", Type: TypeGoal, TeamID: "z", PlayerID: "p1"},
				{ID: "e2", Type: TypeOwnGoal, TeamID: "z", PlayerID: "p1"},
				{ID: "e3", Type: TypeGoal, TeamID: "y", PlayerID: "p2"},
			},
			want: Score{Home: 0, Away: 1},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeScore(tc.events, "x", "y")
			if got != tc.want {
				t.Fatalf("unexpected score: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestPairedAssist(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	goal := Event{ID: "g1", MatchID: "m1", TeamID: "x", Type: TypeGoal, Minute: minute(5), CreatedAt: base}
	events := []Event{
		goal,
		{ID: "a-late", MatchID: "m1", TeamID: "x", Type: TypeAssist, Minute: minute(5), CreatedAt: base.Add(2 * time.Minute)},
		{ID: "a-early", MatchID: "m1", TeamID: "x", Type: TypeAssist, Minute: minute(5), CreatedAt: base.Add(time.Minute)},
		{ID: "a-other-team", MatchID: "m1", TeamID: "y", Type: TypeAssist, Minute: minute(5), CreatedAt: base},
		{ID: "a-other-minute", MatchID: "m1", TeamID: "x", Type: TypeAssist, Minute: minute(6), CreatedAt: base},
		{ID: "a-no-minute", MatchID: "m1", TeamID: "x", Type: TypeAssist, CreatedAt: base},
	}

	got, ok := PairedAssist(events, goal)
	if !ok {
		t.Fatalf("expected paired assist")
	}
	if got.ID != "a-early" {
		t.Fatalf("expected earliest assist on the same key, got %s", got.ID)
	}

	noMinuteGoal := Event{ID: "g2", MatchID: "m1", TeamID: "x", Type: TypeGoal}
	got, ok = PairedAssist(events, noMinuteGoal)
	if !ok || got.ID != "a-no-minute" {
		t.Fatalf("goal without minute must pair with assist without minute, got %+v ok=%t", got, ok)
	}

	if _, ok := PairedAssist(events, Event{ID: "c1", Type: TypeYellowCard, MatchID: "m1", TeamID: "x", Minute: minute(5)}); ok {
		t.Fatalf("only goals have paired assists")
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	valid := Event{ID: "e1", MatchID: "m1", PlayerID: "p1", TeamID: "t1", Type: TypeGoal, Minute: minute(120)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}

	outOfRange := valid
	outOfRange.Minute = minute(121)
	if err := outOfRange.Validate(); err == nil {
		t.Fatalf("expected minute range error")
	}

	unknown := valid
	unknown.Type = Type("penalty")
	if err := unknown.Validate(); err == nil {
		t.Fatalf("expected unknown type error")
	}
}
