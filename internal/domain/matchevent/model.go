package matchevent

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrEventsMissing is returned by DeleteMany when one of the ids is already gone.
var ErrEventsMissing = errors.New("match events already removed")

// Type is the kind of a match event.
type Type string

const (
	TypeGoal       Type = "goal"
	TypeAssist     Type = "assist"
	TypeOwnGoal    Type = "own_goal"
	TypeYellowCard Type = "yellow_card"
	TypeRedCard    Type = "red_card"
	TypeMVP        Type = "mvp"
)

const (
	MinMinute = 0
	MaxMinute = 120
)

var allTypes = map[Type]struct{}{
	TypeGoal:       {},
	TypeAssist:     {},
	TypeOwnGoal:    {},
	TypeYellowCard: {},
	TypeRedCard:    {},
	TypeMVP:        {},
}

func (t Type) Valid() bool {
	_, ok := allTypes[t]
	return ok
}

// Event is one immutable entry of a match event log. A correction is a delete
// followed by a new append.
type Event struct {
	ID        string
	MatchID   string
	PlayerID  string
	TeamID    string
	Type      Type
	Minute    *int
	CreatedAt time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.MatchID == "" {
		return fmt.Errorf("event match id is required")
	}
	if e.PlayerID == "" {
		return fmt.Errorf("event player id is required")
	}
	if e.TeamID == "" {
		return fmt.Errorf("event team id is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type: %s", e.Type)
	}
	if e.Minute != nil && (*e.Minute < MinMinute || *e.Minute > MaxMinute) {
		return fmt.Errorf("minute must be between %d and %d, got %d", MinMinute, MaxMinute, *e.Minute)
	}

	return nil
}

// SameMinute compares optional minutes; two missing minutes are equal.
func SameMinute(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// PairedAssist finds the assist implicitly linked to goal: same match, team and minute.
// There is no explicit reference between the two events, so when several assists share
// the key the earliest appended one is returned.
func PairedAssist(events []Event, goal Event) (Event, bool) {
	if goal.Type != TypeGoal {
		return Event{}, false
	}

	candidates := make([]Event, 0, 1)
	for _, item := range events {
		if item.Type != TypeAssist || item.ID == goal.ID {
			continue
		}
		if item.MatchID != goal.MatchID || item.TeamID != goal.TeamID {
			continue
		}
		if !SameMinute(item.Minute, goal.Minute) {
			continue
		}
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return Event{}, false
	}

	SortChronological(candidates)
	return candidates[0], true
}

// SortChronological orders events by append time, then id.
func SortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})
}
