package lineup

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrEntryNotFound = errors.New("lineup entry not found")
	ErrJerseyTaken   = errors.New("jersey number already assigned")
)

// Entry assigns one player to one team for a specific match.
type Entry struct {
	MatchID      string
	TeamID       string
	PlayerID     string
	JerseyNumber *int
	CreatedAt    time.Time
}

// Key identifies a lineup entry.
type Key struct {
	MatchID  string
	TeamID   string
	PlayerID string
}

func (e Entry) Key() Key {
	return Key{MatchID: e.MatchID, TeamID: e.TeamID, PlayerID: e.PlayerID}
}

func (e Entry) HasJersey() bool {
	return e.JerseyNumber != nil
}

// JerseyHolder returns the entry on the same match and team holding number, if any,
// other than the entry identified by self.
func JerseyHolder(entries []Entry, self Key, number int) (Entry, bool) {
	for _, item := range entries {
		if item.MatchID != self.MatchID || item.TeamID != self.TeamID {
			continue
		}
		if item.PlayerID == self.PlayerID {
			continue
		}
		if item.JerseyNumber != nil && *item.JerseyNumber == number {
			return item, true
		}
	}
	return Entry{}, false
}

// SortForDisplay orders entries by team, jersey ascending with unassigned last, then player.
func SortForDisplay(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		switch {
		case a.JerseyNumber != nil && b.JerseyNumber == nil:
			return true
		case a.JerseyNumber == nil && b.JerseyNumber != nil:
			return false
		case a.JerseyNumber != nil && b.JerseyNumber != nil && *a.JerseyNumber != *b.JerseyNumber:
			return *a.JerseyNumber < *b.JerseyNumber
		}
		return a.PlayerID < b.PlayerID
	})
}
