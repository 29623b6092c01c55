package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
)

// ErrVersionConflict is returned when a match row changed since it was read.
var ErrVersionConflict = errors.New("match was modified concurrently")

// Match is one fixture between two teams of a league. Scores are never stored;
// they are derived from the match events.
type Match struct {
	ID         string
	LeagueID   string
	Matchday   int
	HomeTeamID string
	AwayTeamID string
	Status     string
	Date       *time.Time
	Time       string
	Location   string
	Version    int64
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.LeagueID == "" {
		return fmt.Errorf("match league id is required")
	}
	if m.Matchday < 1 {
		return fmt.Errorf("matchday must be >= 1")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("home and away team ids are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("home team and away team must differ")
	}
	if !IsValidStatus(m.Status) {
		return fmt.Errorf("invalid match status: %s", m.Status)
	}

	return nil
}

// HasTeam reports whether teamID plays in the match.
func (m Match) HasTeam(teamID string) bool {
	return teamID != "" && (teamID == m.HomeTeamID || teamID == m.AwayTeamID)
}

// Opponent returns the other side of teamID, or "" when teamID does not play.
func (m Match) Opponent(teamID string) string {
	switch teamID {
	case m.HomeTeamID:
		return m.AwayTeamID
	case m.AwayTeamID:
		return m.HomeTeamID
	default:
		return ""
	}
}

func (m Match) IsCompleted() bool {
	return m.Status == StatusCompleted
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusScheduled, StatusLive, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an admin may move a match from one status to another.
// Same-status updates are allowed and treated as no-ops by callers.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusScheduled:
		return to == StatusLive || to == StatusCompleted
	case StatusLive:
		return to == StatusCompleted || to == StatusScheduled
	case StatusCompleted:
		return to == StatusLive
	default:
		return false
	}
}

// SortSchedule orders matches by matchday, date and id so projections see a stable input.
func SortSchedule(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Matchday != b.Matchday {
			return a.Matchday < b.Matchday
		}
		if a.Date != nil && b.Date != nil && !a.Date.Equal(*b.Date) {
			return a.Date.Before(*b.Date)
		}
		if (a.Date == nil) != (b.Date == nil) {
			return a.Date != nil
		}
		return a.ID < b.ID
	})
}

// SortByDate orders matches by date, matchday and id. Undated matches sort after dated
// ones.
func SortByDate(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if (a.Date == nil) != (b.Date == nil) {
			return a.Date != nil
		}
		if a.Date != nil && !a.Date.Equal(*b.Date) {
			return a.Date.Before(*b.Date)
		}
		if a.Matchday != b.Matchday {
			return a.Matchday < b.Matchday
		}
		return a.ID < b.ID
	})
}
