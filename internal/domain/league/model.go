package league

import (
	"errors"
	"fmt"
)

const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

var ErrActiveLeagueExists = errors.New("another league is already active in scope")

// League groups matches of one season. At most one league per Scope is active.
type League struct {
	ID     string
	Name   string
	Season string
	Scope  string
	Status string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Season == "" {
		return fmt.Errorf("league season is required")
	}
	if !IsValidStatus(l.Status) {
		return fmt.Errorf("invalid league status: %s", l.Status)
	}

	return nil
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}
