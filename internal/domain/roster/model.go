package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/player"
)

const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusIgnored  = "ignored"
)

// Candidate is an incoming player record from an external roster feed.
type Candidate struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Username string `json:"username" validate:"required,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=32"`
	City     string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// Normalize trims every field and lowercases the username.
func (c Candidate) Normalize() Candidate {
	return Candidate{
		FullName: strings.TrimSpace(c.FullName),
		Username: player.NormalizeUsername(c.Username),
		Phone:    strings.TrimSpace(c.Phone),
		City:     strings.TrimSpace(c.City),
	}
}

// Conflict is an ambiguous match between a candidate and an existing player awaiting an
// admin decision.
type Conflict struct {
	ID               string
	Candidate        Candidate
	ExistingPlayerID *string
	Score            float64
	Status           string
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}

func (c Conflict) IsClosed() bool {
	return c.Status == StatusResolved || c.Status == StatusIgnored
}

func (c Conflict) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("conflict id is required")
	}
	if c.Candidate.Username == "" {
		return fmt.Errorf("conflict candidate username is required")
	}
	if !IsValidStatus(c.Status) {
		return fmt.Errorf("invalid conflict status: %s", c.Status)
	}
	return nil
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusResolved, StatusIgnored:
		return true
	default:
		return false
	}
}

// Merge applies the candidate onto an existing player. The username is the identity key
// and is never overwritten; optional fields only replace stored values when present.
func Merge(existing player.Player, candidate Candidate) player.Player {
	out := existing
	if candidate.FullName != "" {
		out.FullName = candidate.FullName
	}
	if candidate.Phone != "" {
		out.Phone = candidate.Phone
	}
	if candidate.City != "" {
		out.City = candidate.City
	}
	return out
}
