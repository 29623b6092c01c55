package player

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUsernameTaken = errors.New("username already taken")

// Player is a person that can appear in match lineups. Username is the stable identity key.
type Player struct {
	ID        string
	Username  string
	FullName  string
	Phone     string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Username == "" {
		return fmt.Errorf("player username is required")
	}
	if p.FullName == "" {
		return fmt.Errorf("player full name is required")
	}

	return nil
}

// NormalizeUsername is the canonical form used for identity comparisons.
func NormalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
