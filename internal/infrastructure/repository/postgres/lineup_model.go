package postgres

import (
	"database/sql"
	"time"
)

type lineupTableModel struct {
	MatchID      string        `db:"match_public_id"`
	TeamID       string        `db:"team_public_id"`
	PlayerID     string        `db:"player_public_id"`
	JerseyNumber sql.NullInt64 `db:"jersey_number"`
	CreatedAt    time.Time     `db:"created_at"`
}

type lineupInsertModel struct {
	MatchID   string    `db:"match_public_id"`
	TeamID    string    `db:"team_public_id"`
	PlayerID  string    `db:"player_public_id"`
	CreatedAt time.Time `db:"created_at"`
}
