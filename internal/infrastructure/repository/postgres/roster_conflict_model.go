package postgres

import (
	"database/sql"
	"time"
)

type rosterConflictTableModel struct {
	ID               int64          `db:"id"`
	PublicID         string         `db:"public_id"`
	Username         string         `db:"username"`
	Candidate        string         `db:"candidate"`
	ExistingPlayerID sql.NullString `db:"existing_player_public_id"`
	Score            float64        `db:"score"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
	ResolvedAt       sql.NullTime   `db:"resolved_at"`
}

type rosterConflictInsertModel struct {
	PublicID         string         `db:"public_id"`
	Username         string         `db:"username"`
	Candidate        string         `db:"candidate"`
	ExistingPlayerID sql.NullString `db:"existing_player_public_id"`
	Score            float64        `db:"score"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
}
