package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID         int64        `db:"id"`
	PublicID   string       `db:"public_id"`
	LeagueID   string       `db:"league_public_id"`
	Matchday   int          `db:"matchday"`
	HomeTeamID string       `db:"home_team_public_id"`
	AwayTeamID string       `db:"away_team_public_id"`
	Status     string       `db:"status"`
	MatchDate  sql.NullTime `db:"match_date"`
	MatchTime  string       `db:"match_time"`
	Location   string       `db:"location"`
	Version    int64        `db:"version"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID   string       `db:"public_id"`
	LeagueID   string       `db:"league_public_id"`
	Matchday   int          `db:"matchday"`
	HomeTeamID string       `db:"home_team_public_id"`
	AwayTeamID string       `db:"away_team_public_id"`
	Status     string       `db:"status"`
	MatchDate  sql.NullTime `db:"match_date"`
	MatchTime  string       `db:"match_time"`
	Location   string       `db:"location"`
	Version    int64        `db:"version"`
}
