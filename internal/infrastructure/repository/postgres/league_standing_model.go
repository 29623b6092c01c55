package postgres

import (
	"database/sql"
	"time"
)

type leagueStandingTableModel struct {
	LeagueID       string       `db:"league_public_id"`
	TeamID         string       `db:"team_public_id"`
	TeamName       string       `db:"team_name"`
	TeamColor      string       `db:"team_color"`
	Position       int          `db:"position"`
	Played         int          `db:"played"`
	Won            int          `db:"won"`
	Drawn          int          `db:"drawn"`
	Lost           int          `db:"lost"`
	GoalsFor       int          `db:"goals_for"`
	GoalsAgainst   int          `db:"goals_against"`
	GoalDifference int          `db:"goal_difference"`
	Points         int          `db:"points"`
	ComputedAt     sql.NullTime `db:"computed_at"`
}

type leagueStandingInsertModel struct {
	LeagueID       string     `db:"league_public_id"`
	TeamID         string     `db:"team_public_id"`
	Position       int        `db:"position"`
	Played         int        `db:"played"`
	Won            int        `db:"won"`
	Drawn          int        `db:"drawn"`
	Lost           int        `db:"lost"`
	GoalsFor       int        `db:"goals_for"`
	GoalsAgainst   int        `db:"goals_against"`
	GoalDifference int        `db:"goal_difference"`
	Points         int        `db:"points"`
	ComputedAt     *time.Time `db:"computed_at"`
}
