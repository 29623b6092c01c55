package leaguestanding

import "time"

// Standing represents a league table row for one team.
type Standing struct {
	LeagueID       string
	TeamID         string
	TeamName       string
	TeamColor      string
	Position       int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	ComputedAt     *time.Time
}

const (
	PointsForWin  = 3
	PointsForDraw = 1
)
