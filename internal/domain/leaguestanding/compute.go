package leaguestanding

import (
	"sort"

	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
)

// Compute derives the league table from completed matches and the events of those
// matches. Rows are ordered by points, goal difference and goals for; rows equal on all
// three keep the order in which their team first appears in the match schedule.
func Compute(leagueID string, matches []match.Match, events []matchevent.Event) []Standing {
	completed := make([]match.Match, 0, len(matches))
	for _, item := range matches {
		if item.IsCompleted() {
			completed = append(completed, item)
		}
	}
	if len(completed) == 0 {
		return []Standing{}
	}
	match.SortSchedule(completed)

	eventsByMatch := matchevent.GroupByMatch(events)
	index := make(map[string]int)
	rows := make([]Standing, 0)
	rowFor := func(teamID string) *Standing {
		idx, ok := index[teamID]
		if !ok {
			idx = len(rows)
			index[teamID] = idx
			rows = append(rows, Standing{LeagueID: leagueID, TeamID: teamID})
		}
		return &rows[idx]
	}

	for _, item := range completed {
		score := matchevent.ComputeScore(eventsByMatch[item.ID], item.HomeTeamID, item.AwayTeamID)
		home := rowFor(item.HomeTeamID)
		applyResult(home, score.Home, score.Away)
		away := rowFor(item.AwayTeamID)
		applyResult(away, score.Away, score.Home)
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
		rows[i].Points = PointsForWin*rows[i].Won + PointsForDraw*rows[i].Drawn
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		return rows[i].GoalsFor > rows[j].GoalsFor
	})
	for i := range rows {
		rows[i].Position = i + 1
	}

	return rows
}

func applyResult(row *Standing, scored, conceded int) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		row.Won++
	case scored == conceded:
		row.Drawn++
	default:
		row.Lost++
	}
}
