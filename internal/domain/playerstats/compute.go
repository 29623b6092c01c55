package playerstats

import (
	"sort"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/lineup"
	"github.com/riskibarqy/league-engine/internal/domain/match"
	"github.com/riskibarqy/league-engine/internal/domain/matchevent"
)

// Compute sums player events over completed matches. Own goals are not counted as
// goals. The team of a row is the team of the player's latest lineup entry in a
// completed match, falling back to the team of the player's latest event. Latest means
// by match date, then matchday, then CreatedAt.
func Compute(matches []match.Match, events []matchevent.Event, entries []lineup.Entry, teamNames map[string]string) []Row {
	completed := make([]match.Match, 0, len(matches))
	for _, item := range matches {
		if item.IsCompleted() {
			completed = append(completed, item)
		}
	}
	if len(completed) == 0 {
		return []Row{}
	}
	match.SortByDate(completed)

	order := make(map[string]int, len(completed))
	for idx, item := range completed {
		order[item.ID] = idx
	}

	rows := make(map[string]*Row)
	lastEventTeam := make(map[string]appearance)
	for _, item := range events {
		matchOrder, ok := order[item.MatchID]
		if !ok {
			continue
		}
		row, exists := rows[item.PlayerID]
		if !exists {
			row = &Row{PlayerID: item.PlayerID}
			rows[item.PlayerID] = row
		}
		switch item.Type {
		case matchevent.TypeGoal:
			row.Goals++
		case matchevent.TypeAssist:
			row.Assists++
		case matchevent.TypeYellowCard:
			row.YellowCards++
		case matchevent.TypeRedCard:
			row.RedCards++
		case matchevent.TypeMVP:
			row.MVPCount++
		}

		candidate := appearance{teamID: item.TeamID, matchOrder: matchOrder, at: item.CreatedAt}
		if prev, seen := lastEventTeam[item.PlayerID]; !seen || candidate.after(prev) {
			lastEventTeam[item.PlayerID] = candidate
		}
	}

	lastLineupTeam := make(map[string]appearance)
	for _, entry := range entries {
		matchOrder, ok := order[entry.MatchID]
		if !ok {
			continue
		}
		candidate := appearance{teamID: entry.TeamID, matchOrder: matchOrder, at: entry.CreatedAt}
		if prev, seen := lastLineupTeam[entry.PlayerID]; !seen || candidate.after(prev) {
			lastLineupTeam[entry.PlayerID] = candidate
		}
	}

	out := make([]Row, 0, len(rows))
	for playerID, row := range rows {
		if app, ok := lastLineupTeam[playerID]; ok {
			row.TeamID = app.teamID
		} else {
			row.TeamID = lastEventTeam[playerID].teamID
		}
		row.TeamName = teamNames[row.TeamID]
		out = append(out, *row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		if out[i].Assists != out[j].Assists {
			return out[i].Assists > out[j].Assists
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	return out
}

type appearance struct {
	teamID     string
	matchOrder int
	at         time.Time
}

func (a appearance) after(other appearance) bool {
	if a.matchOrder != other.matchOrder {
		return a.matchOrder > other.matchOrder
	}
	return a.at.After(other.at)
}
