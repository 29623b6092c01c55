package matchevent

// Score is the derived result of a match.
type Score struct {
	Home int
	Away int
}

// ComputeScore derives a match score from its events. A team scores its own goals plus
// the own goals recorded against the opposing team. Events of teams outside the match
// and non-scoring event types are ignored.
func ComputeScore(events []Event, homeTeamID, awayTeamID string) Score {
	var out Score
	for _, item := range events {
		switch item.Type {
		case TypeGoal:
			switch item.TeamID {
			case homeTeamID:
				out.Home++
			case awayTeamID:
				out.Away++
			}
		case TypeOwnGoal:
			switch item.TeamID {
			case homeTeamID:
				out.Away++
			case awayTeamID:
				out.Home++
			}
		}
	}
	return out
}

// GroupByMatch indexes events by match id, preserving input order.
func GroupByMatch(events []Event) map[string][]Event {
	out := make(map[string][]Event)
	for _, item := range events {
		out[item.MatchID] = append(out[item.MatchID], item)
	}
	return out
}
