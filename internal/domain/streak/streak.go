// Package streak computes weekly participation streaks.
package streak

import (
	"sort"
	"time"
)

// Participation records that a player attended a game on a date.
type Participation struct {
	PlayerID string
	GameDate time.Time
}

// Result is the longest run of consecutive ISO weeks with at least one appearance.
type Result struct {
	PlayerID      string
	LongestStreak int
}

type weekKey struct {
	year int
	week int
}

func (k weekKey) less(other weekKey) bool {
	if k.year != other.year {
		return k.year < other.year
	}
	return k.week < other.week
}

// follows reports whether k is the ISO week right after prev.
func (k weekKey) follows(prev weekKey) bool {
	if k.year == prev.year {
		return k.week == prev.week+1
	}
	return k.year == prev.year+1 && k.week == 1 && prev.week >= 52
}

// Compute returns one result per player ordered by streak descending, then player id.
func Compute(records []Participation) []Result {
	weeksByPlayer := make(map[string]map[weekKey]struct{})
	for _, item := range records {
		if item.PlayerID == "" || item.GameDate.IsZero() {
			continue
		}
		year, week := item.GameDate.ISOWeek()
		set, ok := weeksByPlayer[item.PlayerID]
		if !ok {
			set = make(map[weekKey]struct{})
			weeksByPlayer[item.PlayerID] = set
		}
		set[weekKey{year: year, week: week}] = struct{}{}
	}

	out := make([]Result, 0, len(weeksByPlayer))
	for playerID, set := range weeksByPlayer {
		out = append(out, Result{PlayerID: playerID, LongestStreak: longestRun(set)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LongestStreak != out[j].LongestStreak {
			return out[i].LongestStreak > out[j].LongestStreak
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

func longestRun(set map[weekKey]struct{}) int {
	keys := make([]weekKey, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	best, current := 0, 0
	for idx, key := range keys {
		if idx > 0 && key.follows(keys[idx-1]) {
			current++
		} else {
			current = 1
		}
		if current > best {
			best = current
		}
	}
	return best
}

// Top returns at most n results; n <= 0 returns all of them.
func Top(results []Result, n int) []Result {
	if n <= 0 || n > len(results) {
		n = len(results)
	}
	out := make([]Result, n)
	copy(out, results[:n])
	return out
}
