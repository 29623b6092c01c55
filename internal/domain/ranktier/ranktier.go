// Package ranktier maps cumulative scores to named competitive tiers.
package ranktier

import (
	"fmt"
	"math"
	"sort"
)

const (
	// PredatorMinScore is the score from which leaderboard leaders become Predators.
	PredatorMinScore = 4000
	// PredatorMaxRank is the lowest leaderboard rank still eligible for Predator.
	PredatorMaxRank = 10
)

const (
	LabelUnranked = "Unranked"
	LabelRookie   = "Rookie"
)

// Tier is a classified bracket. Level grows with the bracket so tiers can be compared.
type Tier struct {
	Label string
	Level int
}

func (t Tier) IsPredator() bool {
	return t.Level == predatorLevel
}

type threshold struct {
	min   float64
	label string
}

// thresholds must stay sorted by min ascending.
var thresholds = []threshold{
	{min: 0, label: LabelRookie},
	{min: 100, label: "Fox III"},
	{min: 250, label: "Fox II"},
	{min: 400, label: "Fox I"},
	{min: 600, label: "Crocodile III"},
	{min: 850, label: "Crocodile II"},
	{min: 1100, label: "Crocodile I"},
	{min: 1400, label: "Gorilla III"},
	{min: 1750, label: "Gorilla II"},
	{min: 2100, label: "Gorilla I"},
	{min: 2500, label: "Goat III"},
	{min: 3000, label: "Goat II"},
	{min: 3500, label: "Goat I"},
}

var predatorLevel = len(thresholds) + 1

// Classify returns the tier of score for a player at leaderboard rank. It is defined for
// every input: non-positive and NaN scores are Unranked, and ranks outside 1..10 never
// reach Predator.
func Classify(score float64, rank int) Tier {
	if math.IsNaN(score) || score <= 0 {
		return Tier{Label: LabelUnranked, Level: 0}
	}
	if score >= PredatorMinScore && rank >= 1 && rank <= PredatorMaxRank {
		return Tier{Label: fmt.Sprintf("Predator #%d", rank), Level: predatorLevel}
	}

	idx := sort.Search(len(thresholds), func(i int) bool {
		return thresholds[i].min > score
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return Tier{Label: thresholds[idx].label, Level: idx + 1}
}

// Entry is one leaderboard participant.
type Entry struct {
	PlayerID string
	Score    float64
}

// Ranked is an entry with its 1-based leaderboard rank and tier.
type Ranked struct {
	Entry
	Rank int
	Tier Tier
}

// RankLeaderboard orders entries by score descending (ties keep input order) and
// classifies each with its resulting rank.
func RankLeaderboard(entries []Entry) []Ranked {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	out := make([]Ranked, 0, len(sorted))
	for idx, item := range sorted {
		rank := idx + 1
		out = append(out, Ranked{Entry: item, Rank: rank, Tier: Classify(item.Score, rank)})
	}
	return out
}
