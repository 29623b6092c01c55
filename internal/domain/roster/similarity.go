package roster

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/riskibarqy/league-engine/internal/domain/player"
)

// DefaultMatchThreshold is the similarity from which an existing player is considered a
// plausible duplicate of a candidate.
const DefaultMatchThreshold = 0.8

// phoneSuffixDigits ignores country and trunk prefixes when comparing phone numbers.
const phoneSuffixDigits = 9

// Similarity scores how likely candidate and existing describe the same person, in [0,1].
type Similarity interface {
	Score(candidate Candidate, existing player.Player) float64
}

// SimilarityFunc adapts a function to Similarity.
type SimilarityFunc func(candidate Candidate, existing player.Player) float64

func (f SimilarityFunc) Score(candidate Candidate, existing player.Player) float64 {
	return f(candidate, existing)
}

// NameAndPhoneSimilarity treats equal phone numbers as a certain match and otherwise
// takes the stronger of bigram Jaccard and Levenshtein similarity of the normalized full
// names. Levenshtein also runs on the names with sorted tokens so word order does not
// count as an edit.
type NameAndPhoneSimilarity struct{}

func (NameAndPhoneSimilarity) Score(candidate Candidate, existing player.Player) float64 {
	candidatePhone := phoneDigits(candidate.Phone)
	existingPhone := phoneDigits(existing.Phone)
	if candidatePhone != "" && candidatePhone == existingPhone {
		return 1
	}

	a := normalizeName(candidate.FullName)
	b := normalizeName(existing.FullName)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	levenshtein := metrics.NewLevenshtein()
	return max(
		strutil.Similarity(a, b, metrics.NewJaccard()),
		strutil.Similarity(a, b, levenshtein),
		strutil.Similarity(sortTokens(a), sortTokens(b), levenshtein),
	)
}

// BestMatch returns the existing player with the highest score at or above threshold.
// Ties keep the first player in input order.
func BestMatch(sim Similarity, candidate Candidate, existing []player.Player, threshold float64) (player.Player, float64, bool) {
	var (
		best      player.Player
		bestScore float64
		found     bool
	)
	for _, item := range existing {
		score := sim.Score(candidate, item)
		if score < threshold {
			continue
		}
		if !found || score > bestScore {
			best, bestScore, found = item, score, true
		}
	}
	return best, bestScore, found
}

func phoneDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > phoneSuffixDigits {
		digits = digits[len(digits)-phoneSuffixDigits:]
	}
	return digits
}

func normalizeName(raw string) string {
	fields := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

func sortTokens(name string) string {
	tokens := strings.Fields(name)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
