package engine

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// noMatch is the sentinel score for items the pattern does not match.
const noMatch int64 = -1

// historyBoost is added to a matching item's score once per recorded launch.
const historyBoost int64 = 100

// matchScores scores every name against the pattern using fuzzy subsequence
// matching with smart case: an all-lowercase pattern matches
// case-insensitively, a pattern containing an uppercase rune must be an
// exact-case subsequence. Matching names always score >= 1; non-matches get
// the noMatch sentinel.
func matchScores(pattern string, names []string) []int64 {
	scores := make([]int64, len(names))
	for i := range scores {
		scores[i] = noMatch
	}

	exactCase := hasUpper(pattern)

	for _, m := range fuzzy.Find(pattern, names) {
		if exactCase && !isSubsequence(pattern, names[m.Index]) {
			continue
		}
		score := int64(m.Score)
		if score < 1 {
			score = 1
		}
		scores[m.Index] = score
	}

	return scores
}

func hasUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

// isSubsequence reports whether pattern appears in s as an ordered,
// case-sensitive subsequence.
func isSubsequence(pattern, s string) bool {
	next := []rune(pattern)
	if len(next) == 0 {
		return true
	}
	i := 0
	for _, r := range s {
		if r == next[i] {
			i++
			if i == len(next) {
				return true
			}
		}
	}
	return false
}
