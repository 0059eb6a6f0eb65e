package formula

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Distance is the Levenshtein edit distance between a and b, counting
// single-rune insertions, deletions, and substitutions.
func Distance(a, b string) int {
	return fuzzy.LevenshteinDistance(a, b)
}

// Threshold is the largest distance at which a candidate is suggested for
// target: max(2, ceil(len/3)) where len counts runes.
func Threshold(target string) int {
	t := (utf8.RuneCountInString(target) + 2) / 3
	if t < 2 {
		return 2
	}
	return t
}

// Suggest finds the candidate closest to target. A candidate is eligible if it
// is within Threshold(target) edits of target or if target is a proper prefix
// of it. The eligible candidate at the smallest distance wins, and ties go to
// the earliest. Candidates that are not valid bare names are skipped. The
// result is the index of the chosen candidate, or -1 if none is eligible.
func Suggest(target string, candidates []string) int {
	best, bestd := -1, 0
	lim := Threshold(target)
	for i, c := range candidates {
		if !IsBareName(c) {
			continue
		}
		d := Distance(target, c)
		if d > lim && (target == "" || !strings.HasPrefix(c, target)) {
			continue
		}
		if best < 0 || d < bestd {
			best, bestd = i, d
		}
	}
	return best
}
