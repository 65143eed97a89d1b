// Package suggest finds known names close to a mistyped one.
package suggest

import (
	"cmp"
	"slices"
	"strings"
)

// threshold is the minimum similarity score required for a string to be considered similar.
const threshold = 0.5

type match struct {
	name  string
	score float64
}

// FindSimilar returns up to maxResults candidates similar to target, best match first. Ties are
// ordered by name.
func FindSimilar(target string, candidates []string, maxResults int) []string {
	if target == "" || maxResults <= 0 {
		return []string{}
	}

	matches := make([]match, 0, len(candidates))
	for _, name := range candidates {
		if score := similarity(target, name); score > threshold {
			matches = append(matches, match{name: name, score: score})
		}
	}
	slices.SortFunc(matches, func(a, b match) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	result := make([]string, 0, min(len(matches), maxResults))
	for _, m := range matches[:min(len(matches), maxResults)] {
		result = append(result, m.name)
	}
	return result
}

// similarity scores two names between 0 and 1, case-insensitively. A candidate that starts with
// target scores 0.9.
func similarity(target, candidate string) float64 {
	a := []rune(strings.ToLower(target))
	b := []rune(strings.ToLower(candidate))
	switch {
	case slices.Equal(a, b):
		return 1.0
	case len(a) <= len(b) && slices.Equal(a, b[:len(a)]):
		return 0.9
	}
	return 1.0 - float64(distance(a, b))/float64(max(len(a), len(b)))
}

// distance is the Levenshtein edit distance, computed with two rows.
func distance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
