// Package qa selects, verifies, scores and cleans extractive answers.
package qa

import "strings"

// Overlap counts the distinct lower-cased whitespace tokens shared by a and b.
func Overlap(a, b string) int {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(a)) {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range strings.Fields(strings.ToLower(b)) {
		if _, ok := set[t]; ok {
			n++
			delete(set, t)
		}
	}
	return n
}

// TokenCount is the number of whitespace tokens in s.
func TokenCount(s string) int { return len(strings.Fields(s)) }
