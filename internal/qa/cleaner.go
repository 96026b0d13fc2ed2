package qa

import "strings"

var definitionPrefixes = []string{
	"Definition :",
	"Definition:",
	"What is",
	"What Is",
	"WHAT IS",
}

// Clean drops everything up to and including a definitional prefix. Prefixes
// are tried in order against the text left by the previous one; matching is
// case-sensitive and uses the first occurrence.
func Clean(answer string) string {
	for _, p := range definitionPrefixes {
		if _, after, ok := strings.Cut(answer, p); ok {
			answer = strings.TrimSpace(after)
		}
	}
	return answer
}
