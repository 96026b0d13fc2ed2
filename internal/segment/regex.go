// Package segment turns chunks into the flattened sentence sequence shared by
// answer selection and summarization.
package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// RegexSegmenter splits on every terminal punctuation mark, including the
// dots of abbreviations and decimals. Text after the last terminator is kept
// as a final sentence.
type RegexSegmenter struct {
	splitter *regexp.Regexp
}

func NewRegexSegmenter() *RegexSegmenter {
	return &RegexSegmenter{splitter: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)}
}

func (r *RegexSegmenter) Segment(text string) ([]string, error) {
	var out []string
	end := 0
	for _, loc := range r.splitter.FindAllStringIndex(text, -1) {
		out = appendSentence(out, text[loc[0]:loc[1]])
		end = loc[1]
	}
	return appendSentence(out, text[end:]), nil
}

func appendSentence(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
		return out
	}
	return append(out, s)
}
