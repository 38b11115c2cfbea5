package grading

import (
	"strings"
	"unicode"
)

// Tokenize splits s into its distinct lowercase word tokens. A token is a
// maximal run of letters and digits; everything else separates tokens.
func Tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.ToLower(f)] = struct{}{}
	}
	return set
}

// Overlap returns |key ∩ answer| / |key|, or 0 for an empty key.
func Overlap(key, answer map[string]struct{}) float64 {
	if len(key) == 0 {
		return 0
	}
	hits := 0
	for w := range key {
		if _, ok := answer[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(key))
}
