package utils

import (
	"strings"
)

// Normalize lowercases text and collapses every whitespace run to one space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize returns the set of lowercase ASCII-letter words of at least three
// letters found in text.
func Tokenize(text string) map[string]struct{} {
	words := make(map[string]struct{})
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= 3 {
			words[strings.ToLower(text[start:end])] = struct{}{}
		}
		start = -1
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return words
}
