// Package textdiff computes edit scripts over lines, words or characters and
// windows them to a number of context units.
package textdiff

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.trai.ch/nixdiff/internal/core/domain"
)

// Split cuts s into units of the given granularity. Joining the units
// reproduces s exactly.
//
// Lines keep their trailing newline. Words alternate between runs of
// non-space and runs of space so that whitespace changes are visible.
// Characters are runes; invalid UTF-8 bytes become single-byte units.
func Split(s string, g domain.Granularity) []string {
	if s == "" {
		return nil
	}
	switch g {
	case domain.GranularityWord:
		return splitWords(s)
	case domain.GranularityCharacter:
		return splitChars(s)
	default:
		return splitLines(s)
	}
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitWords(s string) []string {
	var words []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > start && space != inSpace {
			words = append(words, s[start:i])
			start = i
		}
		inSpace = space
	}
	return append(words, s[start:])
}

func splitChars(s string) []string {
	chars := make([]string, 0, utf8.RuneCountInString(s))
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		chars = append(chars, s[i:i+size])
		i += size
	}
	return chars
}
