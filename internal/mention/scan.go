// Package mention resolves @member and #task references in comment text and
// powers compose-box autocomplete. Everything in this package is a pure
// function of its arguments.
package mention

import "unicode"

const (
	mentionPrefix = '@'
	taskPrefix    = '#'
)

// isWordRune reports whether r can appear in a reference token.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordEnd returns the index just past the run of word runes starting at i.
func wordEnd(runes []rune, i int) int {
	for i < len(runes) && isWordRune(runes[i]) {
		i++
	}
	return i
}

// wordStart returns the index of the first rune in the run of word runes
// ending just before i.
func wordStart(runes []rune, i int) int {
	for i > 0 && isWordRune(runes[i-1]) {
		i--
	}
	return i
}

// clamp limits offset to [0, n].
func clamp(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}
