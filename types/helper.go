package types

import (
	"unicode/utf8"
)

// excerpt returns at most length runes of s starting at the byte offset from.
func excerpt(s string, from, length int) string {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		return ""
	}

	end := from
	for count := 0; end < len(s) && count < length; count++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}

	return s[from:end]
}

// isRuneBoundary reports whether the byte offset pos of s starts a rune.
func isRuneBoundary(s string, pos int) bool {
	return pos == 0 || pos == len(s) || utf8.RuneStart(s[pos])
}

const infiniteLength = int(^uint(0) >> 1)

func addLength(a, b int) int {
	if a == infiniteLength || b == infiniteLength {
		return infiniteLength
	}
	return a + b
}
