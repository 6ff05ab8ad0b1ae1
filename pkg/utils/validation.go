package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank reports whether s is empty or only whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsDigits reports whether s is non-empty and every rune is an ASCII digit
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ExceedsLength reports whether s has more than max characters
func ExceedsLength(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// HasLength reports whether s has exactly n characters
func HasLength(s string, n int) bool {
	return utf8.RuneCountInString(s) == n
}
