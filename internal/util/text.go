package util

import (
	"strings"
	"unicode"
)

// SanitizeText drops invalid UTF-8, NUL bytes and control characters other
// than newlines and tabs. Used on article text before it reaches a prompt or
// a Postgres text column.
func SanitizeText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' {
			return '\n'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, sanitized)
}

// CollapseWhitespace joins all runs of whitespace into single spaces.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
