// Package text provides rune-aware helpers for Gujarati and other multi-byte text.
package text

import "unicode/utf8"

// CountRunes counts the Unicode characters in s rather than its bytes.
//
//	CountRunes("સમાચાર") // 6
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most limit runes, appending "..." when anything was cut.
// A limit below 1 returns s unchanged.
func Truncate(s string, limit int) string {
	if limit < 1 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
