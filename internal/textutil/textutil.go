// Package textutil holds the text normalization shared by every heuristic.
package textutil

import "strings"

// Normalize collapses whitespace runs into single spaces and trims the
// result to one line. Absent input normalizes to the empty string.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate bounds s to at most max runes.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
