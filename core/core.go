package core

import "strings"

// Underscore converts a flag spelling into a parameter name (`dry-run` -> `dry_run`).
func Underscore(s string) string { return strings.ReplaceAll(s, "-", "_") }

// Hyphenate converts a parameter name into a flag spelling (`dry_run` -> `dry-run`).
func Hyphenate(s string) string { return strings.ReplaceAll(s, "_", "-") }

// IsFlagLike reports whether a token would be classified as a flag rather than
// a value: a string starting with a dash.
func IsFlagLike(tok any) bool {
	s, ok := tok.(string)
	return ok && strings.HasPrefix(s, "-")
}
