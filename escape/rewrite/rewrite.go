// Package rewrite repairs over-escaped interpolation placeholders:
// sequences of the form \(ident\) that should read (ident).
package rewrite

import "regexp"

// placeholder matches a backslash-escaped interpolation placeholder whose
// identifier may contain dotted member-access segments, e.g. \(user.name\).
var placeholder = regexp.MustCompile(`\\\(([a-zA-Z_][a-zA-Z0-9_.]*)\\\)`)

// Fix replaces every non-overlapping over-escaped placeholder with its
// unescaped form and returns the fixed text with the edit count. Bytes
// outside matches are preserved exactly; re-running over fixed text is a
// no-op.
func Fix(text string) (string, int) {
	edits := Matches(text)
	if edits == 0 {
		return text, 0
	}
	return placeholder.ReplaceAllString(text, `($1)`), edits
}

// Matches reports how many placeholders Fix would repair.
func Matches(text string) int {
	return len(placeholder.FindAllStringIndex(text, -1))
}
