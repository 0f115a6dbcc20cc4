package rewrite

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Preview renders a line-oriented diff between original and fixed text for
// dry-run reporting. Unchanged lines are elided; output is truncated once it
// reaches capBytes (0 disables the cap).
func Preview(original, fixed string, capBytes int) string {
	if original == fixed {
		return ""
	}
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToChars(original, fixed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range splitLines(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
			if capBytes > 0 && b.Len() >= capBytes {
				b.WriteString("... (diff truncated)\n")
				return b.String()
			}
		}
	}
	return b.String()
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
