package domain

import (
	"strings"
)

// NormalizePartKey prepares a part number or part name for comparison:
//   - trims leading/trailing whitespace
//   - converts to uppercase
//   - compresses runs of whitespace into one space
//
// Hyphens, slashes and dots are preserved; "GR-7/A" and "gr-7/a " match.
func NormalizePartKey(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToUpper(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' {
			if prevSpace {
				continue
			}
			prevSpace = true
			r = ' '
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
