package utils

import (
	"strings"
)

// CleanText collapses whitespace and strips control characters.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.Join(strings.Fields(text), " ")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// TruncateText caps text at maxLength, preferring a word boundary when one
// falls reasonably close to the cut.
func TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}

	truncated := text[:maxLength]
	lastSpace := strings.LastIndex(truncated, " ")

	if float64(lastSpace) > float64(maxLength)*0.8 {
		return truncated[:lastSpace] + "..."
	}
	return truncated + "..."
}
