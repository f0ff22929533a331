package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCapture prepares captured text for classification and storage.
// It applies NFKC (full-width letters and ligatures become ASCII), unifies
// line endings, collapses runs of horizontal whitespace into one space and
// trims the result. Case and line breaks are preserved because stored text
// is matched exactly.
func NormalizeCapture(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r != '\n' && unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// NormalizeText prepares text for case-insensitive comparison:
//   - NFKC normalization
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses any whitespace run into one space
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(norm.NFKC.String(text))
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
