// Package classify decides the category of a captured snippet and screens
// out text that is unlikely to be English.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// DefaultMinEnglishRatio is the ASCII-letter share required by
// IsPlausiblyEnglish.
const DefaultMinEnglishRatio = 0.6

const (
	minPhraseTokens = 2
	maxPhraseTokens = 6
)

var wordPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z\-']*$`)

// Classify returns the category of text. Every string classifies.
func Classify(text string) domain.Category {
	tokens := strings.Fields(text)
	if len(tokens) == 1 && wordPattern.MatchString(tokens[0]) {
		return domain.CategoryWord
	}
	if len(tokens) >= minPhraseTokens && len(tokens) <= maxPhraseTokens {
		return domain.CategoryPhrase
	}
	return domain.CategoryArticle
}

// IsPlausiblyEnglish reports whether at least 60% of the letters in text
// are ASCII letters. Text without letters is not English.
func IsPlausiblyEnglish(text string) bool {
	return EnglishRatioAtLeast(text, DefaultMinEnglishRatio)
}

// EnglishRatioAtLeast is IsPlausiblyEnglish with a configurable threshold.
func EnglishRatioAtLeast(text string, minRatio float64) bool {
	ascii, total := letterCounts(text)
	if total == 0 {
		return false
	}
	return float64(ascii)/float64(total) >= minRatio
}

func letterCounts(text string) (ascii, total int) {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		if r < unicode.MaxASCII {
			ascii++
		}
	}
	return ascii, total
}
