// Package autotag derives tags for a newly captured word from its morphology
// and from what it shares with words already stored.
package autotag

import (
	"regexp"
	"strings"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

var prefixes = []string{
	"pro", "ex", "in", "im", "com", "re", "pre", "sub",
	"trans", "inter", "over", "under", "mis", "non", "anti",
}

var suffixes = []string{
	"ship", "tion", "sion", "ment", "ness", "able", "ible", "ity",
	"ize", "ise", "ous", "ful", "less", "er", "or",
}

// cjkRun matches runs of two or more CJK unified ideographs.
var cjkRun = regexp.MustCompile(`[\x{4e00}-\x{9fff}]{2,}`)

// Derive returns the deduplicated auto tags for word. Tag order is
// morphology first, then shared translation tokens, then surface overlaps,
// each following the order of its inputs.
func Derive(word, translation string, existing []domain.WordRef) domain.TagList {
	lower := strings.ToLower(strings.TrimSpace(word))
	var tags domain.TagList

	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			tags = append(tags, domain.TagPrefixRoot+p)
		}
	}
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			tags = append(tags, domain.TagPrefixRoot+s)
		}
	}

	tags = append(tags, sharedTranslationTags(translation, existing)...)

	if lower != "" {
		for _, w := range existing {
			other := strings.TrimSpace(w.Text)
			if other == "" {
				continue
			}
			otherLower := strings.ToLower(other)
			if otherLower == lower {
				continue
			}
			if strings.Contains(otherLower, lower) || strings.Contains(lower, otherLower) {
				tags = append(tags, domain.TagPrefixOverlap+other)
			}
		}
	}

	return tags.Dedup()
}

func sharedTranslationTags(translation string, existing []domain.WordRef) []string {
	tokens := cjkTokens(translation)
	if len(tokens) == 0 {
		return nil
	}

	var tags []string
	for _, w := range existing {
		other := make(map[string]bool)
		for _, t := range cjkTokens(w.Translation) {
			other[t] = true
		}
		for _, t := range tokens {
			if other[t] {
				tags = append(tags, domain.TagPrefixCNShared+t)
			}
		}
	}
	return tags
}

// cjkTokens returns distinct ideograph runs in first-occurrence order.
func cjkTokens(s string) []string {
	matches := cjkRun.FindAllString(s, -1)
	seen := make(map[string]bool, len(matches))
	out := matches[:0]
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
