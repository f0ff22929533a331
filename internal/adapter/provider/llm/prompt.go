package llm

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

const systemPrompt = "You are a bilingual English-Chinese dictionary assistant. Return valid JSON only."

const (
	wordSchema = "translation, part_of_speech, ipa, phonetic_us, phonetic_uk, " +
		"word_roots (array), tense_form (array), common_meanings (array), " +
		"related_terms (array), definition"
	structureSchema = "translation, structure_breakdown (array of {span, role}), " +
		"grammar_notes, key_terms (array of {term, definition})"
)

// buildPrompt returns the user prompt for one capture.
func buildPrompt(text string, category domain.Category) string {
	schema := structureSchema
	if category == domain.CategoryWord {
		schema = wordSchema
	}

	var b strings.Builder
	b.WriteString("The 'translation' field must include part-of-speech grouped Chinese meanings, one part of speech per line, for example:\n")
	b.WriteString("v. ...\nn. ...\nadj. ...\n")
	b.WriteString("Include only the parts of speech that apply.\n")
	b.WriteString("The 'ipa' field must be formatted as 'UK: /.../; US: /.../' when IPA is available.\n")
	b.WriteString("The 'tense_form' field must be an array of Chinese-labeled forms, e.g. ")
	b.WriteString("['复数: ...', '第三人称单数: ...', '现在分词: ...', '过去式: ...', '过去分词: ...'].\n")
	fmt.Fprintf(&b, "Return JSON with keys: %s.\n", schema)
	fmt.Fprintf(&b, "Entry type: %s. Text: %s", category, text)
	return b.String()
}

// extractJSON finds the outermost JSON object in a response.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
