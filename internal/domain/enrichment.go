package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Enrichment holds the metadata produced by the enrichment service.
// Word captures fill the lexical fields; phrases and articles fill the
// structural ones. Raw keeps the service output, or an "error: ..." note
// when enrichment failed and every field holds its default.
type Enrichment struct {
	Translation    string     `json:"translation"`
	PartOfSpeech   string     `json:"part_of_speech,omitempty"`
	IPA            string     `json:"ipa,omitempty"`
	PhoneticUS     string     `json:"phonetic_us,omitempty"`
	PhoneticUK     string     `json:"phonetic_uk,omitempty"`
	Definition     string     `json:"definition,omitempty"`
	WordRoots      StringList `json:"word_roots"`
	TenseForms     StringList `json:"tense_form"`
	CommonMeanings StringList `json:"common_meanings"`
	RelatedTerms   StringList `json:"related_terms"`

	GrammarNotes       string          `json:"grammar_notes,omitempty"`
	StructureBreakdown []StructureSpan `json:"structure_breakdown"`
	KeyTerms           []KeyTerm       `json:"key_terms"`

	Raw string `json:"raw_llm,omitempty"`
}

// EnrichmentFailurePrefix starts Raw when enrichment failed.
const EnrichmentFailurePrefix = "error: "

// Failed reports whether the record holds defaults because enrichment failed.
func (e Enrichment) Failed() bool {
	return strings.HasPrefix(e.Raw, EnrichmentFailurePrefix)
}

// StructureSpan labels one span of a phrase or sentence with its role.
type StructureSpan struct {
	Span string `json:"span"`
	Role string `json:"role"`
}

// KeyTerm is a term worth learning from a phrase or article.
type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// DefaultEnrichment returns the record stored when enrichment yields nothing.
// List fields are non-nil so they encode as [] rather than null.
func DefaultEnrichment() Enrichment {
	return Enrichment{
		WordRoots:          StringList{},
		TenseForms:         StringList{},
		CommonMeanings:     StringList{},
		RelatedTerms:       StringList{},
		StructureBreakdown: []StructureSpan{},
		KeyTerms:           []KeyTerm{},
	}
}

// Normalize replaces nil lists with empty ones and clears the fields that do
// not belong to the category.
func (e Enrichment) Normalize(c Category) Enrichment {
	out := DefaultEnrichment()
	out.Translation = e.Translation
	out.Raw = e.Raw

	if c == CategoryWord {
		out.PartOfSpeech = e.PartOfSpeech
		out.IPA = e.IPA
		out.PhoneticUS = e.PhoneticUS
		out.PhoneticUK = e.PhoneticUK
		out.Definition = e.Definition
		out.WordRoots = orEmpty(e.WordRoots)
		out.TenseForms = orEmpty(e.TenseForms)
		out.CommonMeanings = orEmpty(e.CommonMeanings)
		out.RelatedTerms = orEmpty(e.RelatedTerms)
		return out
	}

	out.GrammarNotes = e.GrammarNotes
	if e.StructureBreakdown != nil {
		out.StructureBreakdown = e.StructureBreakdown
	}
	if e.KeyTerms != nil {
		out.KeyTerms = e.KeyTerms
	}
	return out
}

func orEmpty(l StringList) StringList {
	if l == nil {
		return StringList{}
	}
	return l
}

// StringList is a list of strings that also decodes from a bare string or
// from an array of mixed scalars, which enrichment output sometimes contains.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*l = StringList{}
	case string:
		if strings.TrimSpace(v) == "" {
			*l = StringList{}
		} else {
			*l = StringList{v}
		}
	case []any:
		out := make(StringList, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		*l = out
	default:
		*l = StringList{fmt.Sprint(v)}
	}
	return nil
}
