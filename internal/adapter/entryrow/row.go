// Package entryrow maps domain entries to the column layout shared by the
// Postgres and SQLite stores. List-valued fields are stored as JSON text.
package entryrow

import (
	"encoding/json"
	"fmt"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// Table is the entries table name.
const Table = "entries"

// Row holds every column except the timestamps, whose type differs per
// store.
type Row struct {
	ID                 int64  `db:"id"`
	Category           string `db:"category"`
	Text               string `db:"text"`
	Language           string `db:"language"`
	Translation        string `db:"translation"`
	PartOfSpeech       string `db:"part_of_speech"`
	IPA                string `db:"ipa"`
	PhoneticUS         string `db:"phonetic_us"`
	PhoneticUK         string `db:"phonetic_uk"`
	Definition         string `db:"definition"`
	WordRoots          string `db:"word_roots"`
	TenseForms         string `db:"tense_forms"`
	CommonMeanings     string `db:"common_meanings"`
	RelatedTerms       string `db:"related_terms"`
	GrammarNotes       string `db:"grammar_notes"`
	StructureBreakdown string `db:"structure_breakdown"`
	KeyTerms           string `db:"key_terms"`
	AudioUSURL         string `db:"audio_us_url"`
	AudioUKURL         string `db:"audio_uk_url"`
	SourceApp          string `db:"source_app"`
	RawLLM             string `db:"raw_llm"`
	Tags               string `db:"tags"`
	Related            string `db:"related"`
}

// InsertColumns lists the columns written on insert, in Values order.
var InsertColumns = []string{
	"category", "text", "language", "translation", "part_of_speech", "ipa",
	"phonetic_us", "phonetic_uk", "definition", "word_roots", "tense_forms",
	"common_meanings", "related_terms", "grammar_notes", "structure_breakdown",
	"key_terms", "audio_us_url", "audio_uk_url", "source_app", "raw_llm",
	"tags", "related",
}

// SelectColumns lists the columns read into Row, without timestamps.
var SelectColumns = append([]string{"id"}, InsertColumns...)

// FromEntry encodes e into a Row.
func FromEntry(e *domain.Entry) Row {
	en := e.Enrichment
	return Row{
		ID:                 e.ID,
		Category:           e.Category.String(),
		Text:               e.Text,
		Language:           e.Language,
		Translation:        en.Translation,
		PartOfSpeech:       en.PartOfSpeech,
		IPA:                en.IPA,
		PhoneticUS:         en.PhoneticUS,
		PhoneticUK:         en.PhoneticUK,
		Definition:         en.Definition,
		WordRoots:          encodeJSON(en.WordRoots),
		TenseForms:         encodeJSON(en.TenseForms),
		CommonMeanings:     encodeJSON(en.CommonMeanings),
		RelatedTerms:       encodeJSON(en.RelatedTerms),
		GrammarNotes:       en.GrammarNotes,
		StructureBreakdown: encodeJSON(en.StructureBreakdown),
		KeyTerms:           encodeJSON(en.KeyTerms),
		AudioUSURL:         e.AudioUSURL,
		AudioUKURL:         e.AudioUKURL,
		SourceApp:          e.SourceApp,
		RawLLM:             en.Raw,
		Tags:               e.Tags.Encode(),
		Related:            e.Related.Encode(),
	}
}

// Values returns the insert arguments in InsertColumns order.
func (r Row) Values() []any {
	return []any{
		r.Category, r.Text, r.Language, r.Translation, r.PartOfSpeech, r.IPA,
		r.PhoneticUS, r.PhoneticUK, r.Definition, r.WordRoots, r.TenseForms,
		r.CommonMeanings, r.RelatedTerms, r.GrammarNotes, r.StructureBreakdown,
		r.KeyTerms, r.AudioUSURL, r.AudioUKURL, r.SourceApp, r.RawLLM,
		r.Tags, r.Related,
	}
}

// ToEntry decodes the row. Blank JSON columns decode as empty lists.
func (r Row) ToEntry() (*domain.Entry, error) {
	en := domain.DefaultEnrichment()
	en.Translation = r.Translation
	en.PartOfSpeech = r.PartOfSpeech
	en.IPA = r.IPA
	en.PhoneticUS = r.PhoneticUS
	en.PhoneticUK = r.PhoneticUK
	en.Definition = r.Definition
	en.GrammarNotes = r.GrammarNotes
	en.Raw = r.RawLLM

	fields := []struct {
		name string
		src  string
		dst  any
	}{
		{"word_roots", r.WordRoots, &en.WordRoots},
		{"tense_forms", r.TenseForms, &en.TenseForms},
		{"common_meanings", r.CommonMeanings, &en.CommonMeanings},
		{"related_terms", r.RelatedTerms, &en.RelatedTerms},
		{"structure_breakdown", r.StructureBreakdown, &en.StructureBreakdown},
		{"key_terms", r.KeyTerms, &en.KeyTerms},
	}
	for _, f := range fields {
		if err := decodeJSON(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("entry %d: %s: %w", r.ID, f.name, err)
		}
	}
	en = en.Normalize(domain.Category(r.Category))

	tags, err := domain.ParseTagList(r.Tags)
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", r.ID, err)
	}
	related, err := domain.ParseRelatedList(r.Related)
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", r.ID, err)
	}

	return &domain.Entry{
		ID:         r.ID,
		Category:   domain.Category(r.Category),
		Text:       r.Text,
		Language:   r.Language,
		Enrichment: en,
		AudioUSURL: r.AudioUSURL,
		AudioUKURL: r.AudioUKURL,
		SourceApp:  r.SourceApp,
		Tags:       tags,
		Related:    related,
	}, nil
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func decodeJSON(src string, dst any) error {
	if src == "" {
		return nil
	}
	return json.Unmarshal([]byte(src), dst)
}
