package domain

import "time"

// Entry is a stored vocabulary record. Text is the natural key and is
// globally unique. Tags and Related are the only fields mutated after insert.
type Entry struct {
	ID       int64    `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Language string   `json:"language"`

	Enrichment

	AudioUSURL string `json:"audio_us_url,omitempty"`
	AudioUKURL string `json:"audio_uk_url,omitempty"`
	SourceApp  string `json:"source_app,omitempty"`

	Tags    TagList     `json:"tags"`
	Related RelatedList `json:"related"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultLanguage is stored when a capture does not specify one.
const DefaultLanguage = "en"

// WordRef is the slice of a stored word the auto-tagger compares against.
type WordRef struct {
	ID          int64
	Text        string
	Translation string
}

// Candidate is a stored word offered as a related-entry suggestion.
type Candidate struct {
	ID   int64  `json:"id"           db:"id"`
	Text string `json:"text"         db:"text"`
}

// Article is readable text extracted from a web page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Pronunciation is dictionary pronunciation data for a word.
type Pronunciation struct {
	IPA        string
	AudioUSURL string
	AudioUKURL string
}
