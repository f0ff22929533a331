package domain

// Category is the kind of captured snippet.
type Category string

const (
	CategoryWord    Category = "word"
	CategoryPhrase  Category = "phrase"
	CategoryArticle Category = "article"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryWord, CategoryPhrase, CategoryArticle:
		return true
	}
	return false
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryWord, CategoryPhrase, CategoryArticle}
}

// ClauseType classifies the dominant subordinate structure of a sentence.
type ClauseType string

const (
	ClauseMain      ClauseType = "main"
	ClauseRelative  ClauseType = "relative"
	ClauseNoun      ClauseType = "noun"
	ClauseAdverbial ClauseType = "adverbial"

	// ClauseUnknown only appears in the degraded analysis.
	ClauseUnknown ClauseType = "unknown"
)

func (t ClauseType) String() string { return string(t) }
