package grammar

import (
	"strings"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// Highlight is the visual role of a rendered token.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightSubject
	HighlightVerb
	HighlightObject
	HighlightClause
)

// Inline styles per highlight.
var highlightStyles = map[Highlight]string{
	HighlightSubject: "background-color:#ffe8a3;",
	HighlightVerb:    "background-color:#ffd1d1;",
	HighlightObject:  "background-color:#d8f5d1;",
	HighlightClause:  "background-color:#d9ecff;",
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// Render returns the sentence as HTML with roles highlighted. A token takes
// the first matching role of subject, verb, object, clause member.
func Render(s domain.ParsedSentence, a domain.ClauseAnalysis, clause map[int]bool) string {
	var b strings.Builder
	for i := 0; i < s.Len(); i++ {
		tok := s.Token(i)
		word := htmlEscaper.Replace(tok.Text)
		if style, ok := highlightStyles[highlightOf(tok.Index, a, clause)]; ok {
			b.WriteString("<span style='")
			b.WriteString(style)
			b.WriteString("'>")
			b.WriteString(word)
			b.WriteString("</span>")
		} else {
			b.WriteString(word)
		}
		if tok.Whitespace {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func highlightOf(idx int, a domain.ClauseAnalysis, clause map[int]bool) Highlight {
	switch {
	case isRef(a.Subject, idx):
		return HighlightSubject
	case isRef(a.Verb, idx):
		return HighlightVerb
	case isRef(a.Object, idx):
		return HighlightObject
	case clause[idx]:
		return HighlightClause
	default:
		return HighlightNone
	}
}

func isRef(r *domain.TokenRef, idx int) bool {
	return r != nil && r.Index == idx
}
