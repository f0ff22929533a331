// Package grammar extracts clause roles from a dependency parse and renders
// a highlighted view of the sentence.
package grammar

import (
	"fmt"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// Dependency labels consulted by the analyzer.
var (
	subjectDeps = map[string]bool{"nsubj": true, "nsubjpass": true}
	objectDeps  = map[string]bool{"dobj": true, "obj": true, "pobj": true}
	clauseDeps  = map[string]bool{"relcl": true, "advcl": true, "ccomp": true, "xcomp": true}
)

// Rule id of the degraded analysis.
const RuleParserMissing = "parser-missing-01"

// Analyze annotates a parsed sentence. It never fails; roles the parse does
// not contain are left nil.
func Analyze(s domain.ParsedSentence) domain.ClauseAnalysis {
	var (
		verb    = findFirst(s, func(dep string) bool { return dep == domain.DepRoot })
		subject = findFirst(s, func(dep string) bool { return subjectDeps[dep] })
		object  = findFirst(s, func(dep string) bool { return objectDeps[dep] })
	)
	clauseType := detectClauseType(s)

	a := domain.ClauseAnalysis{
		Subject:    subject,
		Verb:       verb,
		Object:     object,
		ClauseType: clauseType,
		RuleIDs:    []string{"clause-" + clauseType.String()},
	}
	a.Hints = buildHints(a)
	a.Summary = fmt.Sprintf("S:%s V:%s O:%s", dash(a.SubjectText()), dash(a.VerbText()), dash(a.ObjectText()))
	a.Markup = Render(s, a, clauseTokens(s))
	return a
}

// Degraded is the fixed analysis returned when no parser is available.
func Degraded() domain.ClauseAnalysis {
	return domain.ClauseAnalysis{
		ClauseType: domain.ClauseUnknown,
		Hints:      []string{"Parser unavailable. Configure the parser endpoint to see clause structure."},
		RuleIDs:    []string{RuleParserMissing},
		Summary:    "Parser not available.",
	}
}

func findFirst(s domain.ParsedSentence, match func(dep string) bool) *domain.TokenRef {
	for i := 0; i < s.Len(); i++ {
		tok := s.Token(i)
		if match(tok.Dep) {
			return &domain.TokenRef{Index: tok.Index, Text: tok.Text}
		}
	}
	return nil
}

// detectClauseType applies relative > noun > adverbial > main over the
// whole sentence, independent of token order.
func detectClauseType(s domain.ParsedSentence) domain.ClauseType {
	var relative, noun, adverbial bool
	for i := 0; i < s.Len(); i++ {
		switch s.Token(i).Dep {
		case "relcl":
			relative = true
		case "ccomp", "xcomp":
			noun = true
		case "advcl":
			adverbial = true
		}
	}
	switch {
	case relative:
		return domain.ClauseRelative
	case noun:
		return domain.ClauseNoun
	case adverbial:
		return domain.ClauseAdverbial
	default:
		return domain.ClauseMain
	}
}

// clauseTokens is the union of the subtrees headed by subordinate clause
// heads.
func clauseTokens(s domain.ParsedSentence) map[int]bool {
	set := make(map[int]bool)
	for i := 0; i < s.Len(); i++ {
		if !clauseDeps[s.Token(i).Dep] {
			continue
		}
		for _, idx := range s.Subtree(i) {
			set[idx] = true
		}
	}
	return set
}

func buildHints(a domain.ClauseAnalysis) []string {
	var hints []string
	if a.Subject != nil && a.Verb != nil {
		hints = append(hints, fmt.Sprintf("Main clause: %s → %s.", a.Subject.Text, a.Verb.Text))
	}
	if a.Object != nil {
		hints = append(hints, fmt.Sprintf("Identify object: %s.", a.Object.Text))
	}
	if a.ClauseType != domain.ClauseMain {
		hints = append(hints, fmt.Sprintf("Clause type detected: %s.", a.ClauseType))
	}
	if len(hints) == 0 {
		hints = append(hints, "Try isolating the main clause first.")
	}
	return hints
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
