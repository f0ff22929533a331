package domain

// TokenRef identifies a token picked out by clause analysis.
type TokenRef struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ClauseAnalysis is the annotated structure of one sentence. It is computed
// on demand and never persisted.
type ClauseAnalysis struct {
	Subject    *TokenRef  `json:"subject,omitempty"`
	Verb       *TokenRef  `json:"verb,omitempty"`
	Object     *TokenRef  `json:"object,omitempty"`
	ClauseType ClauseType `json:"clause_type"`
	Hints      []string   `json:"hints"`
	RuleIDs    []string   `json:"rule_ids"`
	Markup     string     `json:"markup,omitempty"`
	Summary    string     `json:"summary"`
}

// SubjectText returns the subject surface text or "".
func (a ClauseAnalysis) SubjectText() string { return refText(a.Subject) }

// VerbText returns the root verb surface text or "".
func (a ClauseAnalysis) VerbText() string { return refText(a.Verb) }

// ObjectText returns the object surface text or "".
func (a ClauseAnalysis) ObjectText() string { return refText(a.Object) }

func refText(r *TokenRef) string {
	if r == nil {
		return ""
	}
	return r.Text
}
