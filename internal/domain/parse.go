package domain

import (
	"fmt"
	"sort"
)

// DepRoot is the relation label of the sentence root.
const DepRoot = "ROOT"

// ParsedToken is one token of a dependency parse.
type ParsedToken struct {
	Text       string `json:"text"`
	Whitespace bool   `json:"whitespace"`
	Index      int    `json:"index"`
	Dep        string `json:"dep"`
	Head       int    `json:"head"`
}

// ParsedSentence is an immutable dependency parse with a precomputed
// children index. The root token is its own head.
type ParsedSentence struct {
	tokens   []ParsedToken
	children [][]int
}

// NewParsedSentence validates that indices are dense and 0-based and that
// every head points inside the sentence, then builds the children index.
func NewParsedSentence(tokens []ParsedToken) (ParsedSentence, error) {
	children := make([][]int, len(tokens))
	for i, tok := range tokens {
		if tok.Index != i {
			return ParsedSentence{}, fmt.Errorf("token %d has index %d", i, tok.Index)
		}
		if tok.Head < 0 || tok.Head >= len(tokens) {
			return ParsedSentence{}, fmt.Errorf("token %d head %d out of range", i, tok.Head)
		}
		if tok.Head != i {
			children[tok.Head] = append(children[tok.Head], i)
		}
	}

	cp := make([]ParsedToken, len(tokens))
	copy(cp, tokens)
	return ParsedSentence{tokens: cp, children: children}, nil
}

// Len returns the number of tokens.
func (s ParsedSentence) Len() int { return len(s.tokens) }

// Token returns the token at index i.
func (s ParsedSentence) Token(i int) ParsedToken { return s.tokens[i] }

// Tokens returns a copy of the tokens in surface order.
func (s ParsedSentence) Tokens() []ParsedToken {
	out := make([]ParsedToken, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Subtree returns i and all its descendants in surface order.
func (s ParsedSentence) Subtree(i int) []int {
	if i < 0 || i >= len(s.tokens) {
		return nil
	}
	visited := map[int]struct{}{i: {}}
	stack := []int{i}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range s.children[n] {
			if _, ok := visited[c]; ok {
				continue
			}
			visited[c] = struct{}{}
			stack = append(stack, c)
		}
	}

	out := make([]int, 0, len(visited))
	for idx := range visited {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
