package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

// Derived tag prefixes.
const (
	TagPrefixRoot     = "root:"
	TagPrefixCNShared = "cn_shared:"
	TagPrefixOverlap  = "overlap:"
)

// TagList is an ordered list of opaque tags, stored as a JSON array.
type TagList []string

// ParseTagList decodes a stored tag blob. An empty blob is an empty list.
func ParseTagList(blob string) (TagList, error) {
	if strings.TrimSpace(blob) == "" {
		return TagList{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(blob), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if tags == nil {
		return TagList{}, nil
	}
	return TagList(tags), nil
}

// Encode returns the stored JSON form. A nil list encodes as "[]".
func (t TagList) Encode() string {
	if len(t) == 0 {
		return "[]"
	}
	b, _ := json.Marshal([]string(t))
	return string(b)
}

// Dedup returns the tags with exact duplicates removed, keeping first
// occurrences in order.
func (t TagList) Dedup() TagList {
	seen := make(map[string]struct{}, len(t))
	out := make(TagList, 0, len(t))
	for _, tag := range t {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ParseTagInput splits comma-separated user input into tags, dropping blanks.
func ParseTagInput(input string) TagList {
	parts := strings.Split(input, ",")
	out := make(TagList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Related references
// ---------------------------------------------------------------------------

// RelatedRef points at another stored entry by id, or carries a free-text
// related term that has no entry of its own.
type RelatedRef struct {
	ID      int64
	Literal string
}

// RelatedID references a stored entry.
func RelatedID(id int64) RelatedRef { return RelatedRef{ID: id} }

// RelatedLiteral carries a free-text term. Empty terms are not representable.
func RelatedLiteral(s string) RelatedRef { return RelatedRef{Literal: s} }

// IsID reports whether the reference points at a stored entry.
func (r RelatedRef) IsID() bool { return r.Literal == "" }

func (r RelatedRef) String() string {
	if r.IsID() {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Literal
}

func (r RelatedRef) MarshalJSON() ([]byte, error) {
	if r.IsID() {
		return []byte(strconv.FormatInt(r.ID, 10)), nil
	}
	return json.Marshal(r.Literal)
}

func (r *RelatedRef) UnmarshalJSON(data []byte) error {
	ref, ok, err := decodeRelatedRef(data)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("related ref: empty value")
	}
	*r = ref
	return nil
}

// RelatedList is an ordered, duplicate-preserving list of related references,
// stored as a JSON array mixing numbers (ids) and strings (literals).
type RelatedList []RelatedRef

// ParseRelatedList decodes a stored related blob. An empty blob is an empty
// list. Strings made only of ASCII digits decode as ids; null and empty
// strings are skipped.
func ParseRelatedList(blob string) (RelatedList, error) {
	if strings.TrimSpace(blob) == "" {
		return RelatedList{}, nil
	}
	var l RelatedList
	if err := json.Unmarshal([]byte(blob), &l); err != nil {
		return nil, fmt.Errorf("decode related: %w", err)
	}
	if l == nil {
		return RelatedList{}, nil
	}
	return l, nil
}

func (l *RelatedList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(RelatedList, 0, len(items))
	for _, item := range items {
		ref, ok, err := decodeRelatedRef(item)
		if err != nil {
			return err
		}
		if ok {
			out = append(out, ref)
		}
	}
	*l = out
	return nil
}

// Encode returns the stored JSON form. A nil list encodes as "[]".
func (l RelatedList) Encode() string {
	if len(l) == 0 {
		return "[]"
	}
	b, _ := json.Marshal([]RelatedRef(l))
	return string(b)
}

// IDs returns the distinct entry ids in first-occurrence order.
func (l RelatedList) IDs() []int64 {
	seen := make(map[int64]struct{}, len(l))
	ids := make([]int64, 0, len(l))
	for _, r := range l {
		if !r.IsID() {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}
	return ids
}

// ContainsID reports whether id is referenced.
func (l RelatedList) ContainsID(id int64) bool {
	for _, r := range l {
		if r.IsID() && r.ID == id {
			return true
		}
	}
	return false
}

// RelatedFromTerms turns enrichment related terms into literal references,
// skipping blanks.
func RelatedFromTerms(terms []string) RelatedList {
	out := make(RelatedList, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, RelatedLiteral(t))
		}
	}
	return out
}

func decodeRelatedRef(data []byte) (RelatedRef, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return RelatedRef{}, false, nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return RelatedRef{}, false, err
		}
		if s == "" {
			return RelatedRef{}, false, nil
		}
		if isASCIIDigits(s) {
			if id, err := strconv.ParseInt(s, 10, 64); err == nil {
				return RelatedID(id), true, nil
			}
		}
		return RelatedLiteral(s), true, nil
	}

	if id, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		return RelatedID(id), true, nil
	}

	// Any other scalar (floats, booleans) is kept as its literal text.
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return RelatedRef{}, false, err
	}
	switch v.(type) {
	case map[string]any, []any:
		return RelatedRef{}, false, fmt.Errorf("related ref: unsupported value %s", data)
	}
	return RelatedLiteral(string(data)), true, nil
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
