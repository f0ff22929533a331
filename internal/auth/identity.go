package auth

import "github.com/google/uuid"

// Token scopes. A capture token may only submit captures; a full token
// may also browse and edit entries.
const (
	ScopeFull    = "full"
	ScopeCapture = "capture"
)

// ValidScope reports whether s names a known scope.
func ValidScope(s string) bool {
	return s == ScopeFull || s == ScopeCapture
}

// Identity is the caller a valid API token authenticates.
type Identity struct {
	Client  string
	TokenID uuid.UUID
	Scope   string
}

// Allows reports whether the identity may act with the given scope.
func (i Identity) Allows(scope string) bool {
	return i.Scope == ScopeFull || i.Scope == scope
}
