// Package ctxutil carries request-scoped values through context.
package ctxutil

import "context"

type ctxKey string

const (
	clientKey    ctxKey = "client"
	scopeKey     ctxKey = "scope"
	requestIDKey ctxKey = "request_id"
)

// WithClient stores the authenticated client name and token scope.
func WithClient(ctx context.Context, client, scope string) context.Context {
	ctx = context.WithValue(ctx, clientKey, client)
	return context.WithValue(ctx, scopeKey, scope)
}

// ClientFromCtx returns the authenticated client name.
// Returns "" and false for anonymous requests.
func ClientFromCtx(ctx context.Context) (string, bool) {
	c, ok := ctx.Value(clientKey).(string)
	if !ok || c == "" {
		return "", false
	}
	return c, true
}

// ScopeFromCtx returns the token scope, or "" when absent.
func ScopeFromCtx(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey).(string)
	return s
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
