package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/myenglish-capture/internal/auth"
	"github.com/heartmarshall/myenglish-capture/pkg/ctxutil"
)

type tokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

// Auth requires a valid bearer token and stores the caller in the context.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="myenglish"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			id, err := validator.Validate(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="myenglish", error="invalid_token"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithClient(r.Context(), id.Client, id.Scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope rejects callers whose token does not grant scope.
// Must run after Auth.
func RequireScope(scope string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.Identity{Scope: ctxutil.ScopeFromCtx(r.Context())}
			if !id.Allows(scope) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
