package dataloader

import "net/http"

// Middleware creates an HTTP middleware that instantiates per-request
// loaders and stores them in the request context.
func Middleware(repo textRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(repo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
