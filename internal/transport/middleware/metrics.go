package middleware

import (
	"net/http"
	"time"
)

type httpRecorder interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Metrics records request count and latency under a fixed route label.
// Apply it per route so the label is the registered pattern.
func Metrics(rec httpRecorder, route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			rec.ObserveHTTP(r.Method, route, sw.status, time.Since(start))
		})
	}
}
