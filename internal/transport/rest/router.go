package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/myenglish-capture/internal/auth"
	"github.com/heartmarshall/myenglish-capture/internal/config"
	"github.com/heartmarshall/myenglish-capture/internal/transport/dataloader"
	"github.com/heartmarshall/myenglish-capture/internal/transport/middleware"
)

type tokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

type metricsRecorder interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	Handler() http.Handler
}

type textLookup interface {
	TextsByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// RouterDeps carries everything NewRouter mounts.
type RouterDeps struct {
	Logger    *slog.Logger
	Validator tokenValidator
	Metrics   metricsRecorder
	Texts     textLookup
	Limiter   *middleware.RateLimiter
	CORS      config.CORSConfig

	// CaptureRatePerMinute bounds captures per client.
	CaptureRatePerMinute int

	Health   *HealthHandler
	Captures *CaptureHandler
	Entries  *EntryHandler
	Analysis *AnalysisHandler
	Exports  *ExportHandler
}

// NewRouter builds the HTTP handler: probes and /metrics are public, every
// /api route requires a bearer token. Capture-scoped tokens may only post
// captures.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Metrics(d.Metrics, pattern)(h))
	}
	api := func(pattern, scope string, h http.HandlerFunc, extra ...middleware.Middleware) {
		mws := []middleware.Middleware{
			middleware.Metrics(d.Metrics, pattern),
			middleware.Auth(d.Validator),
			middleware.RequireScope(scope),
		}
		mws = append(mws, extra...)
		mux.Handle(pattern, middleware.Chain(mws...)(h))
	}

	public("GET /live", d.Health.Live)
	public("GET /ready", d.Health.Ready)
	public("GET /health", d.Health.Health)
	mux.Handle("GET /metrics", d.Metrics.Handler())

	api("POST /api/captures", auth.ScopeCapture, d.Captures.Create,
		d.Limiter.Limit(d.CaptureRatePerMinute))

	loaders := middleware.Middleware(dataloader.Middleware(d.Texts))
	api("GET /api/entries", auth.ScopeFull, d.Entries.List, loaders)
	api("GET /api/entries/{id}", auth.ScopeFull, d.Entries.Get, loaders)
	api("PUT /api/entries/{id}/tags", auth.ScopeFull, d.Entries.SetTags)
	api("PUT /api/entries/{id}/related", auth.ScopeFull, d.Entries.SetRelated, loaders)
	api("POST /api/entries/{id}/related", auth.ScopeFull, d.Entries.AddRelated, loaders)
	api("GET /api/candidates", auth.ScopeFull, d.Entries.Candidates)

	api("GET /api/entries/{id}/analysis", auth.ScopeFull, d.Analysis.AnalyzeEntry)
	api("POST /api/analysis", auth.ScopeFull, d.Analysis.AnalyzeText)

	api("POST /api/exports", auth.ScopeFull, d.Exports.Create)

	return middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.CORS(d.CORS),
	)(mux)
}
