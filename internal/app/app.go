// Package app wires configuration, stores, providers and services into a
// runnable application.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/myenglish-capture/internal/adapter/blob/fs"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/blob/s3"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/postgres"
	pgentry "github.com/heartmarshall/myenglish-capture/internal/adapter/postgres/entry"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/provider/article"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/provider/freedict"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/provider/llm"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/provider/spacy"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/sqlite"
	liteentry "github.com/heartmarshall/myenglish-capture/internal/adapter/sqlite/entry"
	"github.com/heartmarshall/myenglish-capture/internal/auth"
	"github.com/heartmarshall/myenglish-capture/internal/config"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
	"github.com/heartmarshall/myenglish-capture/internal/metrics"
	"github.com/heartmarshall/myenglish-capture/internal/service/capture"
	"github.com/heartmarshall/myenglish-capture/internal/service/consolidator"
	"github.com/heartmarshall/myenglish-capture/internal/service/export"
	"github.com/heartmarshall/myenglish-capture/internal/service/grammar"
	"github.com/heartmarshall/myenglish-capture/internal/transport/middleware"
	"github.com/heartmarshall/myenglish-capture/internal/transport/rest"
)

// entryStore is implemented by both the Postgres and the SQLite repository.
type entryStore interface {
	Insert(ctx context.Context, e *domain.Entry) (int64, error)
	FindByText(ctx context.Context, text string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Entry, error)
	UpdateTags(ctx context.Context, id int64, tags domain.TagList) error
	UpdateRelated(ctx context.Context, id int64, related domain.RelatedList) error
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.Entry, error)
	ListWords(ctx context.Context) ([]domain.WordRef, error)
	SearchWords(ctx context.Context, query string, excludeIDs []int64, limit int) ([]domain.Candidate, error)
	TextsByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type blobSink interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
}

// App holds the wired services. Close releases the store.
type App struct {
	Config *config.Config
	Log    *slog.Logger

	Metrics *metrics.Metrics
	Tokens  *auth.JWTManager

	Entries *consolidator.Service
	Capture *capture.Service
	Grammar *grammar.Service
	Export  *export.Service

	store  entryStore
	health pinger
	close  func()
}

// New opens the configured store (applying migrations) and builds every
// service on top of it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, health, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	sink, err := openSink(ctx, cfg.Export)
	if err != nil {
		closeStore()
		return nil, err
	}

	m := metrics.New()
	entries := consolidator.NewService(logger, store)

	a := &App{
		Config:  cfg,
		Log:     logger,
		Metrics: m,
		Tokens:  NewTokenManager(cfg.Auth),
		Entries: entries,
		Capture: capture.NewService(
			logger,
			llm.New(cfg.Enrichment, logger),
			entries,
			article.New(cfg.Capture.MaxArticleBytes, cfg.Capture.FetchTimeout, logger),
			freedict.New(cfg.Pronunciation, logger),
			m,
			cfg.Capture,
		),
		Grammar: grammar.NewService(logger, spacy.New(cfg.Parser, logger), store),
		Export:  export.NewService(logger, entries, sink, cfg.Export.Prefix),
		store:   store,
		health:  health,
		close:   closeStore,
	}
	return a, nil
}

// NewTokenManager builds the API token manager; minting needs no store.
func NewTokenManager(cfg config.AuthConfig) *auth.JWTManager {
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
}

// Close releases the store.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (entryStore, pinger, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return nil, nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return pgentry.New(pool), pool, pool.Close, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error("close sqlite store", slog.String("error", err.Error()))
			}
		}
		return liteentry.New(db), sqlPinger{db}, closeDB, nil

	default:
		return nil, nil, nil, fmt.Errorf("app: unknown store driver %q", cfg.Store.Driver)
	}
}

// Migrate applies the schema of the configured store without serving.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		return postgres.Migrate(ctx, cfg.Database.DSN, logger)
	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return err
		}
		return db.Close()
	default:
		return fmt.Errorf("app: unknown store driver %q", cfg.Store.Driver)
	}
}

func openSink(ctx context.Context, cfg config.ExportConfig) (blobSink, error) {
	if cfg.Driver == config.ExportDriverS3 {
		return s3.New(ctx, s3.Config{
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	}
	return fs.New(cfg.Dir)
}

type sqlPinger struct{ db *sql.DB }

func (p sqlPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// ---------------------------------------------------------------------------
// HTTP
// ---------------------------------------------------------------------------

// Handler builds the REST handler. The returned stop func ends background
// work of the rate limiter.
func (a *App) Handler() (http.Handler, func()) {
	limiter := middleware.NewRateLimiter(5 * time.Minute)

	h := rest.NewRouter(rest.RouterDeps{
		Logger:               a.Log,
		Validator:            a.Tokens,
		Metrics:              a.Metrics,
		Texts:                a.store,
		Limiter:              limiter,
		CORS:                 a.Config.CORS,
		CaptureRatePerMinute: a.Config.Capture.RatePerMinute,
		Health:               rest.NewHealthHandler(a.health, BuildVersion()),
		Captures:             rest.NewCaptureHandler(a.Capture, a.Log),
		Entries:              rest.NewEntryHandler(a.Entries, a.Log),
		Analysis:             rest.NewAnalysisHandler(a.Grammar, a.Log),
		Exports:              rest.NewExportHandler(a.Export, a.Log),
	})
	return h, limiter.Stop
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout.
func (a *App) Serve(ctx context.Context) error {
	handler, stop := a.Handler()
	defer stop()

	srvCfg := a.Config.Server
	srv := &http.Server{
		Addr:              srvCfg.Addr(),
		Handler:           handler,
		ReadTimeout:       srvCfg.ReadTimeout,
		ReadHeaderTimeout: srvCfg.ReadTimeout,
		WriteTimeout:      srvCfg.WriteTimeout,
		IdleTimeout:       srvCfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("http server listening",
			slog.String("addr", srv.Addr),
			slog.String("store", a.Config.Store.Driver),
			slog.String("version", BuildVersion()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srvCfg.ShutdownTimeout)
		defer cancel()
		a.Log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
