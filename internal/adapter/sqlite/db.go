// Package sqlite opens the single-file entry store and maps SQLite errors
// to domain errors.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/myenglish-capture/migrations"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Querier is the subset of *sql.DB the repositories use. *sql.Tx
// implements it too.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (creating if needed) the database at path and applies the
// embedded migrations. The handle is limited to one connection: SQLite has
// a single writer and every connection to ":memory:" is a separate database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}

	if err := Migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "sqlite store opened", slog.String("path", path))
	return db, nil
}

func dsn(path string) string {
	if path == MemoryPath || strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// Migrate applies the embedded SQLite migrations.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.SQLite())
	if err != nil {
		return fmt.Errorf("migrate: goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate: goose up: %w", err)
	}
	for _, r := range results {
		logger.InfoContext(ctx, "migration applied",
			slog.String("store", "sqlite"),
			slog.String("source", r.Source.Path),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}
