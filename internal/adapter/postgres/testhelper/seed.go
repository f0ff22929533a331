package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueText returns prefix with a random suffix so parallel tests sharing
// one database never collide on the unique text index.
func UniqueText(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// SeedWord inserts a minimal word row and returns its id.
func SeedWord(t *testing.T, pool *pgxpool.Pool, text, translation string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO entries (category, text, translation) VALUES ('word', $1, $2) RETURNING id`,
		text, translation,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: seed word %q: %v", text, err)
	}
	return id
}
