package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	text := UniqueText("smoke")
	id := SeedWord(t, pool, text, "n. 烟")

	var got string
	var tags string
	err := pool.QueryRow(
		context.Background(),
		`SELECT text, tags::text FROM entries WHERE id = $1`,
		id,
	).Scan(&got, &tags)
	if err != nil {
		t.Fatalf("expected entry in DB, got error: %v", err)
	}

	if got != text {
		t.Fatalf("expected text %q, got %q", text, got)
	}
	if tags != "[]" {
		t.Fatalf("expected default tags [], got %q", tags)
	}
}
