package entry

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return New(mock), mock
}

// entryRowValues returns one full row in selectColumns order.
func entryRowValues(id int64, category, text string, ts time.Time) []any {
	vals := []any{id, category, text, "en", "n. 苹果", "n.", "/ˈæp.əl/", "", "", "a fruit",
		`["apple"]`, "[]", "[]", `["fruit"]`, "", "[]", "[]", "", "", "api", "{}",
		`["root:ap"]`, `[2,"fruit"]`}
	return append(vals, ts, ts)
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

func TestRepo_Insert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantID  int64
		wantErr error
	}{
		{
			name: "returns id",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO entries \(category,text,`).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
			},
			wantID: 11,
		},
		{
			name: "unique violation",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO entries`).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: domain.ErrAlreadyExists,
		},
		{
			name: "check violation",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO entries`).
					WillReturnError(&pgconn.PgError{Code: "23514"})
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)
			tt.setup(mock)

			id, err := repo.Insert(context.Background(), &domain.Entry{
				Category:   domain.CategoryWord,
				Text:       "apple",
				Enrichment: domain.DefaultEnrichment(),
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Insert() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Insert() unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("Insert() id = %d, want %d", id, tt.wantID)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestRepo_FindByText(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM entries WHERE md5(text) = md5($1) AND text = $2`)).
		WithArgs("apple", "apple").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT id FROM entries`).
		WithArgs("pear", "pear").
		WillReturnError(pgx.ErrNoRows)

	id, err := repo.FindByText(context.Background(), "apple")
	if err != nil || id != 3 {
		t.Fatalf("FindByText(apple) = %d, %v", id, err)
	}

	_, err = repo.FindByText(context.Background(), "pear")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByText(pear) error = %v, want ErrNotFound", err)
	}
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, category, text, .* FROM entries WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(selectColumns).AddRow(entryRowValues(4, "word", "apple", ts)...))

	e, err := repo.GetByID(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if e.ID != 4 || e.Text != "apple" || e.Category != domain.CategoryWord {
		t.Errorf("GetByID() = %+v", e)
	}
	if e.Translation != "n. 苹果" {
		t.Errorf("Translation = %q", e.Translation)
	}
	if len(e.Related) != 2 || !e.Related[0].IsID() || e.Related[1].String() != "fruit" {
		t.Errorf("Related = %v", e.Related)
	}
	if len(e.Tags) != 1 || e.Tags[0] != "root:ap" {
		t.Errorf("Tags = %v", e.Tags)
	}
	if !e.CreatedAt.Equal(ts) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, ts)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(selectColumns))

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestRepo_ListByCategory(t *testing.T) {
	t.Parallel()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("filtered", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM entries WHERE category = \$1 ORDER BY created_at DESC, id DESC`).
			WithArgs("phrase").
			WillReturnRows(pgxmock.NewRows(selectColumns).
				AddRow(entryRowValues(2, "phrase", "break the ice", ts)...))

		got, err := repo.ListByCategory(context.Background(), domain.CategoryPhrase)
		if err != nil {
			t.Fatalf("ListByCategory() unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Text != "break the ice" {
			t.Errorf("ListByCategory() = %+v", got)
		}
	})

	t.Run("all categories", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM entries ORDER BY created_at DESC, id DESC`).
			WillReturnRows(pgxmock.NewRows(selectColumns).
				AddRow(entryRowValues(2, "phrase", "break the ice", ts)...).
				AddRow(entryRowValues(1, "word", "apple", ts)...))

		got, err := repo.ListByCategory(context.Background(), "")
		if err != nil {
			t.Fatalf("ListByCategory() unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("ListByCategory() len = %d, want 2", len(got))
		}
	})
}

func TestRepo_ListWords(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, text, translation FROM entries WHERE category = $1 ORDER BY created_at DESC, id DESC`)).
		WithArgs("word").
		WillReturnRows(pgxmock.NewRows([]string{"id", "text", "translation"}).
			AddRow(int64(2), "reform", "v. 改革").
			AddRow(int64(1), "apple", "n. 苹果"))

	got, err := repo.ListWords(context.Background())
	if err != nil {
		t.Fatalf("ListWords() unexpected error: %v", err)
	}
	want := []domain.WordRef{{ID: 2, Text: "reform", Translation: "v. 改革"}, {ID: 1, Text: "apple", Translation: "n. 苹果"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ListWords() = %+v, want %+v", got, want)
	}
}

func TestRepo_SearchWords(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, text FROM entries WHERE category = $1 AND text ILIKE $2 AND id NOT IN ($3,$4) ORDER BY created_at DESC, id DESC LIMIT 20`)).
		WithArgs("word", `%50\%%`, int64(1), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "text"}).AddRow(int64(7), "50% off"))

	got, err := repo.SearchWords(context.Background(), "50%", []int64{1, 2}, 20)
	if err != nil {
		t.Fatalf("SearchWords() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != (domain.Candidate{ID: 7, Text: "50% off"}) {
		t.Errorf("SearchWords() = %+v", got)
	}
}

func TestRepo_SearchWords_EmptyQueryNoExclusions(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, text FROM entries WHERE category = $1 ORDER BY created_at DESC, id DESC LIMIT 5`)).
		WithArgs("word").
		WillReturnRows(pgxmock.NewRows([]string{"id", "text"}))

	got, err := repo.SearchWords(context.Background(), "", nil, 5)
	if err != nil {
		t.Fatalf("SearchWords() unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("SearchWords() = %#v, want empty non-nil slice", got)
	}
}

func TestRepo_TextsByIDs(t *testing.T) {
	t.Parallel()

	t.Run("empty input skips query", func(t *testing.T) {
		t.Parallel()
		repo, _ := newMockRepo(t)
		got, err := repo.TextsByIDs(context.Background(), nil)
		if err != nil || len(got) != 0 {
			t.Fatalf("TextsByIDs(nil) = %v, %v", got, err)
		}
	})

	t.Run("missing ids are absent", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, text FROM entries WHERE id IN ($1,$2)`)).
			WithArgs(int64(5), int64(6)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "text"}).AddRow(int64(5), "apple"))

		got, err := repo.TextsByIDs(context.Background(), []int64{5, 6})
		if err != nil {
			t.Fatalf("TextsByIDs() unexpected error: %v", err)
		}
		if len(got) != 1 || got[5] != "apple" {
			t.Errorf("TextsByIDs() = %v", got)
		}
	})
}

// ---------------------------------------------------------------------------
// Updates
// ---------------------------------------------------------------------------

func TestRepo_UpdateTags(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE entries SET tags = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(`["a","b"]`, int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateTags(context.Background(), 3, domain.TagList{"a", "b"}); err != nil {
		t.Fatalf("UpdateTags() unexpected error: %v", err)
	}
}

func TestRepo_UpdateRelated_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE entries SET related = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(`[2,"x"]`, int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateRelated(context.Background(), 404,
		domain.RelatedList{domain.RelatedID(2), domain.RelatedLiteral("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateRelated() error = %v, want ErrNotFound", err)
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"plain":   "plain",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
