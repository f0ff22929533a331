// Package entry implements the entry store on PostgreSQL.
package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/myenglish-capture/internal/adapter/entryrow"
	postgres "github.com/heartmarshall/myenglish-capture/internal/adapter/postgres"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var selectColumns = append(append([]string{}, entryrow.SelectColumns...), "created_at", "updated_at")

// row is an entries row with Postgres timestamps.
type row struct {
	entryrow.Row
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r row) toDomain() (*domain.Entry, error) {
	e, err := r.ToEntry()
	if err != nil {
		return nil, err
	}
	e.CreatedAt = r.CreatedAt
	e.UpdatedAt = r.UpdatedAt
	return e, nil
}

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates an entry repository over a pool (or any Querier).
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert stores e and returns its id. A text conflict yields
// domain.ErrAlreadyExists.
func (r *Repo) Insert(ctx context.Context, e *domain.Entry) (int64, error) {
	query, args, err := psql.Insert(entryrow.Table).
		Columns(entryrow.InsertColumns...).
		Values(entryrow.FromEntry(e).Values()...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("entry.Insert: build: %w", err)
	}

	var id int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "entry", e.Text)
	}
	return id, nil
}

// UpdateTags replaces the tags of entry id.
func (r *Repo) UpdateTags(ctx context.Context, id int64, tags domain.TagList) error {
	return r.updateJSON(ctx, id, "tags", tags.Encode())
}

// UpdateRelated replaces the related references of entry id.
func (r *Repo) UpdateRelated(ctx context.Context, id int64, related domain.RelatedList) error {
	return r.updateJSON(ctx, id, "related", related.Encode())
}

func (r *Repo) updateJSON(ctx context.Context, id int64, column, value string) error {
	query, args, err := psql.Update(entryrow.Table).
		Set(column, value).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("entry.update %s: build: %w", column, err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "entry", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByText returns the id of the entry whose text equals text exactly.
func (r *Repo) FindByText(ctx context.Context, text string) (int64, error) {
	query, args, err := psql.Select("id").
		From(entryrow.Table).
		Where(squirrel.Expr("md5(text) = md5(?)", text)).
		Where(squirrel.Eq{"text": text}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("entry.FindByText: build: %w", err)
	}

	var id int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "entry", text)
	}
	return id, nil
}

// GetByID returns one entry.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	query, args, err := psql.Select(selectColumns...).
		From(entryrow.Table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.GetByID: build: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, r.q, &rw, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "entry", id)
	}
	return rw.toDomain()
}

// ListByCategory returns entries newest first. An empty category lists all.
func (r *Repo) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Entry, error) {
	b := psql.Select(selectColumns...).
		From(entryrow.Table).
		OrderBy("created_at DESC", "id DESC")
	if category != "" {
		b = b.Where(squirrel.Eq{"category": category.String()})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.ListByCategory: build: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "entries", category)
	}

	out := make([]domain.Entry, 0, len(rows))
	for _, rw := range rows {
		e, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

type wordRefRow struct {
	ID          int64  `db:"id"`
	Text        string `db:"text"`
	Translation string `db:"translation"`
}

// ListWords returns id, text and translation of every word, newest first.
func (r *Repo) ListWords(ctx context.Context) ([]domain.WordRef, error) {
	query, args, err := psql.Select("id", "text", "translation").
		From(entryrow.Table).
		Where(squirrel.Eq{"category": domain.CategoryWord.String()}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.ListWords: build: %w", err)
	}

	var rows []wordRefRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "words", "all")
	}

	out := make([]domain.WordRef, len(rows))
	for i, rw := range rows {
		out[i] = domain.WordRef{ID: rw.ID, Text: rw.Text, Translation: rw.Translation}
	}
	return out, nil
}

// SearchWords returns words whose text contains query case-insensitively,
// newest first, skipping excludeIDs.
func (r *Repo) SearchWords(ctx context.Context, query string, excludeIDs []int64, limit int) ([]domain.Candidate, error) {
	b := psql.Select("id", "text").
		From(entryrow.Table).
		Where(squirrel.Eq{"category": domain.CategoryWord.String()}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if query != "" {
		b = b.Where(squirrel.ILike{"text": "%" + EscapeLike(query) + "%"})
	}
	if len(excludeIDs) > 0 {
		b = b.Where(squirrel.NotEq{"id": excludeIDs})
	}
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.SearchWords: build: %w", err)
	}

	candidates := []domain.Candidate{}
	if err := pgxscan.Select(ctx, r.q, &candidates, sqlStr, args...); err != nil {
		return nil, postgres.MapError(err, "words", query)
	}
	return candidates, nil
}

type textRow struct {
	ID   int64  `db:"id"`
	Text string `db:"text"`
}

// TextsByIDs returns the text of each existing entry in ids.
func (r *Repo) TextsByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	query, args, err := psql.Select("id", "text").
		From(entryrow.Table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.TextsByIDs: build: %w", err)
	}

	var rows []textRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "entries", ids)
	}

	out := make(map[int64]string, len(rows))
	for _, rw := range rows {
		out[rw.ID] = rw.Text
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so the query matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
