// Package entry implements the entry store on SQLite.
package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/heartmarshall/myenglish-capture/internal/adapter/entryrow"
	"github.com/heartmarshall/myenglish-capture/internal/adapter/sqlite"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var selectColumns = append(append([]string{}, entryrow.SelectColumns...), "created_at", "updated_at")

// row is an entries row with unix-second timestamps.
type row struct {
	entryrow.Row
	CreatedAt int64 `db:"created_at"`
	UpdatedAt int64 `db:"updated_at"`
}

func (r row) toDomain() (*domain.Entry, error) {
	e, err := r.ToEntry()
	if err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(r.CreatedAt, 0).UTC()
	e.UpdatedAt = time.Unix(r.UpdatedAt, 0).UTC()
	return e, nil
}

// Repo provides entry persistence backed by SQLite.
type Repo struct {
	q   sqlite.Querier
	now func() time.Time
}

// New creates an entry repository.
func New(q sqlite.Querier) *Repo {
	return &Repo{q: q, now: time.Now}
}

// Insert stores e and returns its id.
func (r *Repo) Insert(ctx context.Context, e *domain.Entry) (int64, error) {
	ts := r.now().Unix()
	values := append(entryrow.FromEntry(e).Values(), ts, ts)

	query, args, err := builder.Insert(entryrow.Table).
		Columns(append(append([]string{}, entryrow.InsertColumns...), "created_at", "updated_at")...).
		Values(values...).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("entry.Insert: build: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, sqlite.MapError(err, "entry", e.Text)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("entry.Insert: last id: %w", err)
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
	query, args, err := builder.Update(entryrow.Table).
		Set(column, value).
		Set("updated_at", r.now().Unix()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("entry.update %s: build: %w", column, err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return sqlite.MapError(err, "entry", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("entry.update %s: rows affected: %w", column, err)
	}
	if n == 0 {
		return fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// FindByText returns the id of the entry whose text equals text exactly.
func (r *Repo) FindByText(ctx context.Context, text string) (int64, error) {
	query, args, err := builder.Select("id").
		From(entryrow.Table).
		Where(squirrel.Eq{"text": text}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("entry.FindByText: build: %w", err)
	}

	var id int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, sqlite.MapError(err, "entry", text)
	}
	return id, nil
}

// GetByID returns one entry.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	query, args, err := builder.Select(selectColumns...).
		From(entryrow.Table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.GetByID: build: %w", err)
	}

	var rw row
	if err := sqlscan.Get(ctx, r.q, &rw, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
		}
		return nil, sqlite.MapError(err, "entry", id)
	}
	return rw.toDomain()
}

// ListByCategory returns entries newest first. An empty category lists all.
func (r *Repo) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Entry, error) {
	b := builder.Select(selectColumns...).
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
	if err := sqlscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, sqlite.MapError(err, "entries", category)
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
	query, args, err := builder.Select("id", "text", "translation").
		From(entryrow.Table).
		Where(squirrel.Eq{"category": domain.CategoryWord.String()}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.ListWords: build: %w", err)
	}

	var rows []wordRefRow
	if err := sqlscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, sqlite.MapError(err, "words", "all")
	}

	out := make([]domain.WordRef, len(rows))
	for i, rw := range rows {
		out[i] = domain.WordRef{ID: rw.ID, Text: rw.Text, Translation: rw.Translation}
	}
	return out, nil
}

// SearchWords returns words whose text contains query, newest first,
// skipping excludeIDs. Matching folds ASCII case only.
func (r *Repo) SearchWords(ctx context.Context, query string, excludeIDs []int64, limit int) ([]domain.Candidate, error) {
	b := builder.Select("id", "text").
		From(entryrow.Table).
		Where(squirrel.Eq{"category": domain.CategoryWord.String()}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if query != "" {
		b = b.Where(squirrel.Expr(`text LIKE ? ESCAPE '\'`, "%"+escapeLike(query)+"%"))
	}
	if len(excludeIDs) > 0 {
		b = b.Where(squirrel.NotEq{"id": excludeIDs})
	}
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.SearchWords: build: %w", err)
	}

	candidates := []domain.Candidate{}
	if err := sqlscan.Select(ctx, r.q, &candidates, sqlStr, args...); err != nil {
		return nil, sqlite.MapError(err, "words", query)
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

	query, args, err := builder.Select("id", "text").
		From(entryrow.Table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("entry.TextsByIDs: build: %w", err)
	}

	var rows []textRow
	if err := sqlscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, sqlite.MapError(err, "entries", ids)
	}

	out := make(map[int64]string, len(rows))
	for _, rw := range rows {
		out[rw.ID] = rw.Text
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
