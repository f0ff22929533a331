// Package dataloader batches the entry-text lookups that related-entry
// display needs, so a listing resolves every related id with one query.
package dataloader

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
	"github.com/heartmarshall/myenglish-capture/internal/service/consolidator"
)

const (
	maxBatch = 500
	wait     = 2 * time.Millisecond
)

type textRepo interface {
	TextsByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Loaders contains the per-request loaders.
type Loaders struct {
	TextByID *dataloader.Loader[int64, string]
}

// NewLoaders creates loaders backed by repo.
// Must be called per-request (loaders cache results within a single request).
func NewLoaders(repo textRepo) *Loaders {
	return &Loaders{
		TextByID: dataloader.NewBatchedLoader(
			newTextBatchFn(repo),
			dataloader.WithWait[int64, string](wait),
			dataloader.WithBatchCapacity[int64, string](maxBatch),
		),
	}
}

// newTextBatchFn resolves texts with one repository call. Missing ids yield
// an empty string, never an error.
func newTextBatchFn(repo textRepo) dataloader.BatchFunc[int64, string] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[string] {
		texts, err := repo.TextsByIDs(ctx, keys)
		results := make([]*dataloader.Result[string], len(keys))
		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result[string]{Error: err}
				continue
			}
			results[i] = &dataloader.Result[string]{Data: texts[key]}
		}
		return results
	}
}

// RelatedDisplay resolves the display strings of several related lists.
// All id lookups are queued before any is awaited so they share a batch.
func (l *Loaders) RelatedDisplay(ctx context.Context, lists []domain.RelatedList) ([][]string, error) {
	thunks := make([]dataloader.ThunkMany[string], len(lists))
	ids := make([][]int64, len(lists))
	for i, related := range lists {
		ids[i] = related.IDs()
		if len(ids[i]) > 0 {
			thunks[i] = l.TextByID.LoadMany(ctx, ids[i])
		}
	}

	out := make([][]string, len(lists))
	for i, related := range lists {
		texts := map[int64]string{}
		if thunks[i] != nil {
			values, errs := thunks[i]()
			for j, id := range ids[i] {
				if j < len(errs) && errs[j] != nil {
					return nil, errs[j]
				}
				if values[j] != "" {
					texts[id] = values[j]
				}
			}
		}
		out[i] = consolidator.DisplayStrings(related, texts)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context, or nil when absent.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}
