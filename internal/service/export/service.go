// Package export writes JSON snapshots of every stored entry to a blob sink.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

type entryLister interface {
	ListEntries(ctx context.Context, category domain.Category) ([]domain.Entry, error)
}

type blobSink interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
}

// Snapshot is the exported document.
type Snapshot struct {
	ExportedAt time.Time      `json:"exported_at"`
	Counts     map[string]int `json:"counts"`
	Entries    []domain.Entry `json:"entries"`
}

// Service exports entry snapshots.
type Service struct {
	log     *slog.Logger
	entries entryLister
	sink    blobSink
	prefix  string
	now     func() time.Time
}

// NewService creates an export service writing under prefix.
func NewService(logger *slog.Logger, entries entryLister, sink blobSink, prefix string) *Service {
	return &Service{
		log:     logger.With("service", "export"),
		entries: entries,
		sink:    sink,
		prefix:  prefix,
		now:     time.Now,
	}
}

// Export loads all categories in parallel, writes the snapshot and returns
// its blob key.
func (s *Service) Export(ctx context.Context) (string, error) {
	snap, err := s.Build(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: marshal: %w", err)
	}

	key := path.Join(s.prefix, "entries-"+snap.ExportedAt.Format("20060102T150405Z")+".json")
	if err := s.sink.Put(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return "", fmt.Errorf("export: write %s: %w", key, err)
	}

	s.log.InfoContext(ctx, "snapshot exported",
		slog.String("key", key),
		slog.Int("entries", len(snap.Entries)),
	)
	return key, nil
}

// Build assembles a snapshot without writing it. Entries are ordered by
// category, then newest first.
func (s *Service) Build(ctx context.Context) (Snapshot, error) {
	categories := domain.Categories()
	results := make([][]domain.Entry, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			entries, err := s.entries.ListEntries(gctx, c)
			if err != nil {
				return fmt.Errorf("list %s: %w", c, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("export: %w", err)
	}

	snap := Snapshot{
		ExportedAt: s.now().UTC().Truncate(time.Second),
		Counts:     make(map[string]int, len(categories)),
		Entries:    []domain.Entry{},
	}
	for i, c := range categories {
		group := results[i]
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].CreatedAt.After(group[b].CreatedAt)
		})
		snap.Counts[c.String()] = len(group)
		snap.Entries = append(snap.Entries, group...)
	}
	return snap, nil
}
