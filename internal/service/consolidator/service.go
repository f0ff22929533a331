// Package consolidator owns the stored entry set: deduplicating inserts,
// tag and related-entry edits, and related-entry lookups.
package consolidator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// CandidateLimit caps SearchCandidates results.
const CandidateLimit = 20

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

// Service implements entry consolidation on top of an entry store.
type Service struct {
	log   *slog.Logger
	store entryStore
}

// NewService creates a consolidator.
func NewService(logger *slog.Logger, store entryStore) *Service {
	return &Service{
		log:   logger.With("service", "consolidator"),
		store: store,
	}
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

// Insert stores e unless an entry with the same text already exists.
// It returns the new id and true, or the existing id and false. When the
// conflicting row cannot be found again the id is 0.
func (s *Service) Insert(ctx context.Context, e *domain.Entry) (int64, bool, error) {
	if err := validateEntry(e); err != nil {
		return 0, false, err
	}
	if e.Language == "" {
		e.Language = domain.DefaultLanguage
	}

	id, err := s.store.Insert(ctx, e)
	if err == nil {
		e.ID = id
		s.log.InfoContext(ctx, "entry created",
			slog.Int64("entry_id", id),
			slog.String("category", e.Category.String()),
		)
		return id, true, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return 0, false, fmt.Errorf("consolidator.Insert: %w", err)
	}

	existing, findErr := s.store.FindByText(ctx, e.Text)
	switch {
	case findErr == nil:
		s.log.InfoContext(ctx, "duplicate entry", slog.Int64("entry_id", existing))
		return existing, false, nil
	case errors.Is(findErr, domain.ErrNotFound):
		s.log.WarnContext(ctx, "conflicting entry vanished", slog.String("text", e.Text))
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("consolidator.Insert: find existing: %w", findErr)
	}
}

func validateEntry(e *domain.Entry) error {
	var errs []domain.FieldError
	if strings.TrimSpace(e.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if !e.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "invalid"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// SetTags replaces the tags of an entry.
func (s *Service) SetTags(ctx context.Context, id int64, tags domain.TagList) error {
	if tags == nil {
		tags = domain.TagList{}
	}
	if err := s.store.UpdateTags(ctx, id, tags); err != nil {
		return fmt.Errorf("consolidator.SetTags: %w", err)
	}
	return nil
}

// SetRelated replaces the related references of an entry.
func (s *Service) SetRelated(ctx context.Context, id int64, related domain.RelatedList) error {
	if related == nil {
		related = domain.RelatedList{}
	}
	if err := s.store.UpdateRelated(ctx, id, related); err != nil {
		return fmt.Errorf("consolidator.SetRelated: %w", err)
	}
	return nil
}

// AddRelated appends relatedID to the entry's related list if it is not
// already referenced and returns the resulting list.
func (s *Service) AddRelated(ctx context.Context, id, relatedID int64) (domain.RelatedList, error) {
	if id == relatedID {
		return nil, domain.NewValidationError("id", "an entry cannot relate to itself")
	}

	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consolidator.AddRelated: %w", err)
	}
	if entry.Related.ContainsID(relatedID) {
		return entry.Related, nil
	}

	related := append(entry.Related, domain.RelatedID(relatedID))
	if err := s.SetRelated(ctx, id, related); err != nil {
		return nil, err
	}
	return related, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// GetEntry returns a stored entry.
func (s *Service) GetEntry(ctx context.Context, id int64) (*domain.Entry, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consolidator.GetEntry: %w", err)
	}
	return e, nil
}

// ListEntries returns entries of category newest first. An empty category
// lists every entry.
func (s *Service) ListEntries(ctx context.Context, category domain.Category) ([]domain.Entry, error) {
	if category != "" && !category.IsValid() {
		return nil, domain.NewValidationError("category", "invalid")
	}
	entries, err := s.store.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("consolidator.ListEntries: %w", err)
	}
	return entries, nil
}

// WordRefs returns every stored word for auto-tag derivation.
func (s *Service) WordRefs(ctx context.Context) ([]domain.WordRef, error) {
	refs, err := s.store.ListWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("consolidator.WordRefs: %w", err)
	}
	return refs, nil
}

// ResolveRelatedDisplay maps references to display strings: ids become the
// referenced entry's text, or the decimal id when the entry is gone;
// literals pass through. Order and duplicates are preserved.
func (s *Service) ResolveRelatedDisplay(ctx context.Context, related domain.RelatedList) ([]string, error) {
	ids := related.IDs()
	if len(ids) == 0 {
		return DisplayStrings(related, nil), nil
	}

	texts, err := s.store.TextsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("consolidator.ResolveRelatedDisplay: %w", err)
	}
	return DisplayStrings(related, texts), nil
}

// DisplayStrings renders related references against an id→text lookup.
func DisplayStrings(related domain.RelatedList, texts map[int64]string) []string {
	out := make([]string, len(related))
	for i, r := range related {
		switch {
		case !r.IsID():
			out[i] = r.Literal
		case texts[r.ID] != "":
			out[i] = texts[r.ID]
		default:
			out[i] = strconv.FormatInt(r.ID, 10)
		}
	}
	return out
}

// SearchCandidates returns up to CandidateLimit stored words whose text
// contains query case-insensitively, newest first, skipping excludeIDs.
// An empty query returns the newest words.
func (s *Service) SearchCandidates(ctx context.Context, query string, excludeIDs []int64) ([]domain.Candidate, error) {
	candidates, err := s.store.SearchWords(ctx, strings.TrimSpace(query), excludeIDs, CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("consolidator.SearchCandidates: %w", err)
	}
	return candidates, nil
}
