package consolidator

import (
	"context"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// ============================================================================
// Manual mocks (moq-style with func fields)
// ============================================================================

type entryStoreMock struct {
	InsertFunc         func(ctx context.Context, e *domain.Entry) (int64, error)
	FindByTextFunc     func(ctx context.Context, text string) (int64, error)
	GetByIDFunc        func(ctx context.Context, id int64) (*domain.Entry, error)
	UpdateTagsFunc     func(ctx context.Context, id int64, tags domain.TagList) error
	UpdateRelatedFunc  func(ctx context.Context, id int64, related domain.RelatedList) error
	ListByCategoryFunc func(ctx context.Context, category domain.Category) ([]domain.Entry, error)
	ListWordsFunc      func(ctx context.Context) ([]domain.WordRef, error)
	SearchWordsFunc    func(ctx context.Context, query string, excludeIDs []int64, limit int) ([]domain.Candidate, error)
	TextsByIDsFunc     func(ctx context.Context, ids []int64) (map[int64]string, error)
}

func (m *entryStoreMock) Insert(ctx context.Context, e *domain.Entry) (int64, error) {
	return m.InsertFunc(ctx, e)
}

func (m *entryStoreMock) FindByText(ctx context.Context, text string) (int64, error) {
	return m.FindByTextFunc(ctx, text)
}

func (m *entryStoreMock) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *entryStoreMock) UpdateTags(ctx context.Context, id int64, tags domain.TagList) error {
	return m.UpdateTagsFunc(ctx, id, tags)
}

func (m *entryStoreMock) UpdateRelated(ctx context.Context, id int64, related domain.RelatedList) error {
	return m.UpdateRelatedFunc(ctx, id, related)
}

func (m *entryStoreMock) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Entry, error) {
	return m.ListByCategoryFunc(ctx, category)
}

func (m *entryStoreMock) ListWords(ctx context.Context) ([]domain.WordRef, error) {
	return m.ListWordsFunc(ctx)
}

func (m *entryStoreMock) SearchWords(ctx context.Context, query string, excludeIDs []int64, limit int) ([]domain.Candidate, error) {
	return m.SearchWordsFunc(ctx, query, excludeIDs, limit)
}

func (m *entryStoreMock) TextsByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	return m.TextsByIDsFunc(ctx, ids)
}

// memStore is a minimal in-memory store for flows that span several calls.
type memStore struct {
	entryStoreMock
	byText map[string]int64
	nextID int64
}

func newMemStore() *memStore {
	s := &memStore{byText: map[string]int64{}}
	s.InsertFunc = func(_ context.Context, e *domain.Entry) (int64, error) {
		if _, ok := s.byText[e.Text]; ok {
			return 0, domain.ErrAlreadyExists
		}
		s.nextID++
		s.byText[e.Text] = s.nextID
		return s.nextID, nil
	}
	s.FindByTextFunc = func(_ context.Context, text string) (int64, error) {
		id, ok := s.byText[text]
		if !ok {
			return 0, domain.ErrNotFound
		}
		return id, nil
	}
	return s
}
