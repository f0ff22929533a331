package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/heartmarshall/myenglish-capture/internal/auth"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
	"github.com/heartmarshall/myenglish-capture/internal/service/capture"
)

var (
	_ captureService  = &captureServiceMock{}
	_ entryService    = &entryServiceMock{}
	_ analyzer        = &analyzerMock{}
	_ exporter        = &exporterMock{}
	_ tokenValidator  = &tokenValidatorMock{}
	_ metricsRecorder = &metricsRecorderMock{}
	_ textLookup      = &textLookupMock{}
)

type captureServiceMock struct {
	CaptureFunc    func(ctx context.Context, text string) (capture.Result, error)
	CaptureURLFunc func(ctx context.Context, rawURL string) (capture.Result, error)

	mu    sync.Mutex
	texts []string
	urls  []string
}

func (m *captureServiceMock) Capture(ctx context.Context, text string) (capture.Result, error) {
	if m.CaptureFunc == nil {
		panic("captureServiceMock.CaptureFunc: method is nil but captureService.Capture was just called")
	}
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	return m.CaptureFunc(ctx, text)
}

func (m *captureServiceMock) CaptureURL(ctx context.Context, rawURL string) (capture.Result, error) {
	if m.CaptureURLFunc == nil {
		panic("captureServiceMock.CaptureURLFunc: method is nil but captureService.CaptureURL was just called")
	}
	m.mu.Lock()
	m.urls = append(m.urls, rawURL)
	m.mu.Unlock()
	return m.CaptureURLFunc(ctx, rawURL)
}

type entryServiceMock struct {
	GetEntryFunc              func(ctx context.Context, id int64) (*domain.Entry, error)
	ListEntriesFunc           func(ctx context.Context, category domain.Category) ([]domain.Entry, error)
	SetTagsFunc               func(ctx context.Context, id int64, tags domain.TagList) error
	SetRelatedFunc            func(ctx context.Context, id int64, related domain.RelatedList) error
	AddRelatedFunc            func(ctx context.Context, id, relatedID int64) (domain.RelatedList, error)
	ResolveRelatedDisplayFunc func(ctx context.Context, related domain.RelatedList) ([]string, error)
	SearchCandidatesFunc      func(ctx context.Context, query string, excludeIDs []int64) ([]domain.Candidate, error)
}

func (m *entryServiceMock) GetEntry(ctx context.Context, id int64) (*domain.Entry, error) {
	if m.GetEntryFunc == nil {
		panic("entryServiceMock.GetEntryFunc: method is nil but entryService.GetEntry was just called")
	}
	return m.GetEntryFunc(ctx, id)
}

func (m *entryServiceMock) ListEntries(ctx context.Context, category domain.Category) ([]domain.Entry, error) {
	if m.ListEntriesFunc == nil {
		panic("entryServiceMock.ListEntriesFunc: method is nil but entryService.ListEntries was just called")
	}
	return m.ListEntriesFunc(ctx, category)
}

func (m *entryServiceMock) SetTags(ctx context.Context, id int64, tags domain.TagList) error {
	if m.SetTagsFunc == nil {
		panic("entryServiceMock.SetTagsFunc: method is nil but entryService.SetTags was just called")
	}
	return m.SetTagsFunc(ctx, id, tags)
}

func (m *entryServiceMock) SetRelated(ctx context.Context, id int64, related domain.RelatedList) error {
	if m.SetRelatedFunc == nil {
		panic("entryServiceMock.SetRelatedFunc: method is nil but entryService.SetRelated was just called")
	}
	return m.SetRelatedFunc(ctx, id, related)
}

func (m *entryServiceMock) AddRelated(ctx context.Context, id, relatedID int64) (domain.RelatedList, error) {
	if m.AddRelatedFunc == nil {
		panic("entryServiceMock.AddRelatedFunc: method is nil but entryService.AddRelated was just called")
	}
	return m.AddRelatedFunc(ctx, id, relatedID)
}

func (m *entryServiceMock) ResolveRelatedDisplay(ctx context.Context, related domain.RelatedList) ([]string, error) {
	if m.ResolveRelatedDisplayFunc == nil {
		panic("entryServiceMock.ResolveRelatedDisplayFunc: method is nil but entryService.ResolveRelatedDisplay was just called")
	}
	return m.ResolveRelatedDisplayFunc(ctx, related)
}

func (m *entryServiceMock) SearchCandidates(ctx context.Context, query string, excludeIDs []int64) ([]domain.Candidate, error) {
	if m.SearchCandidatesFunc == nil {
		panic("entryServiceMock.SearchCandidatesFunc: method is nil but entryService.SearchCandidates was just called")
	}
	return m.SearchCandidatesFunc(ctx, query, excludeIDs)
}

type analyzerMock struct {
	AnalyzeTextFunc  func(ctx context.Context, text string) (domain.ClauseAnalysis, error)
	AnalyzeEntryFunc func(ctx context.Context, id int64) (domain.ClauseAnalysis, error)
}

func (m *analyzerMock) AnalyzeText(ctx context.Context, text string) (domain.ClauseAnalysis, error) {
	if m.AnalyzeTextFunc == nil {
		panic("analyzerMock.AnalyzeTextFunc: method is nil but analyzer.AnalyzeText was just called")
	}
	return m.AnalyzeTextFunc(ctx, text)
}

func (m *analyzerMock) AnalyzeEntry(ctx context.Context, id int64) (domain.ClauseAnalysis, error) {
	if m.AnalyzeEntryFunc == nil {
		panic("analyzerMock.AnalyzeEntryFunc: method is nil but analyzer.AnalyzeEntry was just called")
	}
	return m.AnalyzeEntryFunc(ctx, id)
}

type exporterMock struct {
	ExportFunc func(ctx context.Context) (string, error)
}

func (m *exporterMock) Export(ctx context.Context) (string, error) {
	if m.ExportFunc == nil {
		panic("exporterMock.ExportFunc: method is nil but exporter.Export was just called")
	}
	return m.ExportFunc(ctx)
}

type tokenValidatorMock struct {
	ValidateFunc func(token string) (auth.Identity, error)
}

func (m *tokenValidatorMock) Validate(token string) (auth.Identity, error) {
	if m.ValidateFunc == nil {
		panic("tokenValidatorMock.ValidateFunc: method is nil but tokenValidator.Validate was just called")
	}
	return m.ValidateFunc(token)
}

type observedRequest struct {
	Method string
	Route  string
	Status int
}

type metricsRecorderMock struct {
	mu       sync.Mutex
	observed []observedRequest
}

func (m *metricsRecorderMock) ObserveHTTP(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, observedRequest{Method: method, Route: route, Status: status})
}

func (m *metricsRecorderMock) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# metrics\n")) //nolint:errcheck
	})
}

func (m *metricsRecorderMock) Observed() []observedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]observedRequest(nil), m.observed...)
}

type textLookupMock struct {
	TextsByIDsFunc func(ctx context.Context, ids []int64) (map[int64]string, error)

	mu    sync.Mutex
	calls int
}

func (m *textLookupMock) TextsByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if m.TextsByIDsFunc == nil {
		panic("textLookupMock.TextsByIDsFunc: method is nil but textLookup.TextsByIDs was just called")
	}
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.TextsByIDsFunc(ctx, ids)
}

func (m *textLookupMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
