// Package capture turns captured text into stored, enriched entries.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/myenglish-capture/internal/config"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
	"github.com/heartmarshall/myenglish-capture/internal/service/autotag"
	"github.com/heartmarshall/myenglish-capture/internal/service/classify"
)

type enricher interface {
	Enrich(ctx context.Context, text string, category domain.Category) domain.Enrichment
}

type entrySaver interface {
	Insert(ctx context.Context, e *domain.Entry) (int64, bool, error)
	WordRefs(ctx context.Context) ([]domain.WordRef, error)
}

type articleFetcher interface {
	Fetch(ctx context.Context, rawURL string) (domain.Article, error)
}

type pronouncer interface {
	Lookup(ctx context.Context, word string) (domain.Pronunciation, error)
}

type recorder interface {
	ObserveCapture(category, outcome string)
	ObserveEnrichment(category string, d time.Duration, failed bool)
}

// Capture outcomes reported to the recorder.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeDiscarded = "discarded"
	OutcomeFailed    = "failed"
)

// Service runs the capture pipeline. At most one enrichment is in flight;
// further captures are rejected with domain.ErrBusy until it finishes.
type Service struct {
	log      *slog.Logger
	enricher enricher
	entries  entrySaver
	articles articleFetcher
	pron     pronouncer
	metrics  recorder
	cfg      config.CaptureConfig

	busy atomic.Bool
	now  func() time.Time
}

// NewService creates a capture service.
func NewService(
	logger *slog.Logger,
	enricher enricher,
	entries entrySaver,
	articles articleFetcher,
	pron pronouncer,
	metrics recorder,
	cfg config.CaptureConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "capture"),
		enricher: enricher,
		entries:  entries,
		articles: articles,
		pron:     pron,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Busy reports whether an enrichment is in flight.
func (s *Service) Busy() bool { return s.busy.Load() }

// Capture runs the pipeline and waits for its result.
func (s *Service) Capture(ctx context.Context, text string) (Result, error) {
	ch, err := s.Submit(ctx, text)
	if err != nil {
		return Result{}, err
	}
	select {
	case r := <-ch:
		return r, r.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Submit validates and classifies text, then enriches and stores it on a
// separate goroutine. The returned channel receives exactly one Result and
// is then closed. Validation failures and domain.ErrBusy are returned
// directly.
func (s *Service) Submit(ctx context.Context, text string) (<-chan Result, error) {
	text, category, err := s.prepare(text)
	if err != nil {
		return nil, err
	}

	if !s.busy.CompareAndSwap(false, true) {
		s.log.InfoContext(ctx, "capture rejected, enrichment in flight")
		return nil, domain.ErrBusy
	}

	id := uuid.New()
	ch := make(chan Result, 1)
	// The work outlives the submitting request; the enricher bounds it.
	workCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(ch)
		r := s.process(workCtx, id, text, category)
		s.busy.Store(false)
		ch <- r
	}()

	return ch, nil
}

// CaptureURL fetches a web page, extracts its readable text and captures it.
func (s *Service) CaptureURL(ctx context.Context, rawURL string) (Result, error) {
	article, err := s.articles.Fetch(ctx, rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("capture.CaptureURL: %w", err)
	}
	s.log.InfoContext(ctx, "article fetched",
		slog.String("url", article.URL),
		slog.String("title", article.Title),
		slog.Int("bytes", len(article.Text)),
	)
	return s.Capture(ctx, article.Text)
}

func (s *Service) prepare(text string) (string, domain.Category, error) {
	text = domain.NormalizeCapture(text)
	if text == "" {
		return "", "", domain.ErrEmptyCapture
	}
	if !classify.EnglishRatioAtLeast(text, s.minRatio()) {
		return "", "", domain.ErrNotEnglish
	}
	return text, classify.Classify(text), nil
}

func (s *Service) minRatio() float64 {
	if s.cfg.MinEnglishRatio > 0 {
		return s.cfg.MinEnglishRatio
	}
	return classify.DefaultMinEnglishRatio
}

func (s *Service) process(ctx context.Context, id uuid.UUID, text string, category domain.Category) Result {
	res := Result{CaptureID: id, Category: category, Text: text}
	log := s.log.With(slog.String("capture_id", id.String()), slog.String("category", category.String()))

	start := s.now()
	enrichment := s.enricher.Enrich(ctx, text, category).Normalize(category)
	s.metrics.ObserveEnrichment(category.String(), s.now().Sub(start), enrichment.Failed())
	if enrichment.Failed() {
		res.Diagnostic = enrichment.Raw
		log.WarnContext(ctx, "enrichment failed, storing defaults", slog.String("diagnostic", enrichment.Raw))
	}

	tags := domain.TagList{}
	if category == domain.CategoryWord {
		existing, err := s.entries.WordRefs(ctx)
		if err != nil {
			return s.fail(ctx, res, fmt.Errorf("capture: list words: %w", err))
		}
		tags = autotag.Derive(text, enrichment.Translation, existing)
	}

	entry := &domain.Entry{
		Category:   category,
		Text:       text,
		Language:   domain.DefaultLanguage,
		Enrichment: enrichment,
		SourceApp:  s.cfg.SourceApp,
		Tags:       tags,
		Related:    domain.RelatedFromTerms(enrichment.RelatedTerms),
	}

	if category == domain.CategoryWord {
		s.attachPronunciation(ctx, log, entry)
	}

	entryID, created, err := s.entries.Insert(ctx, entry)
	if err != nil {
		return s.fail(ctx, res, fmt.Errorf("capture: store entry: %w", err))
	}
	res.EntryID = entryID
	res.Created = created

	outcome := OutcomeDuplicate
	switch {
	case created:
		outcome = OutcomeCreated
	case entryID == 0:
		outcome = OutcomeDiscarded
	}
	s.metrics.ObserveCapture(category.String(), outcome)
	log.InfoContext(ctx, "capture stored", slog.Int64("entry_id", entryID), slog.String("outcome", outcome))

	return res
}

// attachPronunciation adds dictionary audio, and IPA when enrichment left it
// blank. Lookup failures only cost the audio.
func (s *Service) attachPronunciation(ctx context.Context, log *slog.Logger, e *domain.Entry) {
	if s.pron == nil {
		return
	}
	p, err := s.pron.Lookup(ctx, e.Text)
	if err != nil {
		log.WarnContext(ctx, "pronunciation lookup failed", slog.String("error", err.Error()))
		return
	}
	e.AudioUSURL = p.AudioUSURL
	e.AudioUKURL = p.AudioUKURL
	if e.IPA == "" {
		e.IPA = p.IPA
	}
}

func (s *Service) fail(ctx context.Context, res Result, err error) Result {
	s.metrics.ObserveCapture(res.Category.String(), OutcomeFailed)
	s.log.ErrorContext(ctx, "capture failed", slog.String("capture_id", res.CaptureID.String()), slog.String("error", err.Error()))
	res.Err = err
	return res
}
