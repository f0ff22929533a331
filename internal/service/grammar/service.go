package grammar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

type parser interface {
	Parse(ctx context.Context, text string) (domain.ParsedSentence, error)
}

type entryReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Entry, error)
}

// Service runs clause analysis over ad-hoc text and stored entries.
type Service struct {
	log     *slog.Logger
	parser  parser
	entries entryReader
}

// NewService creates a grammar service.
func NewService(logger *slog.Logger, p parser, entries entryReader) *Service {
	return &Service{
		log:     logger.With("service", "grammar"),
		parser:  p,
		entries: entries,
	}
}

// AnalyzeText parses text and annotates it. An unavailable parser yields the
// degraded analysis, not an error.
func (s *Service) AnalyzeText(ctx context.Context, text string) (domain.ClauseAnalysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ClauseAnalysis{}, domain.NewValidationError("text", "required")
	}

	parsed, err := s.parser.Parse(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrParserUnavailable) {
			s.log.WarnContext(ctx, "parser unavailable, returning degraded analysis", slog.String("error", err.Error()))
			return Degraded(), nil
		}
		return domain.ClauseAnalysis{}, fmt.Errorf("grammar.AnalyzeText: %w", err)
	}

	return Analyze(parsed), nil
}

// AnalyzeEntry analyzes a stored phrase or article.
func (s *Service) AnalyzeEntry(ctx context.Context, id int64) (domain.ClauseAnalysis, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return domain.ClauseAnalysis{}, fmt.Errorf("grammar.AnalyzeEntry: %w", err)
	}
	if entry.Category == domain.CategoryWord {
		return domain.ClauseAnalysis{}, domain.NewValidationError("id", "word entries have no clause structure")
	}
	return s.AnalyzeText(ctx, entry.Text)
}
