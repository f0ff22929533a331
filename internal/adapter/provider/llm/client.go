// Package llm enriches captures through the Anthropic Messages API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/myenglish-capture/internal/config"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

var errNoAPIKey = errors.New("enrichment api key not configured")

// Client implements the capture enricher. It never returns an error:
// failures produce default fields with an "error: ..." diagnostic in Raw.
type Client struct {
	api         anthropic.Client
	enabled     bool
	model       string
	maxTokens   int64
	temperature float64
	timeout     time.Duration
	log         *slog.Logger
}

// New creates a Client. An empty API key disables remote calls.
func New(cfg config.EnrichmentConfig, logger *slog.Logger) *Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:         anthropic.NewClient(reqOpts...),
		enabled:     cfg.APIKey != "",
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		log:         logger.With("adapter", "llm"),
	}
}

// Enrich returns enrichment fields for text. Lists are never nil.
func (c *Client) Enrich(ctx context.Context, text string, category domain.Category) domain.Enrichment {
	if !c.enabled {
		return failed(errNoAPIKey)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := c.complete(ctx, buildPrompt(text, category))
	if err != nil {
		c.log.WarnContext(ctx, "enrichment failed",
			slog.String("category", category.String()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return failed(err)
	}

	en, err := decode(content, category)
	if err != nil {
		c.log.WarnContext(ctx, "enrichment response unusable",
			slog.String("category", category.String()),
			slog.String("error", err.Error()),
		)
		return failed(err)
	}

	c.log.DebugContext(ctx, "enrichment done",
		slog.String("category", category.String()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return en
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages api: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response")
	}
	return b.String(), nil
}

// decode parses a model response into a normalized record whose Raw holds
// the full response.
func decode(content string, category domain.Category) (domain.Enrichment, error) {
	jsonStr, err := extractJSON(content)
	if err != nil {
		return domain.Enrichment{}, err
	}

	var en domain.Enrichment
	if err := json.Unmarshal([]byte(jsonStr), &en); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode response: %w", err)
	}

	en = en.Normalize(category)
	en.Raw = content
	return en, nil
}

func failed(err error) domain.Enrichment {
	en := domain.DefaultEnrichment()
	en.Raw = domain.EnrichmentFailurePrefix + err.Error()
	return en
}
