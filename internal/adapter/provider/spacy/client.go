// Package spacy calls a spaCy-compatible HTTP service for dependency parses.
//
// The service accepts POST {base}/parse with {"text": "..."} and answers
// {"tokens": [{"i": 0, "text": "The", "whitespace": " ", "dep": "det", "head": 1}, ...]},
// mirroring spaCy's Token.i, Token.whitespace_, Token.dep_ and Token.head.i.
package spacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/myenglish-capture/internal/config"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

const maxResponseBytes = 4 << 20

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Tokens []wireToken `json:"tokens"`
}

type wireToken struct {
	I          int    `json:"i"`
	Text       string `json:"text"`
	Whitespace string `json:"whitespace"`
	Dep        string `json:"dep"`
	Head       int    `json:"head"`
}

// Client parses sentences through the remote service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client. An empty base URL yields a client that always
// reports domain.ErrParserUnavailable.
func New(cfg config.ParserConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "spacy"),
	}
}

// Parse returns the dependency parse of text. Transport failures and 5xx
// answers are reported as domain.ErrParserUnavailable.
func (c *Client) Parse(ctx context.Context, text string) (domain.ParsedSentence, error) {
	if c.baseURL == "" {
		return domain.ParsedSentence{}, domain.ErrParserUnavailable
	}

	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return domain.ParsedSentence{}, fmt.Errorf("spacy: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return domain.ParsedSentence{}, fmt.Errorf("spacy: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "parser unreachable", slog.String("error", err.Error()))
		return domain.ParsedSentence{}, fmt.Errorf("spacy: %v: %w", err, domain.ErrParserUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.WarnContext(ctx, "parser failed", slog.Int("status", resp.StatusCode))
		return domain.ParsedSentence{}, fmt.Errorf("spacy: status %d: %w", resp.StatusCode, domain.ErrParserUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ParsedSentence{}, fmt.Errorf("spacy: unexpected status %d", resp.StatusCode)
	}

	var pr parseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&pr); err != nil {
		return domain.ParsedSentence{}, fmt.Errorf("spacy: decode response: %w", err)
	}

	tokens := make([]domain.ParsedToken, len(pr.Tokens))
	for i, t := range pr.Tokens {
		tokens[i] = domain.ParsedToken{
			Text:       t.Text,
			Whitespace: t.Whitespace != "",
			Index:      t.I,
			Dep:        t.Dep,
			Head:       t.Head,
		}
	}

	sentence, err := domain.NewParsedSentence(tokens)
	if err != nil {
		return domain.ParsedSentence{}, fmt.Errorf("spacy: invalid parse: %w", err)
	}

	c.log.DebugContext(ctx, "parsed",
		slog.Int("tokens", sentence.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return sentence, nil
}
