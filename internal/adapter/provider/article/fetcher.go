// Package article downloads a web page and extracts its readable text.
package article

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

const userAgent = "Mozilla/5.0 (compatible; myenglish-capture/1.0)"

// Fetcher retrieves articles over HTTP.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	log        *slog.Logger
}

// New creates a Fetcher that refuses pages larger than maxBytes.
func New(maxBytes int64, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
		log:        logger.With("adapter", "article"),
	}
}

// Fetch downloads rawURL and returns its title and plain text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.Article, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Article{}, domain.NewValidationError("url", "must be an absolute http(s) URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Article{}, fmt.Errorf("article: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return domain.Article{}, fmt.Errorf("article: fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Article{}, fmt.Errorf("article: fetch %s: status %d", u.Host, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return domain.Article{}, fmt.Errorf("article: content length %d exceeds limit %d", resp.ContentLength, f.maxBytes)
	}

	// One extra byte distinguishes "exactly at the limit" from truncation.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return domain.Article{}, fmt.Errorf("article: read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return domain.Article{}, fmt.Errorf("article: body exceeds limit %d", f.maxBytes)
	}

	parsed, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return domain.Article{}, fmt.Errorf("article: extract: %w", err)
	}

	text := strings.TrimSpace(parsed.TextContent)
	if text == "" {
		return domain.Article{}, fmt.Errorf("article: %s: %w", u.Host, domain.ErrEmptyCapture)
	}

	f.log.InfoContext(ctx, "article fetched",
		slog.String("host", u.Host),
		slog.String("title", parsed.Title),
		slog.Int("chars", len(text)),
	)
	return domain.Article{URL: u.String(), Title: parsed.Title, Text: text}, nil
}
