// Package freedict looks up word pronunciations (IPA and regional audio)
// in a FreeDictionary-compatible API.
package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/myenglish-capture/internal/config"
	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// DefaultBaseURL is the public FreeDictionary endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

const maxBodyBytes = 1 << 20

// Provider fetches pronunciations. With an empty base URL every lookup
// returns the zero value.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// New creates a Provider from cfg.
func New(cfg config.PronunciationConfig, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryDelay: 500 * time.Millisecond,
		log:        logger.With("adapter", "freedict"),
	}
}

// Lookup returns the pronunciation of word. An unknown word yields the
// zero value and no error.
func (p *Provider) Lookup(ctx context.Context, word string) (domain.Pronunciation, error) {
	if p.baseURL == "" {
		return domain.Pronunciation{}, nil
	}

	reqURL := p.baseURL + "/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Pronunciation{}, fmt.Errorf("freedict: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, word)
	if err != nil {
		return domain.Pronunciation{}, fmt.Errorf("freedict: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		p.log.DebugContext(ctx, "word not in dictionary", slog.String("word", word))
		return domain.Pronunciation{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Pronunciation{}, fmt.Errorf("freedict: unexpected status %d", resp.StatusCode)
	}

	var entries []apiEntry
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&entries); err != nil {
		return domain.Pronunciation{}, fmt.Errorf("freedict: decode json: %w", err)
	}

	pron := mapPronunciation(entries)
	p.log.DebugContext(ctx, "pronunciation found",
		slog.String("word", word),
		slog.String("ipa", pron.IPA),
		slog.Bool("audio_us", pron.AudioUSURL != ""),
		slog.Bool("audio_uk", pron.AudioUKURL != ""),
	)
	return pron, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	p.log.WarnContext(ctx, "freedict retry", slog.String("word", word), slog.String("reason", reason))

	select {
	case <-time.After(p.retryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.httpClient.Do(req)
}

// mapPronunciation takes the first transcription across all entries and
// the first audio clip of each region.
func mapPronunciation(entries []apiEntry) domain.Pronunciation {
	var out domain.Pronunciation
	for _, entry := range entries {
		if out.IPA == "" {
			out.IPA = strings.TrimSpace(entry.Phonetic)
		}
		for _, ph := range entry.Phonetics {
			if out.IPA == "" {
				out.IPA = strings.TrimSpace(ph.Text)
			}
			if ph.Audio == "" {
				continue
			}
			switch inferRegion(ph.Audio) {
			case "US":
				if out.AudioUSURL == "" {
					out.AudioUSURL = ph.Audio
				}
			case "UK":
				if out.AudioUKURL == "" {
					out.AudioUKURL = ph.Audio
				}
			}
		}
	}
	return out
}

// inferRegion determines the accent from the audio file name.
func inferRegion(audioURL string) string {
	lower := strings.ToLower(audioURL)
	switch {
	case strings.Contains(lower, "-us.") || strings.Contains(lower, "-us-"):
		return "US"
	case strings.Contains(lower, "-uk.") || strings.Contains(lower, "-uk-"):
		return "UK"
	}
	return ""
}
