// Package feeds retrieves RSS/Atom documents and parses them into raw
// item records. One Fetch call covers exactly one feed; failures stay
// inside that feed's boundary.
package feeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jinxlover/daily-unbiased-news/internal/domain"
	"github.com/jinxlover/daily-unbiased-news/internal/logger"
	"github.com/jinxlover/daily-unbiased-news/pkg/httpclient"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "daily-unbiased-news/1.0 (+https://github.com/jinxlover/daily-unbiased-news)"
)

// DefaultHTTPClient returns a tuned http client for feed retrieval.
func DefaultHTTPClient() httpclient.Client { return httpclient.NewRestyClient(defaultTimeout) }

// Fetcher downloads one feed document and parses it into RawItems.
type Fetcher struct {
	client  httpclient.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// NewFetcher builds a Fetcher. A nil client gets the default resty
// client; a nil limiter disables rate limiting.
func NewFetcher(client httpclient.Client, limiter *rate.Limiter, log logger.Logger) *Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Fetcher{client: client, limiter: limiter, log: log}
}

// Fetch retrieves and parses a single feed. The returned items preserve
// document order. Any network, status, or decode problem is returned as
// an error; the caller records it and moves on.
func (f *Fetcher) Fetch(ctx context.Context, src domain.FeedSource) ([]domain.RawItem, error) {
	if strings.TrimSpace(src.URL) == "" {
		return nil, fmt.Errorf("feed source in category %q has empty url", src.Category)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	headers := map[string]string{
		"User-Agent": defaultUserAgent,
		"Accept":     "application/rss+xml, application/atom+xml, application/xml, text/xml",
	}

	resp, err := f.client.Get(ctx, src.URL, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", src.URL, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d body: %s", src.URL, resp.StatusCode(), responseSnippet(body))
	}

	items, err := ParseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	f.log.DebugObj("feed fetched", "feed_fetch", map[string]any{
		"category": src.Category,
		"url":      src.URL,
		"items":    len(items),
	})
	return items, nil
}

// responseSnippet returns a truncated body snippet for error messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
