// Package snapshot builds and atomically publishes the consolidated
// JSON artifact the front end consumes.
package snapshot

import (
	"time"

	"github.com/jinxlover/daily-unbiased-news/internal/domain"
)

// Snapshot is the published document shape. Category keys appear under
// "news" exactly as configured; the front end lower-cases them for DOM
// section identifiers.
type Snapshot struct {
	LastUpdate string                      `json:"lastUpdate"`
	News       map[string][]domain.Article `json:"news"`
	Ticker     []domain.Article            `json:"ticker"`
}

// Build assembles a Snapshot from the ranked category lists and ticker.
// Timestamps are truncated to whole seconds in UTC and lastUpdate is the
// most recent article timestamp, so identical inputs always serialize to
// identical bytes.
func Build(news map[string][]domain.Article, ticker []domain.Article) Snapshot {
	var latest time.Time

	out := make(map[string][]domain.Article, len(news))
	for cat, list := range news {
		clean := make([]domain.Article, len(list))
		for i, art := range list {
			art.PublishedAt = art.PublishedAt.UTC().Truncate(time.Second)
			if art.PublishedAt.After(latest) {
				latest = art.PublishedAt
			}
			clean[i] = art
		}
		out[cat] = clean
	}

	tick := make([]domain.Article, len(ticker))
	for i, art := range ticker {
		art.PublishedAt = art.PublishedAt.UTC().Truncate(time.Second)
		tick[i] = art
	}

	snap := Snapshot{News: out, Ticker: tick}
	if !latest.IsZero() {
		snap.LastUpdate = latest.Format(time.RFC3339)
	}
	return snap
}
