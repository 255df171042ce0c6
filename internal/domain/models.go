package domain

import "time"

// Domain contains the core models shared by the aggregation pipeline.

// FeedSource describes one feed inside a category. The registry keeps
// sources ordered; that order is the downstream tie-break for duplicates.
type FeedSource struct {
	Category string
	URL      string
	Label    string
}

// RawItem is the transient, feed-format-specific record produced by
// parsing one feed entry. It never outlives the normalization step.
type RawItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string // feed-native date string, kept for fallback parsing
	PublishedAt *time.Time
	SourceHint  string // feed channel title, if any
	ImageURL    string
}

// Article is the canonical entity published in the snapshot.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"pubDate"`
	Source      string    `json:"source"`
	BiasScore   int       `json:"bias"`
	ImageURL    string    `json:"image,omitempty"`
	Category    string    `json:"-"`
}

// FeedOutcome records the result of fetching one feed, for observability.
// A failed feed contributes zero items and never aborts the run.
type FeedOutcome struct {
	Category  string
	URL       string
	Label     string
	ItemCount int
	Duration  time.Duration
	Err       error
}

// Skipped reports whether the feed contributed nothing because of an error.
func (o FeedOutcome) Skipped() bool { return o.Err != nil }
