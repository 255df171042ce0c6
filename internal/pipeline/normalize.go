package pipeline

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jinxlover/daily-unbiased-news/internal/bias"
	"github.com/jinxlover/daily-unbiased-news/internal/domain"
	"github.com/jinxlover/daily-unbiased-news/internal/logger"
)

// pubDateLayouts are tried in order when the feed library could not
// resolve a timestamp itself. Layouts without a zone are interpreted as
// UTC, which is what time.Parse does.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer converts RawItems into canonical Articles: cleaned text,
// UTC timestamps, resolved source labels, and a bias score by domain.
type Normalizer struct {
	bias *bias.Table
	log  logger.Logger
}

// NewNormalizer builds a Normalizer. A nil table means every article
// scores center; a nil logger is replaced with a no-op.
func NewNormalizer(table *bias.Table, log logger.Logger) *Normalizer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Normalizer{bias: table, log: log}
}

// Normalize maps one feed's RawItems to Articles, preserving order.
// Items without a usable title, absolute link, or parseable timestamp
// are dropped so they cannot corrupt recency ordering downstream.
func (n *Normalizer) Normalize(src domain.FeedSource, items []domain.RawItem) []domain.Article {
	out := make([]domain.Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(html.UnescapeString(item.Title))
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		dom := linkDomain(link)
		if dom == "" {
			n.log.DebugObj("item dropped: link not absolute", "item_drop", map[string]any{
				"category": src.Category,
				"link":     link,
			})
			continue
		}

		publishedAt, ok := resolvePublishedAt(item)
		if !ok {
			n.log.DebugObj("item dropped: unparsable date", "item_drop", map[string]any{
				"category": src.Category,
				"link":     link,
				"pub_date": item.PubDate,
			})
			continue
		}

		out = append(out, domain.Article{
			Title:       title,
			Link:        link,
			Description: stripHTML(item.Description),
			PublishedAt: publishedAt,
			Source:      resolveSource(src, item, dom),
			BiasScore:   n.bias.ScoreFor(dom),
			ImageURL:    strings.TrimSpace(item.ImageURL),
			Category:    src.Category,
		})
	}
	return out
}

// resolvePublishedAt returns the item's UTC timestamp. Feed-native
// strings without offset information are assumed UTC.
func resolvePublishedAt(item domain.RawItem) (time.Time, bool) {
	if item.PublishedAt != nil {
		return item.PublishedAt.UTC(), true
	}

	raw := strings.TrimSpace(item.PubDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// resolveSource picks the outlet name: explicit registry label, then the
// feed's own title, then the link domain.
func resolveSource(src domain.FeedSource, item domain.RawItem, dom string) string {
	if src.Label != "" {
		return src.Label
	}
	if hint := strings.TrimSpace(html.UnescapeString(item.SourceHint)); hint != "" {
		return hint
	}
	return dom
}

// linkDomain extracts the host of an absolute URL, without the "www."
// prefix. Returns "" for relative or unparsable links.
func linkDomain(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// stripHTML reduces a feed description to its text content. The full
// text is retained; truncation is a display concern.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(s))
	}
	text := doc.Text()

	return strings.Join(strings.Fields(text), " ")
}
