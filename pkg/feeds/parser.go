package feeds

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/jinxlover/daily-unbiased-news/internal/domain"
)

// ParseFeed decodes an RSS 2.0 or Atom document into RawItems. Entries
// without a title or link are skipped; a document that cannot be decoded
// at all is an error for the caller to record.
func ParseFeed(data []byte) ([]domain.RawItem, error) {
	parser := gofeed.NewParser()
	feed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	sourceHint := strings.TrimSpace(feed.Title)

	items := make([]domain.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" {
			continue
		}

		description := entry.Description
		if description == "" {
			description = entry.Content
		}

		raw := strings.TrimSpace(entry.Published)
		published := entry.PublishedParsed
		if published == nil {
			published = entry.UpdatedParsed
			if raw == "" {
				raw = strings.TrimSpace(entry.Updated)
			}
		}

		items = append(items, domain.RawItem{
			Title:       title,
			Link:        link,
			Description: description,
			PubDate:     raw,
			PublishedAt: published,
			SourceHint:  sourceHint,
			ImageURL:    itemImageURL(entry),
		})
	}

	return items, nil
}

// itemImageURL pulls a thumbnail from the usual places: the item image,
// an image enclosure, or Media RSS content/thumbnail extensions.
func itemImageURL(entry *gofeed.Item) string {
	if entry.Image != nil {
		if u := strings.TrimSpace(entry.Image.URL); u != "" {
			return u
		}
	}

	for _, enc := range entry.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "image") {
			if u := strings.TrimSpace(enc.URL); u != "" {
				return u
			}
		}
	}

	if media, ok := entry.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if u := strings.TrimSpace(ext.Attrs["url"]); u != "" {
					return u
				}
			}
		}
	}

	return ""
}
