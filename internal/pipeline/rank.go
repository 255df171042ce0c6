package pipeline

import (
	"sort"
	"strings"

	"github.com/jinxlover/daily-unbiased-news/internal/domain"
)

const (
	// DefaultCategoryCap bounds each category's published list.
	DefaultCategoryCap = 50
	// DefaultTickerSize bounds the cross-category ticker.
	DefaultTickerSize = 15
)

// DedupeKey normalizes a title for duplicate detection: trimmed,
// case-folded, internal whitespace collapsed to single spaces.
func DedupeKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// Ranker deduplicates the run's full article corpus and produces the
// per-category lists plus the global ticker.
type Ranker struct {
	categoryCap int
	tickerSize  int
	promote     map[string][]string
}

// NewRanker builds a Ranker. promote maps category name to the source
// domains promoted ahead of equally recent items in that category.
func NewRanker(categoryCap, tickerSize int, promote map[string][]string) *Ranker {
	if categoryCap <= 0 {
		categoryCap = DefaultCategoryCap
	}
	if tickerSize <= 0 {
		tickerSize = DefaultTickerSize
	}
	return &Ranker{
		categoryCap: categoryCap,
		tickerSize:  tickerSize,
		promote:     promote,
	}
}

// Rank consumes articles in first-seen order (category order, then feed
// order, then document order) and returns the published category lists
// and the ticker. Duplicate titles are dropped globally: a story that
// already appeared in an earlier category never resurfaces in a later
// one.
func (r *Ranker) Rank(articles []domain.Article, categoryOrder []string) (map[string][]domain.Article, []domain.Article) {
	seen := make(map[string]struct{}, len(articles))
	var corpus []domain.Article
	for _, art := range articles {
		key := DedupeKey(art.Title)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		corpus = append(corpus, art)
	}

	news := make(map[string][]domain.Article, len(categoryOrder))
	for _, cat := range categoryOrder {
		news[cat] = nil
	}
	for _, art := range corpus {
		news[art.Category] = append(news[art.Category], art)
	}

	for cat, list := range news {
		list = r.applyPromotion(cat, list)
		sortByRecency(list)
		if len(list) > r.categoryCap {
			list = list[:r.categoryCap]
		}
		news[cat] = list
	}

	ticker := make([]domain.Article, len(corpus))
	copy(ticker, corpus)
	sortByRecency(ticker)
	if len(ticker) > r.tickerSize {
		ticker = ticker[:r.tickerSize]
	}

	return news, ticker
}

// applyPromotion moves articles from promoted sources to the front of
// the category before the recency sort, so they win timestamp ties.
func (r *Ranker) applyPromotion(category string, list []domain.Article) []domain.Article {
	promoted := r.promote[category]
	if len(promoted) == 0 {
		return list
	}

	isPromoted := func(art domain.Article) bool {
		dom := linkDomain(art.Link)
		source := strings.ToLower(art.Source)
		for _, p := range promoted {
			if dom == p || source == p {
				return true
			}
		}
		return false
	}

	out := make([]domain.Article, 0, len(list))
	var rest []domain.Article
	for _, art := range list {
		if isPromoted(art) {
			out = append(out, art)
		} else {
			rest = append(rest, art)
		}
	}
	return append(out, rest...)
}

// sortByRecency sorts newest-first. The sort is stable so equal
// timestamps keep their input order, which keeps runs deterministic.
func sortByRecency(list []domain.Article) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].PublishedAt.After(list[j].PublishedAt)
	})
}
