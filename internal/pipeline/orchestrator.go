// Package pipeline turns the feed registry into the published article
// lists: concurrent fetch, normalization, global dedupe, and ranking.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/jinxlover/daily-unbiased-news/internal/domain"
	"github.com/jinxlover/daily-unbiased-news/internal/logger"
)

const (
	defaultMaxFetchWorkers = 10
	defaultFetchTimeout    = 20 * time.Second
)

// FeedFetcher retrieves one feed's raw items.
type FeedFetcher interface {
	Fetch(ctx context.Context, src domain.FeedSource) ([]domain.RawItem, error)
}

// FeedResult holds one feed's contribution. Results keep registry order
// regardless of which worker finished first.
type FeedResult struct {
	Source  domain.FeedSource
	Items   []domain.RawItem
	Outcome domain.FeedOutcome
}

// Orchestrator fans fetch work out over a bounded worker pool. Each feed
// owns one result slot, so workers never contend on shared state.
type Orchestrator struct {
	fetcher      FeedFetcher
	workers      int
	fetchTimeout time.Duration
	log          logger.Logger
}

// NewOrchestrator builds an Orchestrator. Non-positive workers or
// timeout fall back to defaults; a nil logger is replaced with a no-op.
func NewOrchestrator(fetcher FeedFetcher, workers int, fetchTimeout time.Duration, log logger.Logger) *Orchestrator {
	if workers <= 0 {
		workers = defaultMaxFetchWorkers
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Orchestrator{
		fetcher:      fetcher,
		workers:      workers,
		fetchTimeout: fetchTimeout,
		log:          log,
	}
}

// Run fetches every source concurrently and returns one result per
// source, in input order. A failed feed yields an empty item set and a
// recorded outcome; it never aborts sibling fetches.
func (o *Orchestrator) Run(ctx context.Context, sources []domain.FeedSource) []FeedResult {
	out := make([]FeedResult, len(sources))
	for i, src := range sources {
		out[i] = FeedResult{
			Source:  src,
			Outcome: domain.FeedOutcome{Category: src.Category, URL: src.URL, Label: src.Label},
		}
	}
	if len(sources) == 0 {
		return out
	}

	workerCount := min(len(sources), o.workers)

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for workerID := range workerCount {
		wg.Add(1)
		go o.fetchWorker(ctx, sources, jobCh, out, &wg, workerID)
	}

	for idx := range sources {
		if ctx.Err() != nil {
			break
		}
		jobCh <- idx
	}
	close(jobCh)

	wg.Wait()

	return out
}

// fetchWorker processes feed indexes from the job channel, writing each
// result into its own slot.
func (o *Orchestrator) fetchWorker(
	ctx context.Context,
	sources []domain.FeedSource,
	jobCh <-chan int,
	out []FeedResult,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			return
		}

		src := sources[idx]
		start := time.Now()

		fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
		items, err := o.fetcher.Fetch(fetchCtx, src)
		cancel()

		out[idx].Items = items
		out[idx].Outcome.ItemCount = len(items)
		out[idx].Outcome.Duration = time.Since(start)
		out[idx].Outcome.Err = err

		if err != nil {
			o.log.WarnObj("feed skipped", "feed_skip", map[string]any{
				"worker_id": workerID,
				"category":  src.Category,
				"url":       src.URL,
				"error":     err.Error(),
			})
			continue
		}

		o.log.InfoObj("feed completed", "feed_done", map[string]any{
			"worker_id":   workerID,
			"category":    src.Category,
			"url":         src.URL,
			"items":       len(items),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
