package pipeline

import (
	"context"
	"errors"

	"github.com/jinxlover/daily-unbiased-news/internal/domain"
	"github.com/jinxlover/daily-unbiased-news/internal/logger"
	"github.com/jinxlover/daily-unbiased-news/internal/registry"
)

// Result is one complete pipeline run: the published category lists, the
// ticker, and the per-feed outcomes for observability.
type Result struct {
	News          map[string][]domain.Article
	Ticker        []domain.Article
	CategoryOrder []string
	Outcomes      []domain.FeedOutcome
}

// Pipeline wires the orchestrator, normalizer, and ranker into a single
// run over a feed registry.
type Pipeline struct {
	reg        *registry.Registry
	orch       *Orchestrator
	normalizer *Normalizer
	ranker     *Ranker
	log        logger.Logger
}

// New assembles a Pipeline from its stages.
func New(reg *registry.Registry, orch *Orchestrator, normalizer *Normalizer, ranker *Ranker, log logger.Logger) (*Pipeline, error) {
	if reg == nil {
		return nil, errors.New("pipeline requires a feed registry")
	}
	if orch == nil || normalizer == nil || ranker == nil {
		return nil, errors.New("pipeline requires orchestrator, normalizer, and ranker")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ranker.promote == nil {
		promote := make(map[string][]string)
		for _, cat := range reg.CategoryNames() {
			if promoted := reg.PromoteFor(cat); len(promoted) > 0 {
				promote[cat] = promoted
			}
		}
		ranker.promote = promote
	}
	return &Pipeline{
		reg:        reg,
		orch:       orch,
		normalizer: normalizer,
		ranker:     ranker,
		log:        log,
	}, nil
}

// Run executes one fetch-normalize-dedupe-rank pass. Per-feed failures
// are recorded in the outcomes; Run itself only fails if the outer
// context is already dead.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sources := p.reg.Sources()
	results := p.orch.Run(ctx, sources)

	var articles []domain.Article
	outcomes := make([]domain.FeedOutcome, 0, len(results))
	skipped := 0
	for _, res := range results {
		outcomes = append(outcomes, res.Outcome)
		if res.Outcome.Skipped() {
			skipped++
			continue
		}
		articles = append(articles, p.normalizer.Normalize(res.Source, res.Items)...)
	}

	order := p.reg.CategoryNames()
	news, ticker := p.ranker.Rank(articles, order)

	p.log.InfoObj("pipeline run completed", "pipeline_done", map[string]any{
		"feeds":         len(sources),
		"feeds_skipped": skipped,
		"articles":      len(articles),
		"ticker":        len(ticker),
	})

	return Result{
		News:          news,
		Ticker:        ticker,
		CategoryOrder: order,
		Outcomes:      outcomes,
	}, nil
}
