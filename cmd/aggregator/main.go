package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/jinxlover/daily-unbiased-news/internal/bias"
	"github.com/jinxlover/daily-unbiased-news/internal/config"
	"github.com/jinxlover/daily-unbiased-news/internal/logger"
	"github.com/jinxlover/daily-unbiased-news/internal/pipeline"
	"github.com/jinxlover/daily-unbiased-news/internal/registry"
	"github.com/jinxlover/daily-unbiased-news/internal/snapshot"
	"github.com/jinxlover/daily-unbiased-news/pkg/feeds"
	"github.com/jinxlover/daily-unbiased-news/pkg/httpclient"
	"github.com/jinxlover/daily-unbiased-news/pkg/publishers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aggregator: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the config file (optional)")
	flag.Parse()

	// Missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if s, ok := log.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return fmt.Errorf("load feed registry: %w", err)
	}

	biasTable := bias.DefaultTable()
	if cfg.BiasTablePath != "" {
		biasTable, err = bias.LoadTable(cfg.BiasTablePath)
		if err != nil {
			return fmt.Errorf("load bias table: %w", err)
		}
	}

	fetcher := feeds.NewFetcher(
		httpclient.NewRestyClient(cfg.FetchTimeout()),
		rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		log,
	)

	orch := pipeline.NewOrchestrator(fetcher, cfg.FetchWorkers, cfg.FetchTimeout(), log)
	normalizer := pipeline.NewNormalizer(biasTable, log)
	ranker := pipeline.NewRanker(cfg.CategoryCap, cfg.TickerSize, nil)

	pipe, err := pipeline.New(reg, orch, normalizer, ranker, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout())
	defer cancel()

	log.InfoObj("run started", "run_start", map[string]any{
		"categories": len(reg.Categories()),
		"feeds":      reg.FeedCount(),
	})
	started := time.Now()

	result, err := pipe.Run(ctx)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	snap := snapshot.Build(result.News, result.Ticker)

	writer, err := snapshot.NewWriter(cfg.SnapshotPath, log)
	if err != nil {
		return fmt.Errorf("init snapshot writer: %w", err)
	}

	written, err := writer.Publish(snap)
	if err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	if written.Changed && cfg.PublishersPath != "" {
		notifySnapshotUpdated(ctx, cfg.PublishersPath, written, result, log)
	}

	log.InfoObj("run finished", "run_done", map[string]any{
		"changed":     written.Changed,
		"snapshot":    written.Path,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return nil
}

// notifySnapshotUpdated fans the snapshot-updated event out to the
// configured publishers. Delivery failures are logged, never fatal.
func notifySnapshotUpdated(ctx context.Context, path string, written snapshot.WriteResult, result pipeline.Result, log logger.Logger) {
	pubReg, err := publishers.LoadRegistry(path)
	if err != nil {
		log.WarnObj("publishers config unusable, skipping notifications", "publishers_skip", map[string]any{
			"error": err.Error(),
		})
		return
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), pubReg.Enabled(), log)
	if err != nil {
		log.WarnObj("publisher construction failed, skipping notifications", "publishers_skip", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if len(pubs) == 0 {
		return
	}

	categories := make(map[string]int, len(result.News))
	for name, articles := range result.News {
		categories[name] = len(articles)
	}

	evt := publishers.Event{
		Type:         publishers.EventTypeSnapshotUpdated,
		SnapshotPath: written.Path,
		Checksum:     written.Checksum,
		Bytes:        written.Bytes,
		Categories:   categories,
		TickerSize:   len(result.Ticker),
		GeneratedAt:  time.Now().UTC(),
	}

	publishers.NotifyAll(ctx, pubs, evt, log)
}
