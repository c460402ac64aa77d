package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/north-cloud/newsllm/internal/channel"
	"github.com/north-cloud/newsllm/internal/config"
	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/metrics"
	"github.com/north-cloud/newsllm/internal/pipeline"
	"github.com/north-cloud/newsllm/internal/queue"
	"github.com/north-cloud/newsllm/internal/scraper"
	"github.com/north-cloud/newsllm/internal/store"
	"github.com/north-cloud/newsllm/internal/summarizer"
)

// deps holds everything a command can need. Commands build only the parts
// they use so, for example, a scrape-only run does not require provider
// credentials.
type deps struct {
	cfg     *config.Config
	log     logger.Logger
	queue   queue.Queue
	promReg *prometheus.Registry
	metrics *metrics.Metrics
}

// baseDeps loads config, logger, and the shared queue.
func baseDeps() (*deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.Debug})
	if err != nil {
		return nil, err
	}

	registry := queue.NewRegistry(cfg.Queue.RedisURL, log)
	q, err := registry.Get(queue.Backend(cfg.Queue.Backend), cfg.Queue.Name)
	if err != nil {
		return nil, fmt.Errorf("select queue backend: %w", err)
	}

	promReg := prometheus.NewRegistry()
	return &deps{
		cfg:     cfg,
		log:     log,
		queue:   q,
		promReg: promReg,
		metrics: metrics.New(promReg),
	}, nil
}

// scraperRegistry builds the scraper set over the shared queue.
func (d *deps) scraperRegistry() *scraper.Registry {
	return scraper.DefaultRegistry(d.queue, nil, d.log, d.cfg.DisabledScrapers)
}

// buildSummarizer resolves the configured provider and binds the model.
func (d *deps) buildSummarizer() (*summarizer.Summarizer, error) {
	providers := summarizer.DefaultRegistry(d.cfg, d.log)
	provider, err := providers.Get(d.cfg.SummaryProvider)
	if err != nil {
		return nil, fmt.Errorf("select summary provider: %w", err)
	}
	return summarizer.New(provider, d.cfg.SummarizerModel, d.log), nil
}

// buildChannels constructs every configured dispatch channel.
func (d *deps) buildChannels() ([]channel.Channel, error) {
	var channels []channel.Channel
	if d.cfg.SlackWebhookURL != "" {
		slack, err := channel.NewSlack(d.cfg.SlackWebhookURL, nil, d.log)
		if err != nil {
			return nil, err
		}
		channels = append(channels, slack)
	}
	if len(channels) == 0 {
		d.log.Warn("no dispatch channels configured; articles will be summarized but not sent")
	}
	return channels, nil
}

// buildArchive constructs the optional Mongo archive.
func (d *deps) buildArchive() (pipeline.Archive, error) {
	if !d.cfg.Mongo.Enabled() {
		return nil, nil
	}
	return store.NewMongo(d.cfg.Mongo.URI(), d.cfg.Mongo.Database, d.log)
}

// buildPipeline assembles the full pipeline for run/summarize commands.
func (d *deps) buildPipeline(limit int, verbose bool) (*pipeline.Pipeline, error) {
	summ, err := d.buildSummarizer()
	if err != nil {
		return nil, err
	}
	channels, err := d.buildChannels()
	if err != nil {
		return nil, err
	}
	archive, err := d.buildArchive()
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		d.scraperRegistry(),
		d.queue,
		summ,
		channels,
		archive,
		d.metrics,
		pipeline.Config{
			Workers: d.cfg.Workers,
			ScrapeOptions: scraper.Options{
				Limit:   limit,
				Verbose: verbose,
			},
		},
		d.log,
	), nil
}
