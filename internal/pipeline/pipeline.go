// Package pipeline orchestrates the full run: scrape into the queue, then
// consume it with summarize/dispatch workers.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/north-cloud/newsllm/internal/channel"
	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/metrics"
	"github.com/north-cloud/newsllm/internal/news"
	"github.com/north-cloud/newsllm/internal/queue"
	"github.com/north-cloud/newsllm/internal/scraper"
	"github.com/north-cloud/newsllm/internal/summarizer"
)

// Archive persists dispatched articles. Satisfied by store.Mongo; nil
// disables archiving.
type Archive interface {
	Save(ctx context.Context, article *news.Article) error
}

// Pipeline wires the stages together. The queue is the only shared mutable
// resource between the scrape side and the consumer workers.
type Pipeline struct {
	scrapers   *scraper.Registry
	queue      queue.Queue
	summarizer *summarizer.Summarizer
	channels   []channel.Channel
	archive    Archive
	metrics    *metrics.Metrics
	logger     logger.Logger

	workers    int
	scrapeOpts scraper.Options
}

// Config tunes a pipeline instance.
type Config struct {
	// Workers is the number of concurrent summarize/dispatch consumers.
	Workers int
	// ScrapeOptions is forwarded to every scraper.
	ScrapeOptions scraper.Options
}

// New assembles a pipeline. archive may be nil; metrics must not be.
func New(
	scrapers *scraper.Registry,
	q queue.Queue,
	s *summarizer.Summarizer,
	channels []channel.Channel,
	archive Archive,
	m *metrics.Metrics,
	cfg Config,
	log logger.Logger,
) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Pipeline{
		scrapers:   scrapers,
		queue:      q,
		summarizer: s,
		channels:   channels,
		archive:    archive,
		metrics:    m,
		logger:     log,
		workers:    cfg.Workers,
		scrapeOpts: cfg.ScrapeOptions,
	}
}

// Run executes one full pass: scrape every source onto the queue, then drain
// it through the summarize and dispatch stages. Per-item failures degrade or
// drop that item only; the returned error reflects wiring bugs (channel
// direction misuse), never item failures.
func (p *Pipeline) Run(ctx context.Context) error {
	scraped := p.scrapers.ScrapeAll(ctx, p.scrapeOpts)
	p.metrics.ArticlesScraped.Add(float64(len(scraped)))

	return p.Process(ctx)
}

// Process consumes the queue until it is empty, running the configured number
// of workers. Safe to call on a queue filled by an earlier run when the
// durable backend is in use.
func (p *Pipeline) Process(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		fatalErr error
	)

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, ok, err := p.queue.Dequeue(ctx)
				if err != nil {
					p.logger.Error("dequeue failed", logger.Error(err))
					return
				}
				if !ok {
					return
				}
				if err := p.handle(ctx, item); err != nil {
					errOnce.Do(func() { fatalErr = err })
					return
				}
			}
		}()
	}

	wg.Wait()
	return fatalErr
}

// handle carries one queued item through summarize, dispatch and archive. The
// returned error is non-nil only for channel direction misuse, which signals
// a wiring bug and aborts the run.
func (p *Pipeline) handle(ctx context.Context, item string) error {
	article, err := news.Decode(item)
	if err != nil {
		p.logger.Error("dropping undecodable queue item", logger.Error(err))
		return nil
	}

	log := p.logger.With(
		logger.String("article_id", article.ID),
		logger.String("source", article.Source),
	)

	res := p.summarizer.Summarize(ctx, article.TextContent)
	if res.Empty() {
		p.metrics.SummarizeFailures.Inc()
		log.Warn("summarization degraded to empty result")
	} else {
		p.metrics.ArticlesSummarized.Inc()
	}

	// A failed summary degrades the record's content; the record itself
	// stays in the pipeline and is still dispatched.
	article.Enrich(res.Summary, res.Tags, map[string]any{
		"provider": p.summarizer.Provider().Name(),
		"model":    p.summarizer.Model(),
	})

	dispatched := false
	for _, ch := range p.channels {
		if err := ch.Send(ctx, article); err != nil {
			if errors.Is(err, channel.ErrChannelDirection) {
				return err
			}
			p.metrics.DispatchFailures.Inc()
			log.Error("dispatch failed", logger.Error(err))
			continue
		}
		dispatched = true
	}
	if dispatched {
		p.metrics.ArticlesDispatched.Inc()
	}

	if p.archive != nil {
		if err := p.archive.Save(ctx, article); err != nil {
			log.Error("archive failed", logger.Error(err))
		}
	}
	return nil
}
