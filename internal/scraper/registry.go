package scraper

import (
	"context"
	"net/http"
	"slices"

	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/news"
	"github.com/north-cloud/newsllm/internal/queue"
)

// Registry holds the scraper set and the shared output queue. Scrapers are
// registered explicitly; the registry runs them one at a time and serializes
// every kept article onto the queue. The returned slices are informational —
// the queue is the unit of record for downstream work.
type Registry struct {
	scrapers []Scraper
	queue    queue.Queue
	logger   logger.Logger
}

// NewRegistry creates a registry over the given scrapers.
func NewRegistry(q queue.Queue, log logger.Logger, scrapers ...Scraper) *Registry {
	return &Registry{scrapers: scrapers, queue: q, logger: log}
}

// DefaultRegistry registers every known scraper except those named in
// disabled.
func DefaultRegistry(q queue.Queue, client *http.Client, log logger.Logger, disabled []string) *Registry {
	all := []Scraper{
		NewHackerNews(client, log),
		NewTechCrunch(client, log),
	}
	kept := make([]Scraper, 0, len(all))
	for _, s := range all {
		if slices.Contains(disabled, s.Name()) {
			log.Info("scraper disabled", logger.String("scraper", s.Name()))
			continue
		}
		kept = append(kept, s)
	}
	return NewRegistry(q, log, kept...)
}

// Scrapers returns the registered scraper set.
func (r *Registry) Scrapers() []Scraper {
	return r.scrapers
}

// ScrapeAll runs every scraper sequentially. Each scraper is fault-isolated:
// an error or panic inside one yields an empty result for that scraper and is
// logged with full context, never aborting the run. Per-scraper output is
// truncated to opts.Limit (non-positive keeps all), accumulated into the
// combined result, and every kept article is enqueued as JSON.
func (r *Registry) ScrapeAll(ctx context.Context, opts Options) []*news.Article {
	r.logger.Debug("scraping all sources",
		logger.Int("scrapers", len(r.scrapers)),
		logger.Int("limit", opts.Limit))

	var combined []*news.Article
	for _, s := range r.scrapers {
		scraped := r.scrapeOne(ctx, s, opts)
		if opts.Limit > 0 && len(scraped) > opts.Limit {
			scraped = scraped[:opts.Limit]
		}
		combined = append(combined, scraped...)
		r.enqueue(ctx, scraped)
	}

	r.logger.Info("scrape run finished", logger.Int("articles", len(combined)))
	return combined
}

// scrapeOne runs a single scraper inside the fault-isolation wrapper.
func (r *Registry) scrapeOne(ctx context.Context, s Scraper, opts Options) (articles []*news.Article) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("scraper panicked",
				logger.String("scraper", s.Name()),
				logger.Any("panic", rec))
			articles = nil
		}
	}()

	if opts.Verbose {
		r.logger.Info("starting scrape", logger.String("scraper", s.Name()))
	}
	articles, err := s.Scrape(ctx, opts)
	if err != nil {
		r.logger.Error("scraper failed",
			logger.String("scraper", s.Name()),
			logger.Error(err))
		return nil
	}
	r.logger.Debug("scrape complete",
		logger.String("scraper", s.Name()),
		logger.Int("articles", len(articles)))
	return articles
}

func (r *Registry) enqueue(ctx context.Context, articles []*news.Article) {
	for _, a := range articles {
		encoded, err := a.Encode()
		if err != nil {
			r.logger.Error("failed to encode article", logger.String("article_id", a.ID), logger.Error(err))
			continue
		}
		if err := r.queue.Enqueue(ctx, encoded); err != nil {
			r.logger.Error("failed to enqueue article",
				logger.String("article_id", a.ID),
				logger.String("queue", r.queue.Name()),
				logger.Error(err))
		}
	}
}
