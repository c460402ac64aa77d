// Package scraper contains the source scrapers that feed the pipeline and
// the registry that runs them with per-scraper fault isolation.
package scraper

import (
	"context"

	"github.com/north-cloud/newsllm/internal/news"
)

// Options tunes a scrape run.
type Options struct {
	// Limit caps the items kept per scraper. Zero or negative keeps all.
	Limit int
	// Verbose raises logging chattiness for the run.
	Verbose bool
}

// Scraper produces a batch of articles from one source. Implementations
// tolerate per-item failures themselves (log, drop the item, continue); a
// returned error means the whole source failed.
type Scraper interface {
	// Name identifies the scraper; it becomes the Source of every article
	// it produces.
	Name() string
	// BaseURL is the source's base location, informational only.
	BaseURL() string
	// Scrape fetches and normalizes the source's current articles.
	Scrape(ctx context.Context, opts Options) ([]*news.Article, error)
}
