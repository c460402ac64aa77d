package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/news"
	"github.com/north-cloud/newsllm/internal/queue"
)

type fakeScraper struct {
	name     string
	articles int
	err      error
	panics   bool
}

func (s *fakeScraper) Name() string    { return s.name }
func (s *fakeScraper) BaseURL() string { return "https://example.com" }

func (s *fakeScraper) Scrape(_ context.Context, _ Options) ([]*news.Article, error) {
	if s.panics {
		panic("scraper blew up")
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*news.Article, 0, s.articles)
	for i := 0; i < s.articles; i++ {
		a, err := news.New(news.Article{
			Source: s.name,
			Title:  fmt.Sprintf("%s article %d", s.name, i),
			URL:    fmt.Sprintf("https://example.com/%s/%d", s.name, i),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func TestScrapeAllAccumulatesAndEnqueues(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemory("test", logger.NewNop())
	r := NewRegistry(q, logger.NewNop(),
		&fakeScraper{name: "one", articles: 2},
		&fakeScraper{name: "two", articles: 3},
	)

	got := r.ScrapeAll(ctx, Options{})
	assert.Len(t, got, 5)

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	// Queued items decode back into articles.
	item, ok, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	a, err := news.Decode(item)
	require.NoError(t, err)
	assert.Equal(t, "one", a.Source)
}

func TestScrapeAllAppliesPerScraperLimit(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemory("test", logger.NewNop())
	r := NewRegistry(q, logger.NewNop(),
		&fakeScraper{name: "one", articles: 5},
		&fakeScraper{name: "two", articles: 1},
	)

	got := r.ScrapeAll(ctx, Options{Limit: 2})
	assert.Len(t, got, 3)

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestScrapeAllIsolatesFailingScraper(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemory("test", logger.NewNop())
	r := NewRegistry(q, logger.NewNop(),
		&fakeScraper{name: "broken", err: errors.New("fetch failed")},
		&fakeScraper{name: "healthy", articles: 2},
	)

	got := r.ScrapeAll(ctx, Options{})

	assert.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, "healthy", a.Source)
	}
}

func TestScrapeAllIsolatesPanickingScraper(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemory("test", logger.NewNop())
	r := NewRegistry(q, logger.NewNop(),
		&fakeScraper{name: "crasher", panics: true},
		&fakeScraper{name: "healthy", articles: 1},
	)

	var got []*news.Article
	assert.NotPanics(t, func() {
		got = r.ScrapeAll(ctx, Options{})
	})
	assert.Len(t, got, 1)
}

func TestDefaultRegistryExcludesDisabled(t *testing.T) {
	q := queue.NewMemory("test", logger.NewNop())

	r := DefaultRegistry(q, nil, logger.NewNop(), []string{"HackerNews"})

	names := make([]string, 0, len(r.Scrapers()))
	for _, s := range r.Scrapers() {
		names = append(names, s.Name())
	}
	assert.NotContains(t, names, "HackerNews")
	assert.Contains(t, names, "TechCrunch")
}
