package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-cloud/newsllm/internal/channel"
	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/metrics"
	"github.com/north-cloud/newsllm/internal/news"
	"github.com/north-cloud/newsllm/internal/queue"
	"github.com/north-cloud/newsllm/internal/scraper"
	"github.com/north-cloud/newsllm/internal/summarizer"
)

type stubScraper struct {
	articles []*news.Article
}

func (s *stubScraper) Name() string    { return "stub" }
func (s *stubScraper) BaseURL() string { return "https://example.com" }

func (s *stubScraper) Scrape(context.Context, scraper.Options) ([]*news.Article, error) {
	return s.articles, nil
}

type stubProvider struct {
	out string
	err error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Call(context.Context, string, string) (string, error) {
	return p.out, p.err
}

type captureChannel struct {
	channel.Outbound

	mu       sync.Mutex
	received []*news.Article
	err      error
}

func (c *captureChannel) Send(_ context.Context, a *news.Article) error {
	if c.err != nil {
		return c.err
	}
	c.mu.Lock()
	c.received = append(c.received, a)
	c.mu.Unlock()
	return nil
}

type inboundOnly struct {
	channel.Inbound
}

func (inboundOnly) Receive(context.Context) (string, error) { return "", nil }

type captureArchive struct {
	mu    sync.Mutex
	saved []*news.Article
}

func (a *captureArchive) Save(_ context.Context, article *news.Article) error {
	a.mu.Lock()
	a.saved = append(a.saved, article)
	a.mu.Unlock()
	return nil
}

func mustArticle(t *testing.T, title, url string) *news.Article {
	t.Helper()
	a, err := news.New(news.Article{
		Source:      "stub",
		Title:       title,
		TextContent: "the article body",
		URL:         url,
	})
	require.NoError(t, err)
	return a
}

const fencedOutput = "Here you go:\n```json\n{\"summary\": \"A tight summary.\", \"tags\": [\"ai\"]}\n```"

func newTestPipeline(t *testing.T, scrapers []scraper.Scraper, provider summarizer.Provider, chans []channel.Channel, archive Archive) (*Pipeline, queue.Queue, *metrics.Metrics) {
	t.Helper()
	log := logger.NewNop()
	q := queue.NewMemory("test", log)
	reg := scraper.NewRegistry(q, log, scrapers...)
	s := summarizer.New(provider, "model-x", log)
	m := metrics.New(prometheus.NewRegistry())

	p := New(reg, q, s, chans, archive, m, Config{Workers: 2}, log)
	return p, q, m
}

func TestRunEndToEnd(t *testing.T) {
	article := mustArticle(t, "Go 1.26 released", "https://example.com/go-126")
	ch := &captureChannel{}
	arch := &captureArchive{}

	p, q, m := newTestPipeline(t,
		[]scraper.Scraper{&stubScraper{articles: []*news.Article{article}}},
		&stubProvider{out: fencedOutput},
		[]channel.Channel{ch},
		arch,
	)

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, ch.received, 1)
	got := ch.received[0]
	assert.Equal(t, "Go 1.26 released", got.Title)
	assert.Equal(t, "https://example.com/go-126", got.URL)
	assert.Equal(t, "A tight summary.", got.Summary)
	assert.Equal(t, []string{"ai"}, got.Tags)
	assert.Equal(t, "stub", got.Metadata["provider"])
	assert.Equal(t, "model-x", got.Metadata["model"])

	require.Len(t, arch.saved, 1)
	assert.True(t, got.Equal(arch.saved[0]))

	size, err := q.Size(context.Background())
	require.NoError(t, err)
	assert.Zero(t, size, "queue must be drained")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArticlesScraped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArticlesSummarized))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArticlesDispatched))
}

func TestRunDispatchesDegradedSummary(t *testing.T) {
	article := mustArticle(t, "title", "https://example.com/x")
	ch := &captureChannel{}

	p, _, m := newTestPipeline(t,
		[]scraper.Scraper{&stubScraper{articles: []*news.Article{article}}},
		&stubProvider{out: "prose with no fenced block"},
		[]channel.Channel{ch},
		nil,
	)

	require.NoError(t, p.Run(context.Background()))

	// The record is still dispatched, just without enrichment.
	require.Len(t, ch.received, 1)
	assert.Empty(t, ch.received[0].Summary)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SummarizeFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArticlesDispatched))
}

func TestProcessDropsUndecodableItems(t *testing.T) {
	ch := &captureChannel{}
	p, q, _ := newTestPipeline(t, nil, &stubProvider{out: fencedOutput}, []channel.Channel{ch}, nil)

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, "{not json"))

	require.NoError(t, p.Process(ctx))
	assert.Empty(t, ch.received)
}

func TestProcessContinuesPastSendFailure(t *testing.T) {
	article := mustArticle(t, "title", "https://example.com/x")
	encoded, err := article.Encode()
	require.NoError(t, err)

	failing := &captureChannel{err: errors.New("webhook down")}
	working := &captureChannel{}
	p, q, m := newTestPipeline(t, nil, &stubProvider{out: fencedOutput},
		[]channel.Channel{failing, working}, nil)

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, encoded))

	require.NoError(t, p.Process(ctx))

	assert.Len(t, working.received, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArticlesDispatched))
}

func TestProcessAbortsOnDirectionMisuse(t *testing.T) {
	article := mustArticle(t, "title", "https://example.com/x")
	encoded, err := article.Encode()
	require.NoError(t, err)

	p, q, _ := newTestPipeline(t, nil, &stubProvider{out: fencedOutput},
		[]channel.Channel{inboundOnly{}}, nil)

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, encoded))

	err = p.Process(ctx)
	assert.ErrorIs(t, err, channel.ErrChannelDirection)
}

func TestProcessDrainsQueueFilledEarlier(t *testing.T) {
	ch := &captureChannel{}
	p, q, _ := newTestPipeline(t, nil, &stubProvider{out: fencedOutput}, []channel.Channel{ch}, nil)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		a := mustArticle(t, "title", "https://example.com/x")
		encoded, err := a.Encode()
		require.NoError(t, err)
		require.NoError(t, q.Enqueue(ctx, encoded))
	}

	require.NoError(t, p.Process(ctx))
	assert.Len(t, ch.received, 5)
}
