// Package metrics exposes pipeline counters for Prometheus scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	ArticlesScraped    prometheus.Counter
	ArticlesSummarized prometheus.Counter
	ArticlesDispatched prometheus.Counter
	SummarizeFailures  prometheus.Counter
	DispatchFailures   prometheus.Counter
}

// New registers the pipeline collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ArticlesScraped: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsllm_articles_scraped_total",
			Help: "Articles produced by scrapers and enqueued.",
		}),
		ArticlesSummarized: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsllm_articles_summarized_total",
			Help: "Articles that received a non-empty summary.",
		}),
		ArticlesDispatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsllm_articles_dispatched_total",
			Help: "Articles sent to at least one dispatch channel.",
		}),
		SummarizeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsllm_summarize_failures_total",
			Help: "Summarization attempts that degraded to an empty result.",
		}),
		DispatchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsllm_dispatch_failures_total",
			Help: "Channel sends that returned an error.",
		}),
	}
}
