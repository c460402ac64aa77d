// Package news defines the Article record, the unit that flows through every
// pipeline stage: scraped, queued, summarized, dispatched.
package news

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// UnknownSource marks records whose producing scraper is not known.
const UnknownSource = "UNKNOWN"

// Article is one scraped piece of content. It is value data: stages copy or
// serialize it, nothing holds it as shared mutable state. ID, Source and URL
// are fixed at construction; Summary and Metadata are written once, by the
// summarize stage.
type Article struct {
	ID            string         `json:"id"`
	Source        string         `json:"source"`
	Title         string         `json:"title"`
	RawContent    string         `json:"raw_content"`
	TextContent   string         `json:"text_content"`
	URL           string         `json:"url"`
	Description   string         `json:"description,omitempty"`
	PublishedDate string         `json:"published_date,omitempty"`
	ScrapedAt     time.Time      `json:"scraped_at"`
	Author        string         `json:"author,omitempty"`
	Categories    []string       `json:"categories"`
	Tags          []string       `json:"tags"`
	Summary       string         `json:"summary,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Key identifies an article. Two records are equal iff their keys match;
// content differences do not matter. Key is comparable, so articles are safe
// to place in maps and sets by content identity.
type Key struct {
	ID     string
	Source string
}

// New builds an Article from source data, applying identity defaults and
// validating the URL. An unparseable URL is a construction failure, never a
// runtime one.
func New(a Article) (*Article, error) {
	if _, err := url.ParseRequestURI(a.URL); err != nil {
		return nil, fmt.Errorf("invalid article url %q: %w", a.URL, err)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Source == "" {
		a.Source = UnknownSource
	}
	if a.ScrapedAt.IsZero() {
		a.ScrapedAt = time.Now()
	}
	if a.Categories == nil {
		a.Categories = []string{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

// Key returns the article's identity.
func (a *Article) Key() Key {
	return Key{ID: a.ID, Source: a.Source}
}

// Equal reports whether two articles share the same (id, source) identity.
func (a *Article) Equal(other *Article) bool {
	if other == nil {
		return false
	}
	return a.Key() == other.Key()
}

// Enrich attaches the summarize stage's output. Summary and Metadata are
// write-once per run; callers do not enrich the same record twice.
func (a *Article) Enrich(summary string, tags []string, metadata map[string]any) {
	a.Summary = summary
	if len(tags) > 0 {
		a.Tags = tags
	}
	if len(metadata) > 0 {
		if a.Metadata == nil {
			a.Metadata = make(map[string]any, len(metadata))
		}
		for k, v := range metadata {
			a.Metadata[k] = v
		}
	}
}

// Encode serializes the article for queue transit.
func (a *Article) Encode() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode article %s: %w", a.ID, err)
	}
	return string(data), nil
}

// Decode deserializes an article coming off the queue.
func Decode(data string) (*Article, error) {
	var a Article
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	return &a, nil
}
