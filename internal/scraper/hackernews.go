package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/north-cloud/newsllm/internal/httpx"
	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/news"
)

const (
	hackerNewsName    = "HackerNews"
	hackerNewsBaseURL = "https://news.ycombinator.com"
	hackerNewsAPIBase = "https://hacker-news.firebaseio.com/v0"

	defaultStoryLimit = 5
)

// HackerNews scrapes top stories from the Hacker News firebase API and
// fetches each linked page for text extraction.
type HackerNews struct {
	client *http.Client
	logger logger.Logger
}

// NewHackerNews creates the Hacker News scraper.
func NewHackerNews(client *http.Client, log logger.Logger) *HackerNews {
	if client == nil {
		client = httpx.NewClient(0)
	}
	return &HackerNews{client: client, logger: log.With(logger.String("scraper", hackerNewsName))}
}

// Name identifies the scraper.
func (s *HackerNews) Name() string { return hackerNewsName }

// BaseURL is the source's base location.
func (s *HackerNews) BaseURL() string { return hackerNewsBaseURL }

type hnItem struct {
	ID    int    `json:"id"`
	Time  int64  `json:"time"`
	URL   string `json:"url"`
	By    string `json:"by"`
	Title string `json:"title"`
}

// Scrape pulls the current top stories, capped by opts.Limit. Failures on a
// single story are logged and that story dropped; the batch survives.
func (s *HackerNews) Scrape(ctx context.Context, opts Options) ([]*news.Article, error) {
	ids, err := s.topStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultStoryLimit
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	articles := make([]*news.Article, 0, len(ids))
	for _, id := range ids {
		article, err := s.scrapeStory(ctx, id)
		if err != nil {
			s.logger.Error("failed to scrape story", logger.Int("story_id", id), logger.Error(err))
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func (s *HackerNews) topStories(ctx context.Context) ([]int, error) {
	var ids []int
	if err := s.getJSON(ctx, hackerNewsAPIBase+"/topstories.json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *HackerNews) scrapeStory(ctx context.Context, id int) (*news.Article, error) {
	var item hnItem
	if err := s.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", hackerNewsAPIBase, id), &item); err != nil {
		return nil, err
	}

	link := item.URL
	if link == "" {
		link = fmt.Sprintf("%s/item?id=%d", hackerNewsBaseURL, id)
	}

	// A failed page fetch degrades to an article without content, it does
	// not drop the story.
	rawContent, err := fetchHTML(ctx, s.client, link)
	if err != nil {
		s.logger.Warn("failed to fetch story page", logger.String("url", link), logger.Error(err))
		rawContent = ""
	}
	textContent := ""
	if rawContent != "" {
		textContent = extractReadableText(rawContent, link)
	}

	return news.New(news.Article{
		ID:            strconv.Itoa(item.ID),
		Source:        hackerNewsName,
		Title:         item.Title,
		URL:           link,
		Author:        item.By,
		PublishedDate: time.Unix(item.Time, 0).Format(time.RFC3339),
		RawContent:    rawContent,
		TextContent:   textContent,
	})
}

func (s *HackerNews) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}
