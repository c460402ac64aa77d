package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/north-cloud/newsllm/internal/httpx"
	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/news"
)

const (
	techCrunchName    = "TechCrunch"
	techCrunchBaseURL = "https://techcrunch.com"

	techCrunchPageSize = 50
)

// TechCrunch scrapes the latest posts through the WordPress REST API, which
// returns rendered HTML per post.
type TechCrunch struct {
	client *http.Client
	logger logger.Logger
}

// NewTechCrunch creates the TechCrunch scraper.
func NewTechCrunch(client *http.Client, log logger.Logger) *TechCrunch {
	if client == nil {
		client = httpx.NewClient(0)
	}
	return &TechCrunch{client: client, logger: log.With(logger.String("scraper", techCrunchName))}
}

// Name identifies the scraper.
func (s *TechCrunch) Name() string { return techCrunchName }

// BaseURL is the source's base location.
func (s *TechCrunch) BaseURL() string { return techCrunchBaseURL }

type tcRendered struct {
	Rendered string `json:"rendered"`
}

type tcPost struct {
	ID         int        `json:"id"`
	Date       string     `json:"date"`
	Link       string     `json:"link"`
	Slug       string     `json:"slug"`
	Title      tcRendered `json:"title"`
	Content    tcRendered `json:"content"`
	Categories []int      `json:"categories"`
	Tags       []int      `json:"tags"`
	YoastHead  struct {
		Author        string `json:"author"`
		OGDescription string `json:"og_description"`
	} `json:"yoast_head_json"`
}

// Scrape fetches the latest posts listing and normalizes each post. A post
// that fails to normalize is logged and dropped; the batch survives.
func (s *TechCrunch) Scrape(ctx context.Context, _ Options) ([]*news.Article, error) {
	url := fmt.Sprintf("%s/wp-json/wp/v2/posts?per_page=%d", techCrunchBaseURL, techCrunchPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch posts: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}

	var posts []tcPost
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	articles := make([]*news.Article, 0, len(posts))
	for i := range posts {
		article, err := s.normalize(&posts[i])
		if err != nil {
			s.logger.Error("failed to process post", logger.Int("post_id", posts[i].ID), logger.Error(err))
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func (s *TechCrunch) normalize(post *tcPost) (*news.Article, error) {
	title := post.Title.Rendered
	if title == "" {
		title = post.Slug
	}
	return news.New(news.Article{
		ID:            strconv.Itoa(post.ID),
		Source:        techCrunchName,
		Title:         title,
		URL:           post.Link,
		Author:        post.YoastHead.Author,
		Description:   post.YoastHead.OGDescription,
		PublishedDate: post.Date,
		RawContent:    post.Content.Rendered,
		TextContent:   extractText(post.Content.Rendered, ""),
		Categories:    intsToStrings(post.Categories),
		Tags:          intsToStrings(post.Tags),
	})
}

func intsToStrings(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Itoa(id)
	}
	return out
}
