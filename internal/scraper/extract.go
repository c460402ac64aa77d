package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const maxFetchBody = 4 << 20 // 4 MiB cap on fetched pages

// fetchHTML retrieves a page body with the client's bounded timeout. A
// non-2xx status is an error; the caller decides whether to drop the item.
func fetchHTML(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "newsllm/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	return string(body), nil
}

// extractText pulls plain text out of raw HTML. With a selector it extracts
// only that element's text, otherwise the whole document's.
func extractText(rawHTML, selector string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	if selector != "" {
		return strings.TrimSpace(doc.Find(selector).Text())
	}
	return strings.TrimSpace(doc.Text())
}

// extractReadableText runs readability extraction over a fetched page, which
// strips navigation and boilerplate. Falls back to whole-body text when the
// page defeats readability.
func extractReadableText(rawHTML, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return extractText(rawHTML, "body")
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return extractText(rawHTML, "body")
	}
	return strings.TrimSpace(article.TextContent)
}
