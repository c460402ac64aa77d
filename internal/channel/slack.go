package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/north-cloud/newsllm/internal/httpx"
	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/news"
)

// ErrWebhookURLRequired is returned when the Slack channel is constructed
// without a webhook URL.
var ErrWebhookURLRequired = errors.New("slack webhook url required")

// Slack dispatches articles to a Slack incoming webhook as Block Kit
// messages.
type Slack struct {
	Outbound

	webhookURL string
	client     *http.Client
	logger     logger.Logger
}

// NewSlack creates the Slack dispatch channel. A missing webhook URL is a
// configuration error raised here, before any network attempt.
func NewSlack(webhookURL string, client *http.Client, log logger.Logger) (*Slack, error) {
	if webhookURL == "" {
		return nil, ErrWebhookURLRequired
	}
	if client == nil {
		client = httpx.NewClient(0)
	}
	return &Slack{webhookURL: webhookURL, client: client, logger: log}, nil
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

// Send renders the article and posts it to the webhook.
func (c *Slack) Send(ctx context.Context, article *news.Article) error {
	payload, err := json.Marshal(slackPayload{
		Text:   "News Update",
		Blocks: formatBlocks(article),
	})
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending slack message", logger.String("article_id", article.ID))
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.Info("slack message sent", logger.String("article_id", article.ID))
	return nil
}

// formatBlocks renders the article into Slack blocks: the title as a header,
// source and date as context, tags joined inline, the summary as a quoted
// block with one quote marker per line, and the URL as a link.
func formatBlocks(article *news.Article) []slackBlock {
	lines := strings.Split(article.Summary, "\n")
	for i, line := range lines {
		lines[i] = ">" + line
	}
	blockquote := strings.Join(lines, "\n")

	return []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: article.Title},
		},
		{
			Type: "context",
			Elements: []slackText{
				{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*Source:* %s\n*Date Published:* %s\n", article.Source, article.PublishedDate),
				},
			},
		},
		{
			Type: "section",
			Text: &slackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Tags:* _%s_\n", strings.Join(article.Tags, ", ")),
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Summary*\n" + blockquote},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("*URL:* <%s>\n", article.URL)},
		},
	}
}
