package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/retry"
)

const anthropicMaxTokens = 1024

// Anthropic serves the provider contract through the official SDK instead of
// the OpenAI wire format. The model catalog check and the degrade-to-empty
// policy behave exactly as for the HTTP providers.
type Anthropic struct {
	client   anthropic.Client
	logger   logger.Logger
	retryCfg retry.Config
}

// NewAnthropic constructs the Anthropic provider. A missing API key is a
// configuration error.
func NewAnthropic(apiKey string, log logger.Logger) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider anthropic", ErrAPIKeyRequired)
	}
	return &Anthropic{
		client:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		logger:   log,
		retryCfg: callRetryPolicy(),
	}, nil
}

// Name identifies the provider within the registry.
func (p *Anthropic) Name() string { return "anthropic" }

// Call checks the model catalog, then requests a completion. Transient
// failures retry with bounded backoff and then degrade to empty output;
// only model resolution is a hard error.
func (p *Anthropic) Call(ctx context.Context, model, prompt string) (string, error) {
	exists, err := p.modelExists(ctx, model)
	if err != nil {
		return "", fmt.Errorf("list models for anthropic: %w", err)
	}
	if !exists {
		p.logger.Error("model not found", logger.String("provider", "anthropic"), logger.String("model", model))
		return "", fmt.Errorf("%w: %s", ErrModelNotFound, model)
	}

	var content string
	err = retry.Do(ctx, p.retryCfg, func() error {
		var callErr error
		content, callErr = p.complete(ctx, model, prompt)
		return callErr
	})
	if err != nil {
		p.logger.Error("provider call failed",
			logger.String("provider", "anthropic"),
			logger.String("model", model),
			logger.Error(err))
		return "", nil
	}
	return content, nil
}

func (p *Anthropic) modelExists(ctx context.Context, model string) (bool, error) {
	page, err := p.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return false, err
	}
	want := strings.ToLower(model)
	for _, m := range page.Data {
		if normalizeModelID(string(m.ID)) == want {
			return true, nil
		}
	}
	return false, nil
}

func (p *Anthropic) complete(ctx context.Context, model, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
