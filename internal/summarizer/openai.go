package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/north-cloud/newsllm/internal/httpx"
	"github.com/north-cloud/newsllm/internal/logger"
	"github.com/north-cloud/newsllm/internal/retry"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	openAIBaseURL     = "https://api.openai.com/v1"
)

// OpenAICompat talks to any chat-completion API that follows the OpenAI wire
// format: a /models catalog listing and a /chat/completions endpoint taking a
// system/user message pair. OpenRouter and OpenAI are both served by it.
type OpenAICompat struct {
	name     string
	apiKey   string
	baseURL  string
	client   *http.Client
	logger   logger.Logger
	retryCfg retry.Config
}

// NewOpenAICompat constructs a provider against the given endpoint. A missing
// API key is a configuration error.
func NewOpenAICompat(name, apiKey, baseURL string, client *http.Client, log logger.Logger) (*OpenAICompat, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrAPIKeyRequired, name)
	}
	if client == nil {
		client = httpx.NewClient(0)
	}
	return &OpenAICompat{
		name:     name,
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		logger:   log,
		retryCfg: callRetryPolicy(),
	}, nil
}

// NewOpenRouter constructs the OpenRouter provider.
func NewOpenRouter(apiKey string, log logger.Logger) (*OpenAICompat, error) {
	return NewOpenAICompat("openrouter", apiKey, openRouterBaseURL, nil, log)
}

// NewOpenAI constructs the OpenAI provider.
func NewOpenAI(apiKey string, log logger.Logger) (*OpenAICompat, error) {
	return NewOpenAICompat("openai", apiKey, openAIBaseURL, nil, log)
}

// Name identifies the provider within the registry.
func (p *OpenAICompat) Name() string { return p.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type modelList struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// Call checks the model against the catalog, then requests a completion with
// the fixed system prompt and the given user prompt. Transient failures are
// retried with randomized exponential backoff; once retries are exhausted the
// failure is logged and the output degrades to an empty string. Only model
// resolution failures are hard errors.
func (p *OpenAICompat) Call(ctx context.Context, model, prompt string) (string, error) {
	exists, err := p.modelExists(ctx, model)
	if err != nil {
		return "", fmt.Errorf("list models for %s: %w", p.name, err)
	}
	if !exists {
		p.logger.Error("model not found", logger.String("provider", p.name), logger.String("model", model))
		return "", fmt.Errorf("%w: %s", ErrModelNotFound, model)
	}

	p.logger.Debug("calling provider", logger.String("provider", p.name), logger.String("model", model))

	var content string
	err = retry.Do(ctx, p.retryCfg, func() error {
		var callErr error
		content, callErr = p.complete(ctx, model, prompt)
		return callErr
	})
	if err != nil {
		p.logger.Error("provider call failed",
			logger.String("provider", p.name),
			logger.String("model", model),
			logger.Error(err))
		return "", nil
	}
	return content, nil
}

// modelExists compares the requested name against the catalog's identifiers,
// case-insensitively and with any "vendor:" style prefix stripped down to the
// part after the last colon.
func (p *OpenAICompat) modelExists(ctx context.Context, model string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("models endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var catalog modelList
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return false, fmt.Errorf("decode model catalog: %w", err)
	}

	want := strings.ToLower(model)
	for _, m := range catalog.Data {
		id := m.Name
		if id == "" {
			id = m.ID
		}
		if normalizeModelID(id) == want {
			return true, nil
		}
	}
	return false, nil
}

// normalizeModelID lowercases a catalog identifier and keeps only the part
// after the last colon, trimmed.
func normalizeModelID(id string) string {
	if i := strings.LastIndex(id, ":"); i >= 0 {
		id = id[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(id))
}

func (p *OpenAICompat) complete(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}
	return out.Choices[0].Message.Content, nil
}
