// Package summarizer wraps LLM backends behind a uniform provider contract
// and defensively extracts structured output from their free-text responses.
package summarizer

import (
	"context"
	"errors"
	"time"

	"github.com/north-cloud/newsllm/internal/retry"
)

var (
	// ErrModelNotFound is returned when the requested model is absent from
	// the provider's advertised catalog. It is never retried and never
	// silently substituted.
	ErrModelNotFound = errors.New("model not found")
	// ErrProviderNotFound is returned when an unknown provider name is
	// requested from the registry.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrAPIKeyRequired is returned when a provider is constructed without
	// credentials.
	ErrAPIKeyRequired = errors.New("api key required")
)

// Provider is the uniform call contract over a specific LLM backend.
type Provider interface {
	// Name identifies the provider within the registry.
	Name() string
	// Call verifies the model exists in the provider's catalog, then asks it
	// to generate output for the prompt. Model resolution failures surface
	// as ErrModelNotFound; execution failures degrade to an empty string
	// after bounded retries.
	Call(ctx context.Context, model, prompt string) (string, error)
}

// SystemPrompt fixes the JSON contract the summarizer expects from the model:
// an object with a summary string and a tags list.
const SystemPrompt = `You are a professional content writer with a lot of experience. You are writing summaries of different articles for a client. The purpose of the summary is to provide the client with an overall context of the article so that they can decide whether the article is worth reading or not.
You will now have to create a list of tags that the article is relevant to. Ensure you don't give duplicates or synonyms. Each tag should be 1-3 words. The tags can be Artificial Intelligence, Software Programming, Coding, Finance, Startups, Design, Health, Sustainability, etc.
The output should be a JSON object with keys as summary and tags. The summary should be the summary of the article and tags should be the list of tags.
Output:
` + "```json" + `
{
    "summary": "The summary of the article",
    "tags": ["tag1", "tag2", "tag3"]
}
` + "```"

// callRetryPolicy bounds retries of transient generation failures: two total
// attempts with a randomized exponential wait between 2s and 6s.
func callRetryPolicy() retry.Config {
	return retry.Config{
		MaxAttempts: 2,
		MinDelay:    2 * time.Second,
		MaxDelay:    6 * time.Second,
		Jitter:      true,
	}
}
