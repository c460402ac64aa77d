package summarizer

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/north-cloud/newsllm/internal/logger"
)

// Result is the structured output the model is asked to produce.
type Result struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// Empty reports whether the result carries no enrichment.
func (r Result) Empty() bool {
	return r.Summary == "" && len(r.Tags) == 0
}

// Summarizer generates a summary and tag set for article text through a
// chosen provider and model. It is state-free per call.
type Summarizer struct {
	provider Provider
	model    string
	logger   logger.Logger
}

// New creates a Summarizer bound to a provider and model.
func New(provider Provider, model string, log logger.Logger) *Summarizer {
	return &Summarizer{provider: provider, model: model, logger: log}
}

// Provider returns the bound provider.
func (s *Summarizer) Provider() Provider { return s.provider }

// Model returns the bound model id.
func (s *Summarizer) Model() string { return s.model }

// Summarize asks the provider for a summary of text and defensively parses
// the free-text response. Every failure in the chain — provider error, no
// fenced block, malformed JSON — is logged and degrades to an empty Result.
// Summarization never aborts the pipeline; it is preferable to dispatch an
// under-enriched record than to stall or drop it.
func (s *Summarizer) Summarize(ctx context.Context, text string) Result {
	raw, err := s.provider.Call(ctx, s.model, text)
	if err != nil {
		s.logger.Error("summarize failed",
			logger.String("provider", s.provider.Name()),
			logger.String("model", s.model),
			logger.Error(err))
		return Result{}
	}

	payload, ok := ExtractJSON(NormalizeText(raw))
	if !ok {
		s.logger.Warn("no fenced block in model output",
			logger.String("provider", s.provider.Name()),
			logger.String("model", s.model))
		return Result{}
	}

	var res Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		s.logger.Error("malformed JSON in model output", logger.Error(err))
		return Result{}
	}
	return res
}

// NormalizeText collapses any run of repeated identical whitespace characters
// to a single occurrence and trims leading/trailing whitespace. It compensates
// for padded model output. Note the narrow semantic: only immediate repeats of
// the same character collapse — a space followed by a tab stays untouched.
// This matches the behavior downstream parsing was tuned against; it is not a
// general whitespace normalizer.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prev := rune(-1)
	for _, r := range text {
		if r == prev && unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimSpace(b.String())
}

var fencedBlockRe = regexp.MustCompile("(?s)```json(.*?)```|```(.*?)```")

// ExtractJSON locates the leftmost fenced code block and returns its body,
// trimmed. A fence opened with the json tag contributes only its payload; an
// untagged fence contributes everything between the markers. ok is false when
// the text contains no fenced block at all.
func ExtractJSON(text string) (payload string, ok bool) {
	m := fencedBlockRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return strings.TrimSpace(m[1]), true
	}
	return strings.TrimSpace(m[2]), true
}
