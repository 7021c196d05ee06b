// Package narrative turns statement statistics into prose via a language model.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-summarizer/internal/logger"
)

// Narrator produces a single text completion for a prompt.
// Implementations do not retry; failures are returned to the caller.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// GeminiConfig configures a GeminiNarrator.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	// BaseURL overrides the API endpoint; empty uses the public Gemini API.
	BaseURL string
}

// GeminiNarrator is the Narrator backed by the Gemini API.
type GeminiNarrator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiNarrator creates a Gemini client once for reuse across requests.
func NewGeminiNarrator(ctx context.Context, cfg GeminiConfig) (*GeminiNarrator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("NewGeminiNarrator: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: "v1",
			BaseURL:    cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiNarrator: create genai client: %w", err)
	}

	return &GeminiNarrator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Narrate sends the prompt as a single user turn and returns the model text.
func (n *GeminiNarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := n.client.Models.GenerateContent(ctx, n.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(n.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("Narrate: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Narrate: empty response from model")
	}

	ev := log.Debug().Str("model", n.model).Int("chars", len(text))
	if u := resp.UsageMetadata; u != nil {
		ev = ev.Int32("tokens_input", u.PromptTokenCount).Int32("tokens_output", u.CandidatesTokenCount)
	}
	ev.Msg("Narrative generated")

	return text, nil
}

// Static is a Narrator that returns a fixed text without calling out.
type Static string

// Narrate implements Narrator.
func (s Static) Narrate(context.Context, string) (string, error) {
	return string(s), nil
}

// ErrNotConfigured is returned by Unconfigured.
var ErrNotConfigured = errors.New("narrative service not configured")

// Unconfigured is a Narrator that always fails. The API server uses it when
// no API key is set so uploads still return their aggregates.
type Unconfigured struct{}

// Narrate implements Narrator.
func (Unconfigured) Narrate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

var (
	_ Narrator = (*GeminiNarrator)(nil)
	_ Narrator = Static("")
	_ Narrator = Unconfigured{}
)
