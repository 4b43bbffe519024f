// Package llm wraps the external text-generation oracle: provider
// communication, cross-check prompt construction, response validation, and
// the similarity fallback taken when the oracle's output is unusable.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Options configures one generation call.
type Options struct {
	Temperature   float64
	MaxTokens     int
	ContextWindow int
}

// DefaultOptions are the generation settings used when the caller supplies
// none. Low temperature keeps the JSON verdict stable across runs.
var DefaultOptions = Options{
	Temperature:   0.2,
	MaxTokens:     1024,
	ContextWindow: 8192,
}

// Generator is the interface for text-generation backends.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// NewGenerator is the factory for creating generation providers. It is a
// package-level variable so tests can replace it with a mock without
// modifying the call site. Tests must restore the original value; use
// t.Cleanup to do so safely.
var NewGenerator func(providerName, model string) (Generator, error) = defaultNewGenerator

// defaultNewGenerator dispatches to the appropriate provider implementation.
func defaultNewGenerator(providerName, model string) (Generator, error) {
	switch strings.ToLower(providerName) {
	case "ollama", "":
		return newOllamaGenerator("", model), nil
	case "anthropic":
		return newAnthropicGenerator(model)
	case "openai":
		return newOpenAIGenerator(model)
	case "google":
		return newGoogleGenerator(model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", providerName)
	}
}

// ── Anthropic provider ───────────────────────────────────────────────────────

// anthropicGenerator implements Generator using the Anthropic SDK.
// anthropic.Client is a value type; the SDK's NewClient returns it by value.
type anthropicGenerator struct {
	client anthropic.Client
	model  string
}

func newAnthropicGenerator(model string) (Generator, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: ANTHROPIC_API_KEY environment variable not set")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &anthropicGenerator{client: client, model: model}, nil
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages.new: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		// block.Type is a string field from the Anthropic API; "text" is the
		// only content type that carries assistant text output. The SDK does
		// not expose a typed constant for content block types in this version.
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("anthropic: response contained no text content blocks")
	}
	return strings.Join(parts, ""), nil
}
