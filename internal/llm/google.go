package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	googleoption "google.golang.org/api/option"
)

// googleGenerator implements Generator using the Google Generative AI SDK.
// The API key is stored at construction time; a new genai.Client is created
// per Generate call so that the caller's context governs the connection and
// the client is always closed after use.
type googleGenerator struct {
	apiKey string
	model  string
}

func newGoogleGenerator(model string) (Generator, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: GOOGLE_API_KEY environment variable not set")
	}
	return &googleGenerator{apiKey: apiKey, model: model}, nil
}

func (g *googleGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	client, err := genai.NewClient(ctx, googleoption.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("google: genai client: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(g.model)
	maxOut := int32(opts.MaxTokens)
	m.MaxOutputTokens = &maxOut
	temp32 := float32(opts.Temperature)
	m.Temperature = &temp32
	// Force JSON output mode to prevent the model from wrapping the response
	// in markdown code fences.
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("google: generate content: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("google: response contained no text content")
	}
	return strings.Join(parts, ""), nil
}
