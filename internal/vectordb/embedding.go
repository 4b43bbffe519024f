// Package vectordb provides the embedding and similarity-index capabilities:
// embedder implementations, an HTTP index client, the namespace fan-out
// searcher, and the document ingest path.
package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/verisec/trustgate/internal/cache"
)

// Embedder converts text into a vector. Implementations may be slow,
// rate-limited, and fallible; callers bound each call with a context
// deadline.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// embedTimeout bounds one embedding call. Embedding is fast relative to
// generation, so the cap is short.
const embedTimeout = 30 * time.Second

// ── Ollama embedder ──────────────────────────────────────────────────────────

// OllamaEmbedder generates embeddings from a local Ollama server.
type OllamaEmbedder struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewOllamaEmbedder builds the default embedder. Empty arguments fall back
// to OLLAMA_URL / localhost and the nomic embedding model.
func NewOllamaEmbedder(endpoint, model string) *OllamaEmbedder {
	if endpoint == "" {
		endpoint = os.Getenv("OLLAMA_URL")
	}
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaEmbedder{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: embedTimeout},
	}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama: embed returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ollama: decode embed response: %w", err)
	}
	return result.Embedding, nil
}

// ── OpenAI embedder ──────────────────────────────────────────────────────────

// OpenAIEmbedder generates embeddings through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client openai.EmbeddingService
	model  string
}

func NewOpenAIEmbedder(model string) (*OpenAIEmbedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("vectordb: OPENAI_API_KEY environment variable not set")
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{
		client: openai.NewEmbeddingService(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	res, err := e.client.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create embedding: %w", err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("openai: embedding response contained no data")
	}
	return res.Data[0].Embedding, nil
}

// ── Embedder factory ─────────────────────────────────────────────────────────

// NewEmbedder is the factory for embedding backends, a package-level variable
// so tests can swap in a mock. Tests must restore the original value.
var NewEmbedder func(providerName, model string) (Embedder, error) = defaultNewEmbedder

func defaultNewEmbedder(providerName, model string) (Embedder, error) {
	switch providerName {
	case "ollama", "":
		return NewOllamaEmbedder("", model), nil
	case "openai":
		return NewOpenAIEmbedder(model)
	default:
		return nil, fmt.Errorf("vectordb: unknown embedding provider %q", providerName)
	}
}

// ── Cached embedder ──────────────────────────────────────────────────────────

// CachedEmbedder memoizes embeddings in a bounded cache keyed on model plus
// exact input text. Vectors are stored JSON-encoded.
type CachedEmbedder struct {
	embedder Embedder
	model    string
	cache    *cache.Cache
}

// WithCache wraps embedder with a response cache.
func WithCache(embedder Embedder, model string, c *cache.Cache) *CachedEmbedder {
	return &CachedEmbedder{embedder: embedder, model: model, cache: c}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := cache.Key(e.model, text)
	if v, ok := e.cache.Get(key); ok {
		var vec []float64
		if err := json.Unmarshal([]byte(v), &vec); err == nil {
			return vec, nil
		}
		// A corrupt cached value falls through to a fresh embed.
	}

	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(vec); err == nil {
		e.cache.Put(key, string(encoded))
	}
	return vec, nil
}
