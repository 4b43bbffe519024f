package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Match is one ranked similarity hit returned by the index.
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Vector is one embedded chunk for upsert.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float64      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Index is the similarity-search capability. Queries are issued per
// namespace; the searcher decides what to do with per-namespace failures.
type Index interface {
	Query(ctx context.Context, vector []float64, topK int, namespace string) ([]Match, error)
	Upsert(ctx context.Context, vectors []Vector, namespace string) error
}

// HTTPIndex talks to a Pinecone-style vector index over its REST API.
type HTTPIndex struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPIndex builds an index client for the given endpoint. The API key is
// sent on every request.
func NewHTTPIndex(endpoint, apiKey string) *HTTPIndex {
	return &HTTPIndex{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type queryRequest struct {
	Vector          []float64 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

func (x *HTTPIndex) Query(ctx context.Context, vector []float64, topK int, namespace string) ([]Match, error) {
	var resp queryResponse
	err := x.post(ctx, "/query", queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("vectordb: query namespace %q: %w", namespace, err)
	}
	return resp.Matches, nil
}

type upsertRequest struct {
	Vectors   []Vector `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

func (x *HTTPIndex) Upsert(ctx context.Context, vectors []Vector, namespace string) error {
	if err := x.post(ctx, "/vectors/upsert", upsertRequest{Vectors: vectors, Namespace: namespace}, nil); err != nil {
		return fmt.Errorf("vectordb: upsert namespace %q: %w", namespace, err)
	}
	return nil
}

func (x *HTTPIndex) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", x.apiKey)

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
