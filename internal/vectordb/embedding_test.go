package vectordb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/verisec/trustgate/internal/cache"
)

func TestOllamaEmbedder_Embed(t *testing.T) {
	var gotReq ollamaEmbedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %q, want /api/embeddings", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text")
	vec, err := e.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !reflect.DeepEqual(vec, []float64{0.1, 0.2, 0.3}) {
		t.Errorf("vector = %v", vec)
	}
	if gotReq.Model != "nomic-embed-text" || gotReq.Prompt != "some text" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "")
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestNewEmbedder_UnknownProvider(t *testing.T) {
	if _, err := NewEmbedder("pinecone", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestCachedEmbedder(t *testing.T) {
	inner := &fakeEmbedder{vector: []float64{1, 2}}
	c := cache.New(8, nil, nil)
	e := WithCache(inner, "test-model", c)

	first, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (second hit served from cache)", inner.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached vector %v differs from original %v", second, first)
	}

	if _, err := e.Embed(context.Background(), "other"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, distinct text must miss the cache", inner.calls)
	}
}

func TestCachedEmbedder_CorruptEntry(t *testing.T) {
	inner := &fakeEmbedder{vector: []float64{7}}
	c := cache.New(8, nil, nil)
	c.Put(cache.Key("m", "hello"), "not json")

	e := WithCache(inner, "m", c)
	vec, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !reflect.DeepEqual(vec, []float64{7}) {
		t.Errorf("vector = %v, want a fresh embed past the corrupt entry", vec)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}
