package llm

import (
	"context"

	"github.com/verisec/trustgate/internal/cache"
)

// CachedGenerator memoizes generation responses in a bounded cache keyed on
// model plus exact prompt text. Caching is an adapter-level optimization; the
// decision contract does not depend on it.
type CachedGenerator struct {
	gen   Generator
	model string
	cache *cache.Cache
}

// WithCache wraps gen with a response cache. The model identifier is part of
// the cache key so that switching models never replays a stale verdict.
func WithCache(gen Generator, model string, c *cache.Cache) *CachedGenerator {
	return &CachedGenerator{gen: gen, model: model, cache: c}
}

func (g *CachedGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	key := cache.Key(g.model, prompt)
	if v, ok := g.cache.Get(key); ok {
		return v, nil
	}
	out, err := g.gen.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	g.cache.Put(key, out)
	return out, nil
}
