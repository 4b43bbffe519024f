package vectordb

import (
	"context"
	"sort"

	"github.com/verisec/trustgate/internal/schema"
)

// DefaultNamespaces are queried when the caller names none. They mirror the
// two corpora the index is loaded with.
var DefaultNamespaces = []string{"nvd", "cisa_kev"}

// DefaultTopK is the match count returned when the caller gives none.
const DefaultTopK = 5

// Searcher embeds a query and fans it out across index namespaces. A failure
// in one namespace never aborts the others: partial results are expected and
// acceptable, and failed namespaces are reported back for logging.
type Searcher struct {
	embedder Embedder
	index    Index
}

// NewSearcher wires a searcher over an embedder and an index.
func NewSearcher(embedder Embedder, index Index) *Searcher {
	return &Searcher{embedder: embedder, index: index}
}

// Search embeds text once, queries every namespace, merges the hits by
// descending score, and truncates to topK. The returned map carries the error
// for each namespace that failed; it is empty when all namespaces answered.
// Search itself fails only when the embedding call fails, in which case the
// caller proceeds with an empty match set.
func (s *Searcher) Search(ctx context.Context, text string, topK int, namespaces []string) ([]schema.ThreatMatch, map[string]error, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(namespaces) == 0 {
		namespaces = DefaultNamespaces
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, nil, err
	}

	var all []Match
	failed := map[string]error{}
	for _, ns := range namespaces {
		matches, err := s.index.Query(ctx, vector, topK, ns)
		if err != nil {
			// Missing or unavailable namespaces shrink the result set,
			// nothing more.
			failed[ns] = err
			continue
		}
		all = append(all, matches...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if len(all) > topK {
		all = all[:topK]
	}

	out := make([]schema.ThreatMatch, 0, len(all))
	for _, m := range all {
		out = append(out, toThreatMatch(m))
	}
	return out, failed, nil
}

// toThreatMatch lifts an index hit into the decision engine's input shape.
// The ingest path stores the source document ID and chunk text as metadata;
// both are preferred over the raw vector ID when present.
func toThreatMatch(m Match) schema.ThreatMatch {
	id := m.ID
	if docID, ok := m.Metadata["doc_id"].(string); ok && docID != "" {
		id = docID
	}
	excerpt, _ := m.Metadata["chunk"].(string)
	return schema.ThreatMatch{ID: id, Score: m.Score, Excerpt: excerpt}
}
