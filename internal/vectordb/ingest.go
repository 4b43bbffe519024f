package vectordb

import (
	"context"
	"fmt"
)

// Doc is one document submitted for ingestion.
type Doc struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Meta      map[string]any `json:"meta,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
}

// chunkSize is the character count per ingested chunk.
const chunkSize = 500

// ChunkText splits text into fixed-size character chunks.
func ChunkText(text string, size int) []string {
	if size <= 0 {
		size = chunkSize
	}
	var chunks []string
	for i := 0; i < len(text); i += size {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}

// Ingest chunks each document, embeds every chunk, and upserts the vectors
// into the given namespace. Chunk IDs are "{doc_id}_chunk_{i}" and metadata
// carries the source document ID, the chunk text, and the chunk index, plus
// any caller-supplied metadata.
func Ingest(ctx context.Context, embedder Embedder, index Index, docs []Doc, namespace string) error {
	if namespace == "" {
		namespace = "default"
	}

	var vectors []Vector
	for _, doc := range docs {
		for i, chunk := range ChunkText(doc.Text, chunkSize) {
			embedding, err := embedder.Embed(ctx, chunk)
			if err != nil {
				return fmt.Errorf("vectordb: embed chunk %d of doc %q: %w", i, doc.ID, err)
			}

			metadata := map[string]any{
				"doc_id":      doc.ID,
				"chunk":       chunk,
				"chunk_index": i,
			}
			for k, v := range doc.Meta {
				metadata[k] = v
			}

			vectors = append(vectors, Vector{
				ID:       fmt.Sprintf("%s_chunk_%d", doc.ID, i),
				Values:   embedding,
				Metadata: metadata,
			})
		}
	}

	if len(vectors) == 0 {
		return nil
	}
	return index.Upsert(ctx, vectors, namespace)
}
