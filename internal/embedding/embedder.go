// Package embedding turns insight texts into dense vectors for the semantic
// clustering and find-similar paths. The production embedder wraps an ONNX
// sentence-embedding model; when no model is configured the rest of the
// pipeline runs without embeddings.
package embedding

import "context"

// Embedder produces unit-length vector embeddings for insight texts.
// Implementations are safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds texts in order; the pipeline calls it once per run
	// with the whole deduplicated collection.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
