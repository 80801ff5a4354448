package port

import "context"

// Embedder turns text into fixed-dimension embedding vectors. Both methods
// must produce vectors of the same, provider-fixed dimension; callers treat
// the vector contents as opaque beyond supporting an inner product.
type Embedder interface {
	// EmbedBatch embeds every text in one provider call (the adapter may
	// chunk oversized batches internally). Returns one vector per input,
	// in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
