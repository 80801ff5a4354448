package port

import (
	"context"

	"policyrag/internal/domain"
)

// Retriever answers top-k similarity queries against an indexed corpus.
type Retriever interface {
	// Query returns the k most similar sections, best first. k is clamped
	// to the corpus size; querying before an index is published fails with
	// domain.ErrNotInitialized.
	Query(ctx context.Context, text string, k int) ([]domain.RankedResult, error)
}
