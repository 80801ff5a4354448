package retriever

import (
	"context"
	"fmt"
	"math"
	"sync"

	"policyrag/internal/domain"
	"policyrag/internal/port"
)

// SemanticRetriever answers queries by inner-product similarity against an
// in-memory embedding matrix. It starts empty; Initialize embeds a corpus
// and publishes it atomically, so readers either see the previous corpus or
// the new one, never a partial state.
type SemanticRetriever struct {
	embedder  port.Embedder
	normalize bool

	mu  sync.RWMutex
	idx *index
}

// index is one published corpus snapshot. Immutable after publication;
// concurrent queries share it without further locking.
type index struct {
	docs []domain.Document
	rows [][]float32
	dim  int
}

type Option func(*SemanticRetriever)

// WithCosineSimilarity scores by cosine similarity instead of the raw inner
// product: corpus rows are unit-normalized at initialization and the query
// vector at query time. Zero vectors are left untouched and score zero
// against everything.
func WithCosineSimilarity() Option {
	return func(r *SemanticRetriever) {
		r.normalize = true
	}
}

func NewSemanticRetriever(embedder port.Embedder, opts ...Option) *SemanticRetriever {
	r := &SemanticRetriever{embedder: embedder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ port.Retriever = (*SemanticRetriever)(nil)

// Initialize embeds docs in one batch and replaces the published corpus.
// On any failure the previously published corpus, if any, stays in place.
func (r *SemanticRetriever) Initialize(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: corpus is empty", domain.ErrInvalidArgument)
	}

	corpus := append([]domain.Document(nil), docs...)
	texts := make([]string, len(corpus))
	for i, doc := range corpus {
		texts[i] = doc.Content
	}

	// Embedding happens outside the lock; queries keep serving the old
	// corpus until the swap below.
	rows, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed corpus: %w", err)
	}

	next, err := r.buildIndex(corpus, rows)
	if err != nil {
		return err
	}
	if r.normalize {
		for _, row := range next.rows {
			unitNormalize(row)
		}
	}

	r.mu.Lock()
	r.idx = next
	r.mu.Unlock()
	return nil
}

// Query embeds text and returns the min(k, corpus size) most similar
// sections, ordered by descending similarity with ties broken by corpus
// position.
func (r *SemanticRetriever) Query(ctx context.Context, text string, k int) ([]domain.RankedResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidArgument, k)
	}

	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()
	if idx == nil {
		return nil, domain.ErrNotInitialized
	}

	query, err := r.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(query) != idx.dim {
		return nil, &domain.ProviderError{
			Provider: r.embedder.ModelName(),
			Op:       "embed query",
			Err:      fmt.Errorf("vector has dimension %d, index has %d", len(query), idx.dim),
		}
	}
	if r.normalize {
		unitNormalize(query)
	}

	scores := make([]float64, len(idx.rows))
	for i, row := range idx.rows {
		scores[i] = dot(query, row)
	}

	results := make([]domain.RankedResult, 0, min(k, len(scores)))
	for _, i := range topKIndices(scores, k) {
		results = append(results, domain.RankedResult{
			Content:    idx.docs[i].Content,
			Similarity: scores[i],
		})
	}
	return results, nil
}

// Ready reports whether a corpus has been published.
func (r *SemanticRetriever) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idx != nil
}

// Stats describes the published corpus; zero values before initialization.
func (r *SemanticRetriever) Stats() domain.CorpusStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.idx == nil {
		return domain.CorpusStats{}
	}
	return domain.CorpusStats{Sections: len(r.idx.docs), Dimension: r.idx.dim}
}

func (r *SemanticRetriever) buildIndex(docs []domain.Document, rows [][]float32) (*index, error) {
	if len(rows) != len(docs) {
		return nil, &domain.ProviderError{
			Provider: r.embedder.ModelName(),
			Op:       "embed corpus",
			Err:      fmt.Errorf("got %d vectors for %d sections", len(rows), len(docs)),
		}
	}
	dim := len(rows[0])
	for i, row := range rows {
		if len(row) == 0 || len(row) != dim {
			return nil, &domain.ProviderError{
				Provider: r.embedder.ModelName(),
				Op:       "embed corpus",
				Err:      fmt.Errorf("vector %d has dimension %d, expected %d", i, len(row), dim),
			}
		}
	}
	return &index{docs: docs, rows: rows, dim: dim}, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func unitNormalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
