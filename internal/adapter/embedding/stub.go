package embedding

import (
	"context"
	"math"
)

// StubEmbedder produces deterministic vectors from text bytes, no network
// involved. Similar texts map to nearby vectors, which is enough for tests
// and offline demos. Tests that need exact geometry can pin vectors for
// chosen texts with SetVector.
type StubEmbedder struct {
	dimension int
	pinned    map[string][]float32
}

func NewStubEmbedder(dimension int) *StubEmbedder {
	return &StubEmbedder{dimension: dimension}
}

// SetVector fixes the vector returned for text, overriding the derived one.
// The slice is copied on the way in and out, so later mutation on either
// side cannot change what the stub serves.
func (e *StubEmbedder) SetVector(text string, vec []float32) {
	if e.pinned == nil {
		e.pinned = make(map[string][]float32)
	}
	e.pinned[text] = append([]float32(nil), vec...)
}

func (e *StubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = e.vectorFor(texts[i])
	}
	return embeddings, nil
}

func (e *StubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.vectorFor(text), nil
}

func (e *StubEmbedder) vectorFor(text string) []float32 {
	if vec, ok := e.pinned[text]; ok {
		return append([]float32(nil), vec...)
	}

	vec := make([]float32, e.dimension)
	for i, r := range text {
		vec[i%e.dimension] += float32(r) / 1000.0
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if norm := math.Sqrt(sum); norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func (e *StubEmbedder) Dimension() int {
	return e.dimension
}

func (e *StubEmbedder) ModelName() string {
	return "stub"
}
