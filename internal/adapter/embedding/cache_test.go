package embedding

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestCache(t *testing.T) *BoltCache {
	t.Helper()
	cache, err := OpenBoltCache(filepath.Join(t.TempDir(), "embeddings.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

type countingEmbedder struct {
	inner      *StubEmbedder
	batchCalls int
	batchTexts []string
	queryCalls int
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	c.batchTexts = append([]string(nil), texts...)
	return c.inner.EmbedBatch(ctx, texts)
}

func (c *countingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	c.queryCalls++
	return c.inner.EmbedQuery(ctx, text)
}

func (c *countingEmbedder) Dimension() int { return c.inner.Dimension() }

func (c *countingEmbedder) ModelName() string { return "counting" }

func TestBoltCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	if _, ok := cache.Get("m", "hello"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := []float32{0.1, 0.2, 0.3}
	if err := cache.Put("m", "hello", want); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok := cache.Get("m", "hello")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, ok := cache.Get("other-model", "hello"); ok {
		t.Error("cache hit across models")
	}
}

func TestBoltCachePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")

	cache, err := OpenBoltCache(path)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	want := []float32{0.5, -0.25}
	if err := cache.Put("m", "carry-on rules", want); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := OpenBoltCache(path)
	if err != nil {
		t.Fatalf("reopen cache: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.Get("m", "carry-on rules")
	if !ok {
		t.Fatal("expected hit after reopen")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBoltCachePutBatch(t *testing.T) {
	cache := newTestCache(t)

	texts := []string{"a", "b", "c"}
	vecs := [][]float32{{1}, {2}, {3}}
	if err := cache.PutBatch("m", texts, vecs); err != nil {
		t.Fatalf("put batch failed: %v", err)
	}

	n, err := cache.Len()
	if err != nil {
		t.Fatalf("len failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 entries, got %d", n)
	}

	for i, text := range texts {
		got, ok := cache.Get("m", text)
		if !ok {
			t.Fatalf("expected hit for %q", text)
		}
		if !reflect.DeepEqual(got, vecs[i]) {
			t.Errorf("%q: got %v, want %v", text, got, vecs[i])
		}
	}
}

func TestCachedEmbedderAvoidsRepeatEmbedding(t *testing.T) {
	cache := newTestCache(t)
	counting := &countingEmbedder{inner: NewStubEmbedder(8)}
	cached := NewCachedEmbedder(counting, cache)

	texts := []string{"seat upgrades", "refund rules", "baggage allowance"}
	first, err := cached.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("embed batch failed: %v", err)
	}
	if counting.batchCalls != 1 {
		t.Fatalf("expected 1 provider call, got %d", counting.batchCalls)
	}

	second, err := cached.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("cached embed batch failed: %v", err)
	}
	if counting.batchCalls != 1 {
		t.Errorf("provider called again for cached texts: %d calls", counting.batchCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached vectors differ from provider vectors")
	}
}

func TestCachedEmbedderEmbedsOnlyMissing(t *testing.T) {
	cache := newTestCache(t)
	counting := &countingEmbedder{inner: NewStubEmbedder(8)}
	cached := NewCachedEmbedder(counting, cache)

	if _, err := cached.EmbedBatch(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("embed batch failed: %v", err)
	}

	vecs, err := cached.EmbedBatch(context.Background(), []string{"b", "c"})
	if err != nil {
		t.Fatalf("embed batch failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if !reflect.DeepEqual(counting.batchTexts, []string{"c"}) {
		t.Errorf("expected only missing text to reach provider, got %v", counting.batchTexts)
	}
}

func TestCachedEmbedderQuery(t *testing.T) {
	cache := newTestCache(t)
	counting := &countingEmbedder{inner: NewStubEmbedder(8)}
	cached := NewCachedEmbedder(counting, cache)

	first, err := cached.EmbedQuery(context.Background(), "how do refunds work")
	if err != nil {
		t.Fatalf("embed query failed: %v", err)
	}
	second, err := cached.EmbedQuery(context.Background(), "how do refunds work")
	if err != nil {
		t.Fatalf("cached embed query failed: %v", err)
	}
	if counting.queryCalls != 1 {
		t.Errorf("expected 1 provider call, got %d", counting.queryCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached query vector differs")
	}

	// A later batch containing the same text is also served from cache.
	if _, err := cached.EmbedBatch(context.Background(), []string{"how do refunds work"}); err != nil {
		t.Fatalf("embed batch failed: %v", err)
	}
	if counting.batchCalls != 0 {
		t.Errorf("expected no batch call, got %d", counting.batchCalls)
	}
}

func TestCachedEmbedderPassthrough(t *testing.T) {
	cache := newTestCache(t)
	cached := NewCachedEmbedder(&countingEmbedder{inner: NewStubEmbedder(8)}, cache)

	if cached.Dimension() != 8 {
		t.Errorf("dimension = %d, want 8", cached.Dimension())
	}
	if cached.ModelName() != "counting" {
		t.Errorf("model name = %s, want counting", cached.ModelName())
	}
}
