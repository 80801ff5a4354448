package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"policyrag/internal/domain"
	"policyrag/internal/port"
)

var bucketVectors = []byte("vectors")

// BoltCache persists embedding vectors on disk, keyed by model and text.
// Re-ingesting an unchanged corpus then costs no provider calls.
type BoltCache struct {
	db *bbolt.DB
}

func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVectors)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltCache{db: db}, nil
}

func cacheKey(model, text string) []byte {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return []byte(hex.EncodeToString(sum[:16]))
}

func (c *BoltCache) Get(model, text string) ([]float32, bool) {
	var vec []float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketVectors).Get(cacheKey(model, text))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &vec)
	})
	if err != nil || vec == nil {
		return nil, false
	}
	return vec, true
}

func (c *BoltCache) Put(model, text string, vec []float32) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(vec)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketVectors).Put(cacheKey(model, text), data)
	})
}

// PutBatch stores many vectors in a single transaction.
func (c *BoltCache) PutBatch(model string, texts []string, vecs [][]float32) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		for i, text := range texts {
			data, err := json.Marshal(vecs[i])
			if err != nil {
				return err
			}
			if err := b.Put(cacheKey(model, text), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *BoltCache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketVectors).Stats().KeyN
		return nil
	})
	return n, err
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

// CachedEmbedder wraps another embedder with a BoltCache. Only texts absent
// from the cache reach the provider; cache writes are best effort and never
// fail an embedding call.
type CachedEmbedder struct {
	inner port.Embedder
	cache *BoltCache
}

func NewCachedEmbedder(inner port.Embedder, cache *BoltCache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	model := e.inner.ModelName()
	out := make([][]float32, len(texts))

	var missing []string
	var missingAt []int
	for i, text := range texts {
		if vec, ok := e.cache.Get(model, text); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		missingAt = append(missingAt, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := e.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, &domain.ProviderError{
			Provider: model,
			Op:       "embed",
			Err:      fmt.Errorf("got %d vectors for %d texts", len(vecs), len(missing)),
		}
	}

	for i, vec := range vecs {
		out[missingAt[i]] = vec
	}
	_ = e.cache.PutBatch(model, missing, vecs)

	return out, nil
}

func (e *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	model := e.inner.ModelName()
	if vec, ok := e.cache.Get(model, text); ok {
		return vec, nil
	}

	vec, err := e.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	_ = e.cache.Put(model, text, vec)

	return vec, nil
}

func (e *CachedEmbedder) Dimension() int {
	return e.inner.Dimension()
}

func (e *CachedEmbedder) ModelName() string {
	return e.inner.ModelName()
}
