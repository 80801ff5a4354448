package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"policyrag/internal/domain"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) *OpenAIEmbedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("POLICYRAG_TEST_KEY", "sk-test")
	e, err := NewOpenAICompatibleEmbedder("openai", "POLICYRAG_TEST_KEY", "text-embedding-3-small", srv.URL)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	return e
}

func TestEmbedRequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq embeddingRequest

	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Index: 0, Embedding: []float32{0.1, 0.2}}},
		})
	})

	vec, err := e.EmbedQuery(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embed query failed: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("expected 2 components, got %d", len(vec))
	}
	if gotPath != "/embeddings" {
		t.Errorf("expected /embeddings path, got %s", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected authorization header: %s", gotAuth)
	}
	if gotReq.Model != "text-embedding-3-small" {
		t.Errorf("unexpected model: %s", gotReq.Model)
	}
	if len(gotReq.Input) != 1 || gotReq.Input[0] != "hello" {
		t.Errorf("unexpected input: %v", gotReq.Input)
	}
}

func TestEmbedBatchReassemblesByIndex(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)

		// Respond in reverse order; the client must restore input order.
		var resp embeddingResponse
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, embeddingData{
				Index:     i,
				Embedding: []float32{float32(i), 1},
			})
		}
		json.NewEncoder(w).Encode(resp)
	})

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("embed batch failed: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	for i, vec := range vecs {
		if vec[0] != float32(i) {
			t.Errorf("vector %d out of order: %v", i, vec)
		}
	}
}

func TestEmbedBatchSplitsLargeInput(t *testing.T) {
	var batchSizes []int

	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		batchSizes = append(batchSizes, len(req.Input))

		var resp embeddingResponse
		for i := range req.Input {
			resp.Data = append(resp.Data, embeddingData{Index: i, Embedding: []float32{1}})
		}
		json.NewEncoder(w).Encode(resp)
	})
	e.batchSize = 2

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("embed batch failed: %v", err)
	}
	if len(vecs) != 5 {
		t.Errorf("expected 5 vectors, got %d", len(vecs))
	}
	if len(batchSizes) != 3 || batchSizes[0] != 2 || batchSizes[1] != 2 || batchSizes[2] != 1 {
		t.Errorf("expected batches of 2, 2, 1, got %v", batchSizes)
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty input")
	})

	vecs, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vecs != nil {
		t.Errorf("expected nil, got %v", vecs)
	}
}

func TestEmbedServerError(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	_, err := e.EmbedBatch(context.Background(), []string{"a"})
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", provErr.Provider)
	}
}

func TestEmbedAPIError(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{
			Error: &apiError{Message: "model not found", Type: "invalid_request_error"},
		})
	})

	_, err := e.EmbedQuery(context.Background(), "q")
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestEmbedMissingVector(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		// Two inputs, one embedding in the response.
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Index: 0, Embedding: []float32{1}}},
		})
	})

	_, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

func TestEmbedContextCancelled(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EmbedQuery(ctx, "q")
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestConstructorRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedder("POLICYRAG_UNSET_KEY", "text-embedding-3-small")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestModelDimensions(t *testing.T) {
	t.Setenv("POLICYRAG_TEST_KEY", "sk-test")

	cases := []struct {
		model string
		dim   int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"text-embedding-ada-002", 1536},
		{"unknown-model", 1536},
	}
	for _, tc := range cases {
		e, err := NewOpenAIEmbedder("POLICYRAG_TEST_KEY", tc.model)
		if err != nil {
			t.Fatalf("constructor failed: %v", err)
		}
		if e.Dimension() != tc.dim {
			t.Errorf("%s: dimension = %d, want %d", tc.model, e.Dimension(), tc.dim)
		}
		if e.ModelName() != tc.model {
			t.Errorf("model name = %s, want %s", e.ModelName(), tc.model)
		}
	}

	ollama, err := NewOllamaEmbedder("mxbai-embed-large", "")
	if err != nil {
		t.Fatalf("ollama constructor failed: %v", err)
	}
	if ollama.Dimension() != 1024 {
		t.Errorf("mxbai-embed-large: dimension = %d, want 1024", ollama.Dimension())
	}
}
