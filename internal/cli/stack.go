package cli

import (
	"fmt"
	"os"

	"policyrag/config"
	"policyrag/internal/adapter/embedding"
	"policyrag/internal/adapter/retriever"
	"policyrag/internal/adapter/source"
	"policyrag/internal/log"
	"policyrag/internal/port"
	"policyrag/internal/usecase"
)

// stack wires the embedder, retriever and corpus source for one command
// invocation. Close releases the embedding cache if one was opened.
type stack struct {
	Embedder  port.Embedder
	Retriever *retriever.SemanticRetriever
	Source    port.CorpusSource
	Ingest    *usecase.IngestUseCase

	cache *embedding.BoltCache
}

func buildStack(rootDir string, cfg *config.Config) (*stack, error) {
	logger := log.New(log.Config{Level: log.ParseLevel(cfg.Logging.Level)})

	embedder, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	s := &stack{Embedder: embedder}

	if cfg.Embedding.Cache && cfg.Embedding.Provider != "stub" {
		if err := config.EnsureWorkDir(rootDir); err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}
		cache, err := embedding.OpenBoltCache(config.CachePath(rootDir))
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
		s.cache = cache
		s.Embedder = embedding.NewCachedEmbedder(embedder, cache)
	}

	var opts []retriever.Option
	switch cfg.Retrieve.Metric {
	case "", "dot":
	case "cosine":
		opts = append(opts, retriever.WithCosineSimilarity())
	default:
		s.Close()
		return nil, fmt.Errorf("unknown similarity metric: %q", cfg.Retrieve.Metric)
	}

	s.Retriever = retriever.NewSemanticRetriever(s.Embedder, opts...)
	s.Source = corpusSource(rootDir, cfg)
	s.Ingest = usecase.NewIngestUseCase(s.Source, s.Retriever, logger)
	return s, nil
}

// corpusSource prefers an explicitly configured local path, then a corpus
// saved by a previous fetch, and falls back to downloading.
func corpusSource(rootDir string, cfg *config.Config) port.CorpusSource {
	if cfg.Source.Path != "" {
		return source.NewFileSource(cfg.Source.Path, cfg.Source.Includes, cfg.Source.Excludes)
	}
	if local := config.CorpusPath(rootDir); fileExists(local) {
		return source.NewFileSource(local, nil, nil)
	}
	return source.NewHTTPSource(cfg.Source.URL)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *stack) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
