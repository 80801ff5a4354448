package usecase

import (
	"context"
	"fmt"
	"time"

	"policyrag/internal/adapter/retriever"
	"policyrag/internal/domain"
	"policyrag/internal/log"
	"policyrag/internal/port"
)

// IngestUseCase loads the policy corpus and builds the retrieval index.
type IngestUseCase struct {
	source    port.CorpusSource
	retriever *retriever.SemanticRetriever
	logger    log.Logger
}

// NewIngestUseCase creates a new ingest use case.
func NewIngestUseCase(
	source port.CorpusSource,
	retriever *retriever.SemanticRetriever,
	logger log.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		source:    source,
		retriever: retriever,
		logger:    logger,
	}
}

// IngestResult contains the results of an ingest operation.
type IngestResult struct {
	Sections  int
	Dimension int
	Elapsed   time.Duration
}

// Ingest loads the corpus, embeds it and publishes the index. On failure
// any previously published index keeps serving.
func (u *IngestUseCase) Ingest(ctx context.Context) (*IngestResult, error) {
	start := time.Now()

	docs, err := u.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: corpus source produced no sections", domain.ErrInvalidArgument)
	}
	u.logger.Info("corpus loaded", "sections", len(docs))

	if err := u.retriever.Initialize(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	stats := u.retriever.Stats()
	u.logger.Info("index ready",
		"sections", stats.Sections,
		"dimension", stats.Dimension,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &IngestResult{
		Sections:  stats.Sections,
		Dimension: stats.Dimension,
		Elapsed:   time.Since(start),
	}, nil
}
