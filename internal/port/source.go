package port

import (
	"context"

	"policyrag/internal/domain"
)

// CorpusSource supplies the already-split policy sections to index. The
// retriever never fetches or splits text itself; acquisition lives behind
// this port.
type CorpusSource interface {
	Load(ctx context.Context) ([]domain.Document, error)
}
