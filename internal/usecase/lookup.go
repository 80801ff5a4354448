package usecase

import (
	"context"
	"strings"

	"policyrag/internal/domain"
	"policyrag/internal/port"
)

// DefaultLookupK is how many sections the lookup tool folds into its answer.
const DefaultLookupK = 2

// LookupUseCase exposes retrieval as a single-string tool suitable for
// handing to an agent. Structured results stay available via LookupDocs.
type LookupUseCase struct {
	retriever port.Retriever
	k         int
}

// NewLookupUseCase creates a new lookup use case. A non-positive k falls
// back to DefaultLookupK.
func NewLookupUseCase(retriever port.Retriever, k int) *LookupUseCase {
	if k <= 0 {
		k = DefaultLookupK
	}
	return &LookupUseCase{
		retriever: retriever,
		k:         k,
	}
}

// Lookup returns the most relevant policy sections joined into one string.
func (u *LookupUseCase) Lookup(ctx context.Context, query string) (string, error) {
	results, err := u.LookupDocs(ctx, query)
	if err != nil {
		return "", err
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	return strings.Join(contents, "\n\n"), nil
}

// LookupDocs returns the ranked results behind Lookup.
func (u *LookupUseCase) LookupDocs(ctx context.Context, query string) ([]domain.RankedResult, error) {
	return u.retriever.Query(ctx, query, u.k)
}
