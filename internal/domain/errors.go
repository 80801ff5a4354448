package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by Query on a retriever that has never
	// published an index. A forgotten Initialize is a usage bug, so this is
	// an error rather than an empty result.
	ErrNotInitialized = errors.New("retriever not initialized")

	// ErrInvalidArgument covers caller mistakes: k < 1, or an empty corpus
	// passed to Initialize.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ProviderError reports a failure of the embedding provider: network or
// auth errors, a malformed response, or vectors whose shape contradicts the
// provider contract. The retriever surfaces these unchanged and never
// retries; retry policy belongs to the provider side.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
