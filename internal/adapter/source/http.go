package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"policyrag/internal/domain"
)

const defaultMaxBytes = 32 << 20

// HTTPSource downloads a markdown corpus and splits it into sections.
type HTTPSource struct {
	url      string
	client   *http.Client
	maxBytes int64

	// OnProgress, when set, receives byte counts while the body downloads.
	// Total is -1 when the server does not announce a length.
	OnProgress func(written, total int64)
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:      url,
		client:   &http.Client{Timeout: 120 * time.Second},
		maxBytes: defaultMaxBytes,
	}
}

func (s *HTTPSource) Load(ctx context.Context) ([]domain.Document, error) {
	text, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return SectionsToDocuments(SplitSections(text)), nil
}

// Fetch returns the raw document body.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch corpus: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch corpus: status %d from %s", resp.StatusCode, s.url)
	}

	var reader io.Reader = io.LimitReader(resp.Body, s.maxBytes+1)
	if s.OnProgress != nil {
		pw := &progressWriter{total: resp.ContentLength, onProgress: s.OnProgress}
		reader = io.TeeReader(reader, pw)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("read corpus: %w", err)
	}
	if int64(buf.Len()) > s.maxBytes {
		return "", fmt.Errorf("corpus exceeds %d bytes", s.maxBytes)
	}
	return buf.String(), nil
}

type progressWriter struct {
	total      int64
	written    int64
	onProgress func(written, total int64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	w.onProgress(w.written, w.total)
	return len(p), nil
}
