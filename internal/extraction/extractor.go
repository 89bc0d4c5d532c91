// Package extraction wraps the external document-text extraction
// service. The service is opaque: it either returns the document's text
// or fails with a descriptive error; nothing downstream inspects the
// document itself.
package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Extractor interface {
	Extract(ctx context.Context, document []byte, contentType string) (string, error)
}

// HTTPExtractor posts the raw document to an extraction endpoint (e.g. a
// Tika-style service) and returns the plain-text response body.
type HTTPExtractor struct {
	endpoint string
	client   *http.Client
}

func NewHTTPExtractor(endpoint string) *HTTPExtractor {
	return &HTTPExtractor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, document []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.endpoint, bytes.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read extraction response: %w", err)
	}
	return string(bytes.TrimSpace(text)), nil
}
