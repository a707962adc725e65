package imaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ironsheep/colorthief/internal/palette"
	"github.com/ironsheep/colorthief/internal/version"
)

const (
	// DefaultTimeout bounds a single image fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps the size of a fetched or read image.
	DefaultMaxBytes = 64 << 20
)

// FetchOptions configures HTTP acquisition.
type FetchOptions struct {
	// Timeout for the whole request. If zero, DefaultTimeout is used.
	Timeout time.Duration

	// UserAgent overrides the default "colorthief/<version>" header.
	UserAgent string

	// Headers are added to every request (e.g. an Origin for CORS-aware hosts).
	Headers map[string]string

	// MaxBytes limits the response body. If zero, DefaultMaxBytes is used.
	MaxBytes int64
}

// fetch retrieves url. Every failure, including a non-OK status or an empty
// body, wraps palette.ErrAcquisition.
func fetch(ctx context.Context, client *http.Client, url string, opts FetchOptions) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", palette.ErrAcquisition, err)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = version.UserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "image/*")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", palette.ErrAcquisition, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d fetching %s", palette.ErrAcquisition, resp.StatusCode, url)
	}

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", palette.ErrAcquisition, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: response from %s exceeds %d bytes", palette.ErrAcquisition, url, limit)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", palette.ErrAcquisition, url)
	}

	return data, nil
}
