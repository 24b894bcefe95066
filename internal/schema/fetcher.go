package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jacoelho/jx/internal/ratelimit"
)

// ErrFetch indicates a remote schema could not be retrieved.
var ErrFetch = errors.New("schema: fetch failed")

// maxSchemaSize bounds how much of a remote response is read.
const maxSchemaSize = 4 << 20

// Fetcher retrieves remote schema content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches schemas over HTTP(S), throttled by a rate limiter.
type HTTPFetcher struct {
	client  *http.Client
	limiter *ratelimit.Limiter
}

// NewHTTPFetcher returns a fetcher with the given request timeout and rate
// limit (0 for unlimited).
func NewHTTPFetcher(timeout time.Duration, requestsPerSecond float64) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: ratelimit.New(requestsPerSecond),
	}
}

// Fetch retrieves url, waiting out the rate limit first.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", ErrFetch, url, resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxSchemaSize))
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrFetch, url, err)
	}
	return string(payload), nil
}
