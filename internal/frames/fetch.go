// internal/frames/fetch.go
package frames

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// browserUserAgent mimics a desktop browser; video CDNs commonly refuse
// the Go default agent.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// HTTPFetcher downloads videos over HTTP, streamed to disk.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given transfer timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Download streams the URL to dest. A non-2xx status or a zero-byte body
// is a fetch failure; dest is removed on any failure.
func (f *HTTPFetcher) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP error: status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}

	n, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("stream video to disk: %w", err)
	}
	if n == 0 {
		os.Remove(dest)
		return fmt.Errorf("empty response body")
	}
	return nil
}
