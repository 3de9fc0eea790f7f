// internal/media/resolver.go
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const maxCaptionChars = 280

// Resolver turns a media reference into the URL/caption pair recorded in
// the analysis bundle. Captions missing from the reference itself are
// recovered best-effort from the share page.
type Resolver struct {
	client *http.Client
}

// NewResolver creates a Resolver with a bounded HTTP timeout.
func NewResolver() *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// ResolveURL returns the best video URL candidate, falling back to the
// permalink when no direct URL is known. A reference without any URL
// yields ""; the extractor treats that as nothing to fetch.
func ResolveURL(urls []string, permalink string) string {
	for _, u := range urls {
		if u != "" {
			return u
		}
	}
	return permalink
}

// Caption returns the reference caption, recovering one from the share
// page when the reference carries none. Page fetch failures degrade to an
// empty caption; a caption is never load-bearing for the pipeline.
func (r *Resolver) Caption(ctx context.Context, caption, permalink string) string {
	if caption != "" || permalink == "" {
		return caption
	}
	recovered, err := r.pageCaption(ctx, permalink)
	if err != nil {
		slog.Debug("caption recovery failed", "permalink", permalink, "error", err)
		return ""
	}
	return recovered
}

// pageCaption fetches the share page and converts it to markdown, keeping
// the first non-empty text line as the caption excerpt.
func (r *Resolver) pageCaption(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch share page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "#*>- "))
		if line == "" {
			continue
		}
		if runes := []rune(line); len(runes) > maxCaptionChars {
			line = string(runes[:maxCaptionChars])
		}
		return line, nil
	}
	return "", nil
}

// browserUserAgent mimics a desktop browser; some CDNs refuse the Go
// default agent.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
