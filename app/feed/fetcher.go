package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "Headline Comb/1.0"

	maxFeedSize = 10 << 20
)

// Fetcher retrieves one feed and adapts it into raw items. A returned error
// means the source contributes nothing this cycle.
type Fetcher interface {
	Fetch(ctx context.Context, url, source, category string) ([]RawItem, error)
}

var _ Fetcher = (*HTTPFetcher)(nil)

type HTTPFetcher struct {
	client    *http.Client
	parser    *Parser
	userAgent string
	timeout   time.Duration
}

func NewHTTPFetcher(client *http.Client, parser *Parser, userAgent string, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	if parser == nil {
		parser = NewParser()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &HTTPFetcher{
		client:    client,
		parser:    parser,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// NewHTTPClient returns the shared transport used for feed and page fetches.
// Per-request deadlines come from contexts.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url, source, category string) ([]RawItem, error) {
	startTime := time.Now()

	data, err := f.fetchFeed(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	items, err := f.parser.Run(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("Feed fetched",
		"source", source,
		"category", category,
		"items", len(items),
		"duration", time.Since(startTime))

	return items, nil
}

func (f *HTTPFetcher) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "xml") && !strings.Contains(contentType, "rss") && !strings.Contains(contentType, "json") {
		slog.Debug("Unexpected feed content type", "url", url, "content_type", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}
