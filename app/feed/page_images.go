package feed

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/lysyi3m/headline-comb/app/cache"
)

const (
	DefaultPageTimeout  = 2500 * time.Millisecond
	DefaultPageImageTTL = 6 * time.Hour

	maxPageSize = 2 << 20
)

// ImageStore persists page image lookups across restarts. found is false
// when the page was never looked up or the record is stale.
type ImageStore interface {
	GetPageImage(pageURL string) (imageURL string, found bool, err error)
	SavePageImage(pageURL, imageURL string) error
}

var imageMetaSelectors = []string{
	`meta[property="og:image"]`,
	`meta[property="og:image:url"]`,
	`meta[property="og:image:secure_url"]`,
	`meta[name="og:image"]`,
	`meta[name="twitter:image"]`,
	`meta[name="twitter:image:src"]`,
	`meta[property="twitter:image"]`,
}

// imageCounter is implemented by stores that can report their size.
type imageCounter interface {
	Count() (int, error)
}

var _ PageImageLookup = (*PageImageFinder)(nil)

// PageImageFinder fetches article pages and scans them for og:image,
// twitter:image or a first inline image. Results, including misses, are
// memoized in the cache and optionally in a persistent store.
type PageImageFinder struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	cache     *cache.Cache
	ttl       time.Duration
	store     ImageStore
}

type PageImageOptions struct {
	Timeout   time.Duration
	UserAgent string
	// RatePerSecond bounds outbound page fetches; 0 means unlimited.
	RatePerSecond float64
	TTL           time.Duration
	Store         ImageStore
}

func NewPageImageFinder(client *http.Client, c *cache.Cache, opts PageImageOptions) *PageImageFinder {
	if client == nil {
		client = NewHTTPClient()
	}
	if c == nil {
		c = cache.New(DefaultPageImageTTL)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), max(1, int(opts.RatePerSecond)))
	}

	return &PageImageFinder{
		client:    client,
		userAgent: cmp.Or(opts.UserAgent, DefaultUserAgent),
		timeout:   cmp.Or(opts.Timeout, DefaultPageTimeout),
		limiter:   limiter,
		cache:     c,
		ttl:       cmp.Or(opts.TTL, DefaultPageImageTTL),
		store:     opts.Store,
	}
}

func (f *PageImageFinder) Find(ctx context.Context, pageURL string) string {
	pageURL = strings.TrimSpace(pageURL)
	if parseBase(pageURL) == nil {
		return ""
	}

	image, err := cache.Cached(ctx, f.cache, "og_"+pageURL, f.ttl, func(ctx context.Context) (string, error) {
		return f.lookup(ctx, pageURL)
	})
	if err != nil {
		slog.Debug("Page image lookup failed", "url", pageURL, "error", err)
		return ""
	}
	return image
}

func (f *PageImageFinder) Stats() map[string]interface{} {
	// 0 means unlimited, as in PageImageOptions
	rateLimit := 0.0
	if limit := f.limiter.Limit(); limit != rate.Inf {
		rateLimit = float64(limit)
	}

	stats := map[string]interface{}{
		"ttl":        f.ttl.String(),
		"rate_limit": rateLimit,
		"persistent": f.store != nil,
	}

	if counter, ok := f.store.(imageCounter); ok {
		if count, err := counter.Count(); err != nil {
			slog.Warn("Failed to count stored page images", "error", err)
		} else {
			stats["stored"] = count
		}
	}

	return stats
}

// lookup returns an error only for failures worth retrying later; those are
// neither memoized nor persisted.
func (f *PageImageFinder) lookup(ctx context.Context, pageURL string) (string, error) {
	if f.store != nil {
		image, found, err := f.store.GetPageImage(pageURL)
		if err != nil {
			slog.Warn("Failed to read stored page image", "url", pageURL, "error", err)
		} else if found {
			return image, nil
		}
	}

	image, err := f.fetchPageImage(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if f.store != nil {
		if err := f.store.SavePageImage(pageURL, image); err != nil {
			slog.Warn("Failed to store page image", "url", pageURL, "error", err)
		}
	}

	return image, nil
}

func (f *PageImageFinder) fetchPageImage(ctx context.Context, pageURL string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.limiter.Wait(timeoutCtx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	case resp.StatusCode != http.StatusOK:
		// a missing or forbidden page will not grow an image
		return "", nil
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	return ExtractPageImage(doc, parseBase(resp.Request.URL.String())), nil
}

// ExtractPageImage scans a parsed page for a representative image.
func ExtractPageImage(doc *goquery.Document, base *url.URL) string {
	for _, selector := range imageMetaSelectors {
		content := strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
		if image := absoluteURL(base, content); image != "" {
			return image
		}
	}

	return absoluteURL(base, firstImgSrc(doc.Selection))
}
