package news

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lysyi3m/headline-comb/app/cache"
	"github.com/lysyi3m/headline-comb/app/feed"
)

const (
	globalKey      = "global_news"
	categoryPrefix = "category_"
	localPrefix    = "local_"
)

type Options struct {
	Aggregate   feed.AggregateOptions
	CategoryTTL time.Duration
	LocalTTL    time.Duration
	SearchURL   string
}

// Service puts the process-wide TTL cache in front of the aggregation
// pipeline and serves the global, per-category and local views.
type Service struct {
	aggregator *feed.Aggregator
	cache      *cache.Cache
	pages      feed.PageImageLookup
	opts       Options
}

type LocalResult struct {
	Geo       feed.Geo        `json:"geo"`
	Query     string          `json:"query"`
	Locale    string          `json:"locale,omitempty"`
	Headlines []feed.Headline `json:"headlines"`
}

// NewService wires the service. pages may be nil, in which case FindImage
// always reports no image.
func NewService(aggregator *feed.Aggregator, c *cache.Cache, pages feed.PageImageLookup, opts Options) *Service {
	if c == nil {
		c = cache.New(cache.DefaultTTL)
	}
	opts.CategoryTTL = cmp.Or(opts.CategoryTTL, cache.DefaultTTL)
	opts.LocalTTL = cmp.Or(opts.LocalTTL, cache.DefaultTTL)
	opts.SearchURL = cmp.Or(opts.SearchURL, feed.DefaultSearchURL)

	return &Service{
		aggregator: aggregator,
		cache:      c,
		pages:      pages,
		opts:       opts,
	}
}

func (s *Service) Categories() []string {
	return s.aggregator.Registry().Categories()
}

// All returns every non-empty category. Category results are shared with
// Category, so a warm per-category cache makes this cheap.
func (s *Service) All(ctx context.Context) (feed.BucketedNews, error) {
	return cache.Cached(ctx, s.cache, globalKey, s.opts.CategoryTTL, func(ctx context.Context) (feed.BucketedNews, error) {
		return s.aggregator.AggregateAllFunc(ctx, s.Category)
	})
}

// Category returns the headlines of one registry category.
func (s *Service) Category(ctx context.Context, category string) ([]feed.Headline, error) {
	if !s.aggregator.Registry().Has(category) {
		return nil, fmt.Errorf("%w: %s", feed.ErrUnknownCategory, category)
	}

	return cache.Cached(ctx, s.cache, categoryPrefix+category, s.opts.CategoryTTL, func(ctx context.Context) ([]feed.Headline, error) {
		return s.aggregator.Aggregate(ctx, category, s.opts.Aggregate)
	})
}

// Refresh recomputes one category and overwrites its cache entry. The
// global view is dropped so that it is rebuilt from the fresh entry.
func (s *Service) Refresh(ctx context.Context, category string) error {
	if !s.aggregator.Registry().Has(category) {
		return fmt.Errorf("%w: %s", feed.ErrUnknownCategory, category)
	}

	headlines, err := s.aggregator.Aggregate(ctx, category, s.opts.Aggregate)
	if err != nil {
		return fmt.Errorf("failed to aggregate %s: %w", category, err)
	}

	s.cache.Set(categoryPrefix+category, headlines, s.opts.CategoryTTL)
	s.cache.Delete(globalKey)

	slog.Debug("Category refreshed", "category", category, "headlines", len(headlines))
	return nil
}

// Local returns headlines for a geo descriptor from the search feed. It
// only fails when ctx is done.
func (s *Service) Local(ctx context.Context, geo feed.Geo) (LocalResult, error) {
	query := feed.BuildQuery(geo)
	key := localPrefix + query.Query + "_" + cmp.Or(query.Locale, "NA")

	headlines, err := cache.Cached(ctx, s.cache, key, s.opts.LocalTTL, func(ctx context.Context) ([]feed.Headline, error) {
		entry := feed.FeedEntry{
			Source: feed.LocalSourceName(query.Locale),
			URL:    feed.SearchURL(s.opts.SearchURL, query),
		}
		// the search feed is already ranked by recency; no day window
		opts := s.opts.Aggregate
		opts.TimeWindow = false
		return s.aggregator.AggregateFeed(ctx, entry, feed.LocalCategory, opts)
	})
	if err != nil {
		return LocalResult{}, err
	}

	return LocalResult{
		Geo:       geo,
		Query:     query.Query,
		Locale:    query.Locale,
		Headlines: headlines,
	}, nil
}

// FindImage looks up the representative image of an article page.
func (s *Service) FindImage(ctx context.Context, pageURL string) string {
	if s.pages == nil {
		return ""
	}
	return s.pages.Find(ctx, strings.TrimSpace(pageURL))
}

func (s *Service) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"categories": len(s.Categories()),
		"feeds":      s.aggregator.Registry().FeedCount(),
		"cache":      s.cache.Stats(),
	}

	if pages, ok := s.pages.(interface{ Stats() map[string]interface{} }); ok {
		stats["page_images"] = pages.Stats()
	}

	return stats
}
