package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type AggregateOptions struct {
	// TimeWindow keeps only headlines dated today or yesterday.
	TimeWindow bool
	// StripFluff drops filler words from dedupe keys.
	StripFluff bool
}

func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{TimeWindow: true, StripFluff: true}
}

// Aggregator fans feed fetches out per category and folds the results into
// one deduplicated headline list. Source failures never surface as errors.
type Aggregator struct {
	registry   *Registry
	fetcher    Fetcher
	normalizer *Normalizer
	window     *TimeWindow
}

func NewAggregator(registry *Registry, fetcher Fetcher, normalizer *Normalizer, window *TimeWindow) *Aggregator {
	if normalizer == nil {
		normalizer = NewNormalizer(nil, true)
	}
	if window == nil {
		window = NewTimeWindow(nil, nil)
	}
	return &Aggregator{
		registry:   registry,
		fetcher:    fetcher,
		normalizer: normalizer,
		window:     window,
	}
}

func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// Aggregate returns the merged headlines for one category. A category with
// no feeds, or whose feeds all fail, yields an empty list. The error is only
// set when ctx is done.
func (a *Aggregator) Aggregate(ctx context.Context, category string, opts AggregateOptions) ([]Headline, error) {
	entries := a.registry.Feeds(category)
	if len(entries) == 0 {
		return []Headline{}, nil
	}

	startTime := time.Now()

	// one slot per feed keeps the concatenation order independent of
	// completion order
	slots := make([][]Headline, len(entries))

	var g errgroup.Group
	for i, entry := range entries {
		g.Go(func() error {
			slots[i] = a.collect(ctx, entry, category)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var combined []Headline
	for _, slot := range slots {
		combined = append(combined, slot...)
	}

	headlines := a.finish(combined, opts)

	slog.Debug("Category aggregated",
		"category", category,
		"feeds", len(entries),
		"items", len(combined),
		"headlines", len(headlines),
		"duration", time.Since(startTime))

	return headlines, nil
}

// AggregateAll runs Aggregate for every registry category concurrently and
// omits categories with no headlines.
func (a *Aggregator) AggregateAll(ctx context.Context, opts AggregateOptions) (BucketedNews, error) {
	return a.AggregateAllFunc(ctx, func(ctx context.Context, category string) ([]Headline, error) {
		return a.Aggregate(ctx, category, opts)
	})
}

// AggregateAllFunc buckets the results of aggregate over every registry
// category, run concurrently. Callers use it to put a cache in front of the
// per-category step.
func (a *Aggregator) AggregateAllFunc(ctx context.Context, aggregate func(context.Context, string) ([]Headline, error)) (BucketedNews, error) {
	categories := a.registry.Categories()
	news := make(BucketedNews, len(categories))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		g.Go(func() error {
			headlines, err := aggregate(gctx, category)
			if err != nil {
				return err
			}
			if len(headlines) == 0 {
				return nil
			}
			mu.Lock()
			news[category] = headlines
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return news, nil
}

// AggregateFeed runs the pipeline over a single feed outside the registry,
// as the local news path does.
func (a *Aggregator) AggregateFeed(ctx context.Context, entry FeedEntry, category string, opts AggregateOptions) ([]Headline, error) {
	headlines := a.collect(ctx, entry, category)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.finish(headlines, opts), nil
}

func (a *Aggregator) collect(ctx context.Context, entry FeedEntry, category string) []Headline {
	items, err := a.fetcher.Fetch(ctx, entry.URL, entry.Source, category)
	if err != nil {
		slog.Warn("Feed fetch failed",
			"source", entry.Source,
			"url", entry.URL,
			"category", category,
			"error", err)
		return nil
	}

	headlines := make([]Headline, 0, len(items))
	for _, item := range items {
		if headline, ok := a.normalizer.Normalize(ctx, item, entry.Source, category); ok {
			headlines = append(headlines, headline)
		}
	}
	return headlines
}

func (a *Aggregator) finish(headlines []Headline, opts AggregateOptions) []Headline {
	merged := Merge(headlines, opts.StripFluff)
	if opts.TimeWindow {
		merged = a.window.Filter(merged)
	}
	return merged
}
