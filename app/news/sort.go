package news

import (
	"cmp"
	"slices"

	"github.com/lysyi3m/headline-comb/app/feed"
)

type SortMode string

const (
	SortMostCited SortMode = "most-cited"
	SortNewest    SortMode = "newest"
)

// ParseSortMode accepts "most-cited" and "newest"; empty selects most-cited.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case "", SortMostCited:
		return SortMostCited, true
	case SortNewest:
		return SortNewest, true
	default:
		return "", false
	}
}

// Sort returns a sorted copy of headlines. Most-cited orders by citation
// count, then recency; newest orders by recency alone. Undated headlines
// sort last in both modes.
func Sort(headlines []feed.Headline, mode SortMode) []feed.Headline {
	sorted := slices.Clone(headlines)

	byNewest := func(a, b feed.Headline) int {
		return cmp.Compare(b.Timestamp(), a.Timestamp())
	}

	switch mode {
	case SortNewest:
		slices.SortStableFunc(sorted, byNewest)
	default:
		slices.SortStableFunc(sorted, func(a, b feed.Headline) int {
			if c := cmp.Compare(b.CitationCount, a.CitationCount); c != 0 {
				return c
			}
			return byNewest(a, b)
		})
	}

	return sorted
}

// SortBuckets applies Sort to every category of a bucketed result.
func SortBuckets(news feed.BucketedNews, mode SortMode) feed.BucketedNews {
	sorted := make(feed.BucketedNews, len(news))
	for category, headlines := range news {
		sorted[category] = Sort(headlines, mode)
	}
	return sorted
}
