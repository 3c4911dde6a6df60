package feed

import (
	"time"
)

// Feed format types

// MediaDescriptor is one media:content or media:thumbnail element.
type MediaDescriptor struct {
	URL    string
	Medium string
	Type   string
}

// MediaGroup is a media:group container.
type MediaGroup struct {
	Contents   []MediaDescriptor
	Thumbnails []MediaDescriptor
}

type Enclosure struct {
	URL  string
	Type string
}

// RawItem is the canonical shape every feed format is adapted into at the
// fetch boundary. All fields are optional.
type RawItem struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	Summary     string
	HTMLContent []string

	MediaGroups     []MediaGroup
	MediaCandidates []MediaDescriptor
	Enclosure       *Enclosure
}

// Pipeline output types

type Headline struct {
	Title         string     `json:"title"`
	Link          string     `json:"link"`
	Source        string     `json:"source"`
	Category      string     `json:"category"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	League        string     `json:"league,omitempty"`
	CitationCount int        `json:"citationCount"`
}

// Timestamp returns the publication time in unix milliseconds, 0 when absent.
func (h Headline) Timestamp() int64 {
	if h.PublishedAt == nil {
		return 0
	}
	return h.PublishedAt.UnixMilli()
}

func (h Headline) withCitations(n int) Headline {
	h.CitationCount = n
	return h
}

type BucketedNews map[string][]Headline

// Registry types

const LocalCategory = "local"

type FeedEntry struct {
	Source string `yaml:"source" json:"source"`
	URL    string `yaml:"url" json:"url"`
}

type Geo struct {
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}
