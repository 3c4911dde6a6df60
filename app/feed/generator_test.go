package feed

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator()

	published := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	older := time.Date(2023, 7, 2, 9, 0, 0, 0, time.UTC)

	channel := Channel{
		Title:     "Headline Comb: sports",
		Link:      "http://localhost:8080/api/news/sports",
		SelfLink:  "http://localhost:8080/feeds/sports",
		Generator: "Headline Comb/dev",
	}

	headlines := []Headline{
		{
			Title:         "Lakers win & celebrate",
			Link:          "https://example.com/item1",
			Source:        "Sports Wire",
			Category:      "sports",
			PublishedAt:   &older,
			Summary:       "Test Item 1 Summary",
			ImageURL:      "https://img.example.com/a.png?w=600",
			League:        LeagueNBA,
			CitationCount: 2,
		},
		{
			Title:       "Test Item 2",
			Link:        "https://example.com/item2",
			Category:    "sports",
			PublishedAt: &published,
		},
	}

	rss, err := generator.Run(channel, headlines)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<rss version="2.0"`,
		`xmlns:atom="http://www.w3.org/2005/Atom"`,
		"<title>Headline Comb: sports</title>",
		"<description>Aggregated headlines: Headline Comb: sports</description>",
		`<atom:link href="http://localhost:8080/feeds/sports" rel="self" type="application/rss+xml" />`,
		"<lastBuildDate>Mon, 03 Jul 2023 10:00:00 +0000</lastBuildDate>",
		"<generator>Headline Comb/dev</generator>",
		"<title>Lakers win &amp; celebrate</title>",
		`<guid isPermaLink="true">https://example.com/item1</guid>`,
		"<description>Test Item 1 Summary</description>",
		"<author>Sports Wire</author>",
		"<category>sports</category>",
		"<category>NBA</category>",
		`<enclosure url="https://img.example.com/a.png?w=600" length="0" type="image/png" />`,
		"<pubDate>Sun, 02 Jul 2023 09:00:00 +0000</pubDate>",
		"<description>No description available</description>",
		"</channel>",
		"</rss>",
	}

	for _, want := range expected {
		if !strings.Contains(rss, want) {
			t.Errorf("RSS should contain %s", want)
		}
	}

	var doc struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"channel>item"`
	}
	if err := xml.Unmarshal([]byte(rss), &doc); err != nil {
		t.Fatalf("Generated RSS is not valid XML: %v", err)
	}
	if len(doc.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(doc.Items))
	}
}

func TestGenerateWithNoHeadlines(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	generator := &Generator{now: func() time.Time { return now }}

	rss, err := generator.Run(Channel{Title: "Empty", Description: "Nothing yet"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(rss, "<item>") {
		t.Error("RSS should not contain items")
	}
	if strings.Contains(rss, "atom:link href") {
		t.Error("RSS should omit self link when not set")
	}
	if !strings.Contains(rss, "<lastBuildDate>Mon, 01 Jan 2024 00:00:00 +0000</lastBuildDate>") {
		t.Error("RSS should fall back to the current time for lastBuildDate")
	}
	if !strings.Contains(rss, "<description>Nothing yet</description>") {
		t.Error("RSS should contain channel description")
	}
}

func TestImageType(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a.png":       "image/png",
		"https://example.com/a.webp?x=1":  "image/webp",
		"https://example.com/a":           "image/jpeg",
		"https://example.com/a.html#frag": "image/jpeg",
	}
	for in, want := range tests {
		if got := imageType(in); got != want {
			t.Errorf("imageType(%q): expected %s, got %s", in, want, got)
		}
	}
}
