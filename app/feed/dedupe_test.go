package feed

import (
	"testing"
	"time"
)

func TestDedupeKey(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		stripFluff bool
		want       string
	}{
		{"case and punctuation", "Lakers Win NBA Opener!", false, "lakers win nba opener"},
		{"entities", "Fish &amp; Chips&nbsp;Prices &#8212; Up", false, "fish chips prices up"},
		{"leftover entity", "Rates &bogus; rise", false, "rates rise"},
		{"accents folded", "Pokémon café reopens", false, "pokemon cafe reopens"},
		{"fluff kept", "LIVE: Storm updates", false, "live storm updates"},
		{"fluff stripped", "LIVE: Storm updates", true, "storm"},
		{"only fluff falls back", "Breaking Analysis", true, "breaking analysis"},
		{"symbols only", "!!!", false, "!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DedupeKey(tt.title, tt.stripFluff); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMerge_CitationCounts(t *testing.T) {
	headlines := []Headline{
		{Title: "Rates rise again", Source: "A", CitationCount: 1},
		{Title: "Storm hits coast", Source: "A", CitationCount: 1},
		{Title: "RATES RISE AGAIN", Source: "B", CitationCount: 1},
		{Title: "Rates rise, again.", Source: "C", CitationCount: 1},
	}

	merged := Merge(headlines, false)
	if len(merged) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(merged))
	}

	counts := map[string]int{}
	for _, h := range merged {
		counts[DedupeKey(h.Title, false)] = h.CitationCount
	}
	if counts["rates rise again"] != 3 {
		t.Errorf("Expected 3 citations for rates story, got %d", counts["rates rise again"])
	}
	if counts["storm hits coast"] != 1 {
		t.Errorf("Expected 1 citation for storm story, got %d", counts["storm hits coast"])
	}
}

func TestMerge_KeepsLatest(t *testing.T) {
	t0 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	headlines := []Headline{
		{Title: "Same story", Link: "https://a/1", PublishedAt: &t0},
		{Title: "Same Story", Link: "https://b/1", PublishedAt: &t1},
		{Title: "same story!", Link: "https://c/1"},
	}

	merged := Merge(headlines, false)
	if len(merged) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(merged))
	}
	if merged[0].Link != "https://b/1" {
		t.Errorf("Expected latest item to win, got %s", merged[0].Link)
	}
	if merged[0].CitationCount != 3 {
		t.Errorf("Expected citation count 3, got %d", merged[0].CitationCount)
	}
}

func TestMerge_TiesKeepFirstSeen(t *testing.T) {
	ts := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	merged := Merge([]Headline{
		{Title: "Tie", Link: "https://first"},
		{Title: "tie", Link: "https://second"},
		{Title: "Dated tie", Link: "https://third", PublishedAt: &ts},
		{Title: "dated TIE", Link: "https://fourth", PublishedAt: &ts},
	}, false)

	if len(merged) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(merged))
	}
	if merged[0].Link != "https://first" {
		t.Errorf("Expected first undated item kept, got %s", merged[0].Link)
	}
	if merged[1].Link != "https://third" {
		t.Errorf("Expected first dated item kept, got %s", merged[1].Link)
	}
}

func TestMerge_DatedBeatsUndated(t *testing.T) {
	ts := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	merged := Merge([]Headline{
		{Title: "Story", Link: "https://undated"},
		{Title: "Story", Link: "https://dated", PublishedAt: &ts},
	}, false)

	if merged[0].Link != "https://dated" {
		t.Errorf("Expected dated item to displace undated one, got %s", merged[0].Link)
	}
}

func TestMerge_StripFluffJoinsVariants(t *testing.T) {
	headlines := []Headline{
		{Title: "Live updates: Senate passes bill"},
		{Title: "Senate passes bill"},
	}

	if got := len(Merge(headlines, false)); got != 2 {
		t.Errorf("Expected 2 groups without fluff stripping, got %d", got)
	}
	if got := len(Merge(headlines, true)); got != 1 {
		t.Errorf("Expected 1 group with fluff stripping, got %d", got)
	}
}

func TestMerge_Empty(t *testing.T) {
	if got := Merge(nil, true); len(got) != 0 {
		t.Errorf("Expected empty result, got %d", len(got))
	}
}
