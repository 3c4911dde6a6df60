package feed

import (
	"net/url"
	"testing"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name       string
		geo        Geo
		wantQuery  string
		wantLocale string
	}{
		{"full geo", Geo{City: "Austin", Region: "TX", Country: "US"}, "Austin TX US news", "en-US"},
		{"city only", Geo{City: "  San   Antonio "}, "San Antonio news", ""},
		{"country only", Geo{Country: "DE"}, "DE news", "de-DE"},
		{"lowercase country", Geo{City: "Lyon", Country: "fr"}, "Lyon fr news", "fr-FR"},
		{"country name", Geo{Country: "Narnia"}, "Narnia news", ""},
		{"empty", Geo{}, "United States news", ""},
		{"blank fields", Geo{City: " ", Region: "", Country: " "}, "United States news", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery(tt.geo)
			if got.Query != tt.wantQuery {
				t.Errorf("Expected query %q, got %q", tt.wantQuery, got.Query)
			}
			if got.Locale != tt.wantLocale {
				t.Errorf("Expected locale %q, got %q", tt.wantLocale, got.Locale)
			}
		})
	}
}

func TestSearchURL(t *testing.T) {
	raw := SearchURL("", LocalQuery{Query: "Berlin news", Locale: "de-DE"})

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Expected valid URL, got: %v", err)
	}
	if u.Host != "news.google.com" || u.Path != "/rss/search" {
		t.Errorf("Unexpected base URL: %s", raw)
	}

	params := u.Query()
	expected := map[string]string{"q": "Berlin news", "hl": "de-DE", "gl": "DE", "ceid": "DE:de"}
	for key, want := range expected {
		if got := params.Get(key); got != want {
			t.Errorf("Expected %s=%q, got %q", key, want, got)
		}
	}
}

func TestSearchURL_DefaultsLocale(t *testing.T) {
	raw := SearchURL("https://search.example.com/rss?extra=1", LocalQuery{Query: "United States news"})

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Expected valid URL, got: %v", err)
	}

	params := u.Query()
	if params.Get("extra") != "1" {
		t.Errorf("Expected existing parameters to be kept, got %s", raw)
	}
	if params.Get("hl") != "en-US" || params.Get("gl") != "US" || params.Get("ceid") != "US:en" {
		t.Errorf("Expected en-US defaults, got %s", raw)
	}
}

func TestLocalSourceName(t *testing.T) {
	if got := LocalSourceName(""); got != "Google News Local" {
		t.Errorf("Expected generic name, got %q", got)
	}
	if got := LocalSourceName("en-US"); got != "Google News (en-US)" {
		t.Errorf("Expected locale name, got %q", got)
	}
}
