package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	APIKey  string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Pipeline configuration
	FeedsFile    string `long:"feeds-file" env:"FEEDS_FILE" description:"Feed registry YAML file (embedded default when empty)"`
	Timezone     string `long:"timezone" env:"NEWS_TIMEZONE" default:"America/Chicago" description:"Timezone used for the today/yesterday window"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-feed fetch timeout in seconds"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Headline Comb/1.0" description:"User agent string for HTTP requests"`
	NoTimeWindow bool   `long:"no-time-window" env:"NO_TIME_WINDOW" description:"Keep headlines older than yesterday"`
	KeepFluff    bool   `long:"keep-fluff" env:"KEEP_FLUFF" description:"Keep filler words such as 'live' in dedupe keys"`
	NoSummaries  bool   `long:"no-summaries" env:"NO_SUMMARIES" description:"Omit summaries from headlines"`
	SearchURL    string `long:"search-url" env:"SEARCH_URL" default:"https://news.google.com/rss/search" description:"Search feed used for local news"`

	// Page image lookups
	OGImages  bool    `long:"og-images" env:"OG_IMAGES" description:"Fetch article pages for og:image when feeds carry no image"`
	OGTimeout int     `long:"og-timeout" env:"OG_TIMEOUT" default:"2500" description:"Article page fetch timeout in milliseconds"`
	OGRate    float64 `long:"og-rate" env:"OG_RATE" default:"5" description:"Maximum article page fetches per second (0 = unlimited)"`
	OGTTL     int     `long:"og-ttl" env:"OG_TTL" default:"21600" description:"Page image lookup lifetime in seconds"`
	DBPath    string  `long:"db-path" env:"DB_PATH" description:"SQLite file persisting page image lookups (disabled when empty)"`

	// Caching and warm-up
	CacheTTL     int `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Category cache lifetime in seconds"`
	LocalTTL     int `long:"local-ttl" env:"LOCAL_TTL" default:"300" description:"Local news cache lifetime in seconds"`
	WarmInterval int `long:"warm-interval" env:"WARM_INTERVAL" default:"0" description:"Cache warm-up interval in seconds (0 = disabled)"`
	WorkerCount  int `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background warm-up workers"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses command line flags and environment variables. It returns
// (nil, nil) when help was requested.
func Load() (*Cfg, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Cfg{
		Port:         raw.Port,
		BaseUrl:      raw.BaseUrl,
		APIAccessKey: raw.APIKey,
		FeedsFile:    raw.FeedsFile,
		Timezone:     raw.Timezone,
		FetchTimeout: time.Duration(raw.FetchTimeout) * time.Second,
		UserAgent:    raw.UserAgent,
		TimeWindow:   !raw.NoTimeWindow,
		StripFluff:   !raw.KeepFluff,
		Summaries:    !raw.NoSummaries,
		SearchURL:    raw.SearchURL,
		OGImages:     raw.OGImages,
		OGTimeout:    time.Duration(raw.OGTimeout) * time.Millisecond,
		OGRate:       raw.OGRate,
		OGTTL:        time.Duration(raw.OGTTL) * time.Second,
		DBPath:       raw.DBPath,
		CacheTTL:     time.Duration(raw.CacheTTL) * time.Second,
		LocalTTL:     time.Duration(raw.LocalTTL) * time.Second,
		WarmInterval: time.Duration(raw.WarmInterval) * time.Second,
		WorkerCount:  raw.WorkerCount,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	return cfg, nil
}

func validate(raw rawCfg) error {
	if _, err := time.LoadLocation(raw.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", raw.Timezone, err)
	}

	positive := map[string]int{
		"fetch-timeout": raw.FetchTimeout,
		"og-timeout":    raw.OGTimeout,
		"og-ttl":        raw.OGTTL,
		"cache-ttl":     raw.CacheTTL,
		"local-ttl":     raw.LocalTTL,
		"worker-count":  raw.WorkerCount,
	}
	for name, value := range positive {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, value)
		}
	}

	if raw.WarmInterval < 0 {
		return fmt.Errorf("warm-interval must not be negative, got %d", raw.WarmInterval)
	}
	if raw.OGRate < 0 {
		return fmt.Errorf("og-rate must not be negative, got %g", raw.OGRate)
	}

	return nil
}
