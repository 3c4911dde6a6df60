package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Pipeline configuration
	FeedsFile    string
	Timezone     string
	FetchTimeout time.Duration
	UserAgent    string
	TimeWindow   bool
	StripFluff   bool
	Summaries    bool
	SearchURL    string

	// Page image lookups
	OGImages  bool
	OGTimeout time.Duration
	OGRate    float64
	OGTTL     time.Duration
	DBPath    string

	// Caching and warm-up
	CacheTTL     time.Duration
	LocalTTL     time.Duration
	WarmInterval time.Duration
	WorkerCount  int

	// Application metadata
	Debug   bool
	Version string
}
