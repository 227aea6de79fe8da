package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	GL              string // default search region
	HL              string // default interface language
	FetchTimeout    time.Duration
	RequestsPerSec  float64 // outgoing rate limit; <= 0 disables
	Burst           int
	PayloadRetries  int  // tries before a missing payload is fatal
	UseBrowser      bool // route requests through BrowserClient
	ExtraCookies    []string
	CacheTTL        time.Duration
	CacheMaxEntries int
	HTTPClient      *http.Client
	BrowserClient   *BrowserClient // nil = plain net/http only
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
