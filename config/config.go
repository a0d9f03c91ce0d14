package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is loaded once at startup
// and passed down read-only; no component mutates it afterwards.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Fetch     FetchConfig
	Segment   SegmentConfig
	Interact  InteractConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 10

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// BlockedResourceTypes lists resource types blocked during rendering.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// FetchConfig controls the static and rendered fetch strategies.
type FetchConfig struct {
	// StaticTimeout bounds the single static GET.
	StaticTimeout time.Duration // default: 30s

	// PageTimeout bounds one browser navigation + render wait.
	PageTimeout time.Duration // default: 30s

	// RequestTimeout bounds one whole scrape request end to end.
	RequestTimeout time.Duration // default: 120s

	// MinSections and MinTextLen are the static-sufficiency thresholds:
	// a static result is insufficient when it yields fewer than MinSections
	// sections OR less than MinTextLen characters of extracted text.
	MinSections int // default: 2
	MinTextLen  int // default: 200

	// ForcedJSDomains lists domains that always require rendering,
	// regardless of the sufficiency heuristic.
	ForcedJSDomains []string

	// UserAgents is the pool of realistic user agents rotated per request.
	UserAgents []string

	// StrategyMemoryTTL is how long a domain's escalation outcome is
	// remembered so later requests skip the doomed static attempt.
	StrategyMemoryTTL time.Duration // default: 24h
}

// SegmentConfig controls segmentation output bounds.
type SegmentConfig struct {
	// RawHTMLLimit is the per-section serialized HTML cap in characters.
	RawHTMLLimit int // default: 1000

	// MaxHeadingSections caps the heading-tier fallback.
	MaxHeadingSections int // default: 10
}

// InteractConfig controls the interaction driver.
type InteractConfig struct {
	// MaxTabClicks, MaxLoadMoreClicks, MaxScrolls and MaxPages bound each
	// sub-protocol independently. MaxPages includes the first page.
	MaxTabClicks      int // default: 3
	MaxLoadMoreClicks int // default: 3
	MaxScrolls        int // default: 3
	MaxPages          int // default: 3

	// Budget bounds the total time spent interacting. Exceeding it stops
	// interaction cleanly with whatever has been collected.
	Budget time.Duration // default: 30s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool // default: false
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 5
	Burst             int     // default: 10
}

// CacheConfig controls the in-memory document cache.
type CacheConfig struct {
	MaxEntries int           // default: 1000
	TTL        time.Duration // default: 5m; 0 disables the cache
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// defaultUserAgents is the pool of realistic browser user agents rotated
// across requests to avoid a single static fingerprint.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// defaultForcedJSDomains lists sites known to block or starve static
// fetching, where escalating immediately avoids partial-content false
// positives.
var defaultForcedJSDomains = []string{
	"wikipedia.org",
	"wikimedia.org",
	"medium.com",
	"vercel.com",
	"twitter.com",
	"x.com",
	"reddit.com",
	"linkedin.com",
	"instagram.com",
	"facebook.com",
	"youtube.com",
	"netflix.com",
	"airbnb.com",
	"uber.com",
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SCRAPER_HOST", "0.0.0.0"),
			Port: envIntOr("SCRAPER_PORT", 8080),
			Mode: envOr("SCRAPER_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("SCRAPER_HEADLESS", true),
			MaxPages:   envIntOr("SCRAPER_MAX_PAGES", 10),
			NoSandbox:  envBoolOr("SCRAPER_NO_SANDBOX", false),
			BrowserBin: os.Getenv("SCRAPER_BROWSER_BIN"),
			BlockedResourceTypes: envSliceOr("SCRAPER_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Fetch: FetchConfig{
			StaticTimeout:     envDurationOr("SCRAPER_STATIC_TIMEOUT", 30*time.Second),
			PageTimeout:       envDurationOr("SCRAPER_PAGE_TIMEOUT", 30*time.Second),
			RequestTimeout:    envDurationOr("SCRAPER_REQUEST_TIMEOUT", 120*time.Second),
			MinSections:       envIntOr("SCRAPER_MIN_SECTIONS", 2),
			MinTextLen:        envIntOr("SCRAPER_MIN_TEXT_LEN", 200),
			ForcedJSDomains:   envSliceOr("SCRAPER_FORCED_JS_DOMAINS", defaultForcedJSDomains),
			UserAgents:        envSliceOr("SCRAPER_USER_AGENTS", defaultUserAgents),
			StrategyMemoryTTL: envDurationOr("SCRAPER_STRATEGY_MEMORY_TTL", 24*time.Hour),
		},
		Segment: SegmentConfig{
			RawHTMLLimit:       envIntOr("SCRAPER_RAW_HTML_LIMIT", 1000),
			MaxHeadingSections: envIntOr("SCRAPER_MAX_HEADING_SECTIONS", 10),
		},
		Interact: InteractConfig{
			MaxTabClicks:      envIntOr("SCRAPER_MAX_TAB_CLICKS", 3),
			MaxLoadMoreClicks: envIntOr("SCRAPER_MAX_LOAD_MORE_CLICKS", 3),
			MaxScrolls:        envIntOr("SCRAPER_MAX_SCROLLS", 3),
			MaxPages:          envIntOr("SCRAPER_MAX_PAGES_VISITED", 3),
			Budget:            envDurationOr("SCRAPER_INTERACT_BUDGET", 30*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SCRAPER_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SCRAPER_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SCRAPER_RATE_RPS", 5.0),
			Burst:             envIntOr("SCRAPER_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SCRAPER_CACHE_MAX_ENTRIES", 1000),
			TTL:        envDurationOr("SCRAPER_CACHE_TTL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  envOr("SCRAPER_LOG_LEVEL", "info"),
			Format: envOr("SCRAPER_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
