package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Extraction ExtractionConfig
	Snapshot   SnapshotConfig
	Cache      CacheConfig
	Session    SessionConfig
	Webhook    WebhookConfig
	Log        LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// ExtractionConfig controls the model-backed extraction.
type ExtractionConfig struct {
	// APIKey is the Gemini credential. Its absence is a startup warning,
	// not a startup failure; it is a fatal per-call precondition instead.
	APIKey string

	// Model is the generation model name.
	Model string // default: "gemini-2.5-flash"

	// Mode is the extraction cardinality: "single" (canonical) extracts
	// one entity record per page, "multi" extracts a products array.
	Mode string // default: "single"
}

// SnapshotConfig controls the optional page-context pre-fetch.
type SnapshotConfig struct {
	// Enabled toggles fetching the target page to ground the prompt.
	Enabled bool // default: true

	// Timeout is the deadline for the snapshot fetch.
	Timeout time.Duration // default: 10s

	// MaxChars caps the page context passed to the model.
	MaxChars int // default: 12000

	// Selector optionally scopes the snapshot to a CSS selector.
	Selector string

	// Proxy is an optional proxy URL for snapshot fetches.
	Proxy string
}

// CacheConfig controls the analysis result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 1000

	// TTL is how long a cached result stays valid.
	TTL time.Duration // default: 1h
}

// SessionConfig controls analysis sessions.
type SessionConfig struct {
	// ProgressInterval is the fixed interval between progress notices
	// emitted while an analysis is in flight.
	ProgressInterval time.Duration // default: 800ms

	// TTL is how long a session is retained after its last analyze call.
	TTL time.Duration // default: 1h
}

// WebhookConfig controls terminal-state event delivery.
type WebhookConfig struct {
	// URL is the endpoint receiving analysis.completed / analysis.failed
	// events. Empty disables webhooks.
	URL string

	// Secret, when set, is used to HMAC-sign event payloads.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PAGELENS_HOST", "0.0.0.0"),
			Port: envIntOr("PAGELENS_PORT", 8080),
			Mode: envOr("PAGELENS_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PAGELENS_AUTH_ENABLED", false),
			APIKeys: envSliceOr("PAGELENS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PAGELENS_RATE_RPS", 5.0),
			Burst:             envIntOr("PAGELENS_RATE_BURST", 10),
		},
		Extraction: ExtractionConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envOr("PAGELENS_MODEL", "gemini-2.5-flash"),
			Mode:   envOr("PAGELENS_EXTRACTION_MODE", "single"),
		},
		Snapshot: SnapshotConfig{
			Enabled:  envBoolOr("PAGELENS_SNAPSHOT_ENABLED", true),
			Timeout:  envDurationOr("PAGELENS_SNAPSHOT_TIMEOUT", 10*time.Second),
			MaxChars: envIntOr("PAGELENS_SNAPSHOT_MAX_CHARS", 12000),
			Selector: os.Getenv("PAGELENS_SNAPSHOT_SELECTOR"),
			Proxy:    os.Getenv("PAGELENS_PROXY"),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("PAGELENS_CACHE_MAX_ENTRIES", 1000),
			TTL:        envDurationOr("PAGELENS_CACHE_TTL", time.Hour),
		},
		Session: SessionConfig{
			ProgressInterval: envDurationOr("PAGELENS_PROGRESS_INTERVAL", 800*time.Millisecond),
			TTL:              envDurationOr("PAGELENS_SESSION_TTL", time.Hour),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("PAGELENS_WEBHOOK_URL"),
			Secret: os.Getenv("PAGELENS_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("PAGELENS_LOG_LEVEL", "info"),
			Format: envOr("PAGELENS_LOG_FORMAT", "json"),
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
