package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Scraper   ScraperConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	CORS      CORSConfig
	Jobs      JobsConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 5000
	Mode string // "debug", "release", "test"; default: "release"
}

// ScraperConfig controls page retrieval.
type ScraperConfig struct {
	// RequestTimeout bounds each page fetch, including reading the body.
	RequestTimeout time.Duration // default: 30s

	// MaxPagesLimit is the largest maxPages a client may request.
	MaxPagesLimit int // default: 50

	// MaxBodyBytes caps how much of each page is read.
	MaxBodyBytes int64 // default: 10 MiB

	// UserAgent is sent with every page request.
	UserAgent string

	// TLSFingerprint dials HTTPS with a Chrome ClientHello (utls).
	TLSFingerprint bool // default: true
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client IP.
	Burst int // default: 10
}

// CacheConfig controls the scrape result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 1000
}

// CORSConfig controls cross-origin access for browser frontends.
type CORSConfig struct {
	AllowedOrigins []string // default: ["*"]
}

// JobsConfig controls asynchronous scrape jobs.
type JobsConfig struct {
	// TTL is how long a finished job stays queryable.
	TTL time.Duration // default: 1h

	// Timeout bounds a single job run.
	Timeout time.Duration // default: 10m
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent identifies page requests as a desktop Chrome browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("WEBSCRAPER_HOST", "0.0.0.0"),
			Port: envIntOr("WEBSCRAPER_PORT", 5000),
			Mode: envOr("WEBSCRAPER_MODE", "release"),
		},
		Scraper: ScraperConfig{
			RequestTimeout: envDurationOr("WEBSCRAPER_REQUEST_TIMEOUT", 30*time.Second),
			MaxPagesLimit:  envIntOr("WEBSCRAPER_MAX_PAGES_LIMIT", 50),
			MaxBodyBytes:   int64(envIntOr("WEBSCRAPER_MAX_BODY_BYTES", 10<<20)),
			UserAgent:      envOr("WEBSCRAPER_USER_AGENT", DefaultUserAgent),
			TLSFingerprint: envBoolOr("WEBSCRAPER_TLS_FINGERPRINT", true),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("WEBSCRAPER_RATE_RPS", 5.0),
			Burst:             envIntOr("WEBSCRAPER_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("WEBSCRAPER_CACHE_MAX_ENTRIES", 1000),
		},
		CORS: CORSConfig{
			AllowedOrigins: envSliceOr("WEBSCRAPER_CORS_ORIGINS", []string{"*"}),
		},
		Jobs: JobsConfig{
			TTL:     envDurationOr("WEBSCRAPER_JOB_TTL", time.Hour),
			Timeout: envDurationOr("WEBSCRAPER_JOB_TIMEOUT", 10*time.Minute),
		},
		Log: LogConfig{
			Level:  envOr("WEBSCRAPER_LOG_LEVEL", "info"),
			Format: envOr("WEBSCRAPER_LOG_FORMAT", "json"),
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
