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
	Crawler   CrawlerConfig
	Extractor ExtractorConfig
	Embedding EmbeddingConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// CrawlerConfig controls traversal behavior.
type CrawlerConfig struct {
	// UserAgent is sent with every fetch.
	UserAgent string // default: "Rufus/1.0 (+https://github.com/rufuslabs/rufus)"

	// Delay is the politeness pause before every network fetch.
	Delay time.Duration // default: 1s

	// FetchTimeout is the per-request deadline.
	FetchTimeout time.Duration // default: 10s

	// MaxBodyBytes caps response body reads.
	MaxBodyBytes int64 // default: 10 MB

	// DomainAliases are extra hosts treated as internal in lenient mode.
	DomainAliases []string
}

// ExtractorConfig controls the relevance pipeline defaults used by the API.
// Library callers always pass these explicitly.
type ExtractorConfig struct {
	// SimilarityThreshold is the default minimum cosine similarity.
	SimilarityThreshold float64 // default: 0.3

	// ChunkSize is the default maximum chunk length in characters.
	ChunkSize int // default: 512
}

// EmbeddingConfig controls the embedding API client.
type EmbeddingConfig struct {
	// BaseURL is the OpenAI-compatible API root, e.g. "https://api.openai.com/v1".
	BaseURL string

	// APIKey authenticates requests to the embedding API.
	APIKey string

	// Model is the embedding model name.
	Model string // default: "text-embedding-3-small"

	// Timeout is the per-request deadline for embedding calls.
	Timeout time.Duration // default: 30s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

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

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("RUFUS_HOST", "0.0.0.0"),
			Port: envIntOr("RUFUS_PORT", 8080),
			Mode: envOr("RUFUS_MODE", "release"),
		},
		Crawler: CrawlerConfig{
			UserAgent:     envOr("RUFUS_USER_AGENT", "Rufus/1.0 (+https://github.com/rufuslabs/rufus)"),
			Delay:         envDurationOr("RUFUS_CRAWL_DELAY", time.Second),
			FetchTimeout:  envDurationOr("RUFUS_FETCH_TIMEOUT", 10*time.Second),
			MaxBodyBytes:  envInt64Or("RUFUS_MAX_BODY_BYTES", 10*1024*1024),
			DomainAliases: envSliceOr("RUFUS_DOMAIN_ALIASES", nil),
		},
		Extractor: ExtractorConfig{
			SimilarityThreshold: envFloatOr("RUFUS_SIMILARITY_THRESHOLD", 0.3),
			ChunkSize:           envIntOr("RUFUS_CHUNK_SIZE", 512),
		},
		Embedding: EmbeddingConfig{
			BaseURL: envOr("RUFUS_EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  os.Getenv("RUFUS_EMBEDDING_API_KEY"),
			Model:   envOr("RUFUS_EMBEDDING_MODEL", "text-embedding-3-small"),
			Timeout: envDurationOr("RUFUS_EMBEDDING_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("RUFUS_AUTH_ENABLED", true),
			APIKeys: envSliceOr("RUFUS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RUFUS_RATE_RPS", 5.0),
			Burst:             envIntOr("RUFUS_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("RUFUS_LOG_LEVEL", "info"),
			Format: envOr("RUFUS_LOG_FORMAT", "json"),
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

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
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
