package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// EndpointConfig holds the limit for a single endpoint pattern. Paths ending
// in "/" match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Generation
// endpoints call the LLM and get the strictest tier; the remaining write
// endpoints get a moderate tier. Reads fall through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/code-artifacts/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/test-suites/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		{Path: "/rules", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/rules/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/rules/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/context-documents", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/context-documents/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/context-documents/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/pipeline-runs", Method: "POST", Limit: 60, Window: time.Minute, Burst: 5},
		{Path: "/metrics", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/auth/login", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
