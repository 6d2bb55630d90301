package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/code-artifacts/generate", Method: "POST", Limit: 5, Window: time.Hour, Burst: 2},
			{Path: "/rules/", Method: "DELETE", Limit: 10, Window: time.Minute, Burst: 10},
		},
	}
}

func TestAllow_BurstThenLimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	// Burst of 2 on the generation endpoint
	allowed, _ := l.Allow("10.0.0.1", "/code-artifacts/generate", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/code-artifacts/generate", "POST")
	assert.True(t, allowed)

	allowed, info := l.Allow("10.0.0.1", "/code-artifacts/generate", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsIsolated(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/code-artifacts/generate", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.1", "/code-artifacts/generate", "POST")
	assert.False(t, allowed)

	// A different client still has its full burst
	allowed, _ = l.Allow("10.0.0.2", "/code-artifacts/generate", "POST")
	assert.True(t, allowed)
}

func TestAllow_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("10.0.0.1", "/code-artifacts/generate", "POST")
		assert.True(t, allowed)
		assert.True(t, info.Allowed)
	}
}

func TestAllow_DefaultLimitForUnmatchedEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 3
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/rules", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.1", "/rules", "GET")
	assert.False(t, allowed)
}

func TestAllow_HealthUnlimited(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := testConfig().EndpointConfigs

	exact := MatchEndpoint("/code-artifacts/generate", "POST", configs)
	assert.NotNil(t, exact)
	assert.Equal(t, 5, exact.Limit)

	prefix := MatchEndpoint("/rules/9f3b2c", "DELETE", configs)
	assert.NotNil(t, prefix)
	assert.Equal(t, 10, prefix.Limit)

	assert.Nil(t, MatchEndpoint("/rules/9f3b2c", "GET", configs))

	health := MatchEndpoint("/health", "GET", configs)
	assert.NotNil(t, health)
	assert.Equal(t, 0, health.Limit)
}

func TestTokenBucket_Refill(t *testing.T) {
	// 10 tokens per second, capacity 1
	tb := newTokenBucket(1, 10)

	assert.True(t, tb.allow())
	assert.False(t, tb.allow())

	time.Sleep(150 * time.Millisecond)
	assert.True(t, tb.allow())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}
