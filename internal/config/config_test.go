package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "PROVIDER", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "CACHE_TTL", "CACHE_BACKEND", "CACHE_ENABLED", "FEATURED_MAX_SCORE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Provider != ProviderMock {
		t.Errorf("Provider = %q, want mock", cfg.Provider)
	}
	if cfg.RateLimitMax != 10 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d per %v, want 10 per 1m", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.CacheTTL != 60*time.Second || cfg.CacheBackend != CacheMemory {
		t.Errorf("cache = %s ttl %v, want memory ttl 60s", cfg.CacheBackend, cfg.CacheTTL)
	}
	if !cfg.CacheEnabled || cfg.FeaturedMaxScore != 2 {
		t.Errorf("CacheEnabled/FeaturedMaxScore = %v/%d", cfg.CacheEnabled, cfg.FeaturedMaxScore)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PROVIDER", "live")
	t.Setenv("RATE_LIMIT_MAX", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CACHE_TTL", "5")
	t.Setenv("UPSTREAM_RPS", "not-a-number")
	t.Setenv("CACHE_ENABLED", "false")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" || cfg.Provider != ProviderLive {
		t.Errorf("HTTPAddr/Provider = %q/%q", cfg.HTTPAddr, cfg.Provider)
	}
	if cfg.RateLimitMax != 3 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("rate limit = %d per %v, want 3 per 30s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Errorf("CacheTTL = %v, want 5s from plain seconds", cfg.CacheTTL)
	}
	if cfg.UpstreamRPS != 5 {
		t.Errorf("UpstreamRPS = %d, want default 5 for invalid value", cfg.UpstreamRPS)
	}
	if cfg.CacheEnabled {
		t.Error("CacheEnabled = true, want false")
	}
}
