// Package config provides configuration for the scan server, the metric providers and the stores
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	HTTPAddr    string
	Environment string
	LogLevel    string
	LogDir      string

	// Providers
	Provider           string // mock or live
	MockLatency        time.Duration
	DexScreenerURL     string
	GoPlusURL          string
	SolanaRPCURL       string
	UpstreamTimeout    time.Duration
	UpstreamRPS        int
	UpstreamMaxRetries int
	BreakerTimeout     time.Duration

	// Rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Result cache
	CacheEnabled  bool
	CacheBackend  string // memory or redis
	CacheTTL      time.Duration
	CacheSize     int
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SweepInterval time.Duration

	// Batch screener: passing tokens scoring at or below this are featured
	FeaturedMaxScore int
}

const (
	ProviderMock = "mock"
	ProviderLive = "live"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		Environment: getEnv("APP_ENV", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogDir:      os.Getenv("LOG_DIR"),

		Provider:           getEnv("PROVIDER", ProviderMock),
		MockLatency:        getEnvDuration("MOCK_LATENCY", 300*time.Millisecond),
		DexScreenerURL:     getEnv("DEXSCREENER_URL", "https://api.dexscreener.com"),
		GoPlusURL:          getEnv("GOPLUS_URL", "https://api.gopluslabs.io"),
		SolanaRPCURL:       getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		UpstreamTimeout:    getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		UpstreamRPS:        getEnvInt("UPSTREAM_RPS", 5),
		UpstreamMaxRetries: getEnvInt("UPSTREAM_MAX_RETRIES", 2),
		BreakerTimeout:     getEnvDuration("BREAKER_TIMEOUT", 60*time.Second),

		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		CacheEnabled:  getEnvBool("CACHE_ENABLED", true),
		CacheBackend:  getEnv("CACHE_BACKEND", CacheMemory),
		CacheTTL:      getEnvDuration("CACHE_TTL", 60*time.Second),
		CacheSize:     getEnvInt("CACHE_SIZE", 10000),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Minute),

		FeaturedMaxScore: getEnvInt("FEATURED_MAX_SCORE", 2),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvDuration accepts Go durations ("90s") or a plain number of seconds.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs := getEnvFloat(key, -1); secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultVal
}
