package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Directions cache backends.
const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
	CacheSqlite   = "sqlite"
)

type Config struct {
	Port string
	// DatabaseURL is optional; tourings are kept in memory without it.
	DatabaseURL string

	ORSAPIKey        string
	GoogleMapsAPIKey string
	JWTSecret        string

	DirectionsCache string
	CacheMaxEntries int
	CacheTTL        time.Duration
	SqlitePath      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads the configuration from the environment. Call godotenv first to
// pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),

		ORSAPIKey:        strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		GoogleMapsAPIKey: strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		JWTSecret:        os.Getenv("JWT_SECRET"),

		DirectionsCache: strings.ToLower(Get("DIRECTIONS_CACHE", CacheMemory)),
		CacheMaxEntries: getIntEnv("CACHE_MAX_ENTRIES", 0),
		CacheTTL:        getDurationEnv("CACHE_TTL", 7*24*time.Hour),
		SqlitePath:      Get("SQLITE_PATH", "data/cache.db"),

		RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		ReadTimeout:  getDurationEnv("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getDurationEnv("WRITE_TIMEOUT", 120*time.Second),
	}

	if cfg.ORSAPIKey == "" {
		return nil, fmt.Errorf("ORS_API_KEY is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.DirectionsCache {
	case CacheMemory, CacheRedis, CacheSqlite:
	case CachePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DIRECTIONS_CACHE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("DIRECTIONS_CACHE must be one of memory, redis, postgres, sqlite; got %q", cfg.DirectionsCache)
	}

	if cfg.CacheMaxEntries < 0 {
		return nil, fmt.Errorf("CACHE_MAX_ENTRIES must not be negative")
	}

	return cfg, nil
}

// Get returns the environment variable key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
