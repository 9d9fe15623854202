// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheBackend selects the CacheStore implementation.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendRedis  CacheBackend = "redis"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	CacheBackend  CacheBackend
	DBPath        string
	RedisAddr     string
	CacheTTL      time.Duration
	PurgeInterval time.Duration
	FetchTimeout  time.Duration
	GitHubAPIURL  string
	IconBaseURL   string

	SessionIdleTTL time.Duration
	MaxSessions    int
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional:
// REPOCARD_LISTEN_ADDR (127.0.0.1:8080), REPOCARD_CACHE_BACKEND (memory),
// REPOCARD_DB_PATH (repocard.db), REPOCARD_REDIS_ADDR (127.0.0.1:6379),
// REPOCARD_CACHE_TTL (24h), REPOCARD_PURGE_INTERVAL (1h), REPOCARD_FETCH_TIMEOUT (10s),
// REPOCARD_GITHUB_API_URL (https://api.github.com/), REPOCARD_ICON_BASE_URL (/static/images),
// REPOCARD_SESSION_IDLE_TTL (30m), REPOCARD_MAX_SESSIONS (1024).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("REPOCARD_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	backend := CacheBackendMemory
	if v, ok := os.LookupEnv("REPOCARD_CACHE_BACKEND"); ok && v != "" {
		backend = CacheBackend(strings.ToLower(strings.TrimSpace(v)))
		switch backend {
		case CacheBackendMemory, CacheBackendSQLite, CacheBackendRedis:
		default:
			return nil, fmt.Errorf("REPOCARD_CACHE_BACKEND has unknown backend %q: expected memory, sqlite or redis", v)
		}
	}

	dbPath := "repocard.db"
	if v, ok := os.LookupEnv("REPOCARD_DB_PATH"); ok {
		dbPath = v
	}

	redisAddr := "127.0.0.1:6379"
	if v, ok := os.LookupEnv("REPOCARD_REDIS_ADDR"); ok {
		redisAddr = v
	}

	cacheTTL, err := durationEnv("REPOCARD_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	purgeInterval, err := durationEnv("REPOCARD_PURGE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := durationEnv("REPOCARD_FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	apiURL := "https://api.github.com/"
	if v, ok := os.LookupEnv("REPOCARD_GITHUB_API_URL"); ok && v != "" {
		apiURL = v
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
	}

	iconBaseURL := "/static/images"
	if v, ok := os.LookupEnv("REPOCARD_ICON_BASE_URL"); ok && v != "" {
		iconBaseURL = strings.TrimSuffix(v, "/")
	}

	sessionIdleTTL, err := durationEnv("REPOCARD_SESSION_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	maxSessions, err := positiveIntEnv("REPOCARD_MAX_SESSIONS", 1024)
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr:    listenAddr,
		CacheBackend:  backend,
		DBPath:        dbPath,
		RedisAddr:     redisAddr,
		CacheTTL:      cacheTTL,
		PurgeInterval: purgeInterval,
		FetchTimeout:  fetchTimeout,
		GitHubAPIURL:  apiURL,
		IconBaseURL:   iconBaseURL,

		SessionIdleTTL: sessionIdleTTL,
		MaxSessions:    maxSessions,
	}, nil
}

// durationEnv parses a positive duration from key, or returns def when unset.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}

	return parsed, nil
}

// positiveIntEnv parses a positive integer from key, or returns def when unset.
func positiveIntEnv(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid integer %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}

	return parsed, nil
}
