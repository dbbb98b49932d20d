// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"time"
)

// Storage backend names accepted by the storage key.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the player store backend: mongo or memory.
	Storage string `koanf:"storage"`

	// MongoURI is the MongoDB connection string.
	MongoURI string `koanf:"mongo_uri"`

	// MongoDatabase names the database holding player records.
	MongoDatabase string `koanf:"mongo_database"`

	// MongoCollection names the player records collection.
	MongoCollection string `koanf:"mongo_collection"`

	// StorageTimeoutMS bounds every storage operation.
	StorageTimeoutMS int `koanf:"storage_timeout_ms"`

	// RedisAddr enables the leaderboard cache when non-empty.
	RedisAddr string `koanf:"redis_addr"`

	// CacheTTLMS sets the leaderboard cache entry lifetime.
	CacheTTLMS int `koanf:"cache_ttl_ms"`

	// LeaderboardLimit caps how many entries a leaderboard read returns.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// TimeBudgetSeconds is the scoring time budget.
	TimeBudgetSeconds float64 `koanf:"time_budget_seconds"`

	// ScoreMultiplier scales the remaining-time score.
	ScoreMultiplier float64 `koanf:"score_multiplier"`

	// CORSAllowedOrigins is the Access-Control-Allow-Origin header value.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		Storage:            StorageMemory,
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "timetrial",
		MongoCollection:    "players",
		StorageTimeoutMS:   5_000,
		RedisAddr:          "",
		CacheTTLMS:         5_000,
		LeaderboardLimit:   50,
		TimeBudgetSeconds:  600,
		ScoreMultiplier:    1.5,
		CORSAllowedOrigins: "*",
	}
}

// StorageTimeout returns the per-operation storage bound.
func (c *Config) StorageTimeout() time.Duration {
	return time.Duration(c.StorageTimeoutMS) * time.Millisecond
}

// CacheTTL returns the leaderboard cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}

// CacheEnabled reports whether the leaderboard cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
