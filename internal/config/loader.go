package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TIMETRIAL_CONFIG is set
//  3. env (prefix TIMETRIAL_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TIMETRIAL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: TIMETRIAL_ADDR, TIMETRIAL_MONGO_URI, ...
	// Map env keys like TIMETRIAL_MONGO_URI -> mongo_uri (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TIMETRIAL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "timetrial_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Storage != StorageMongo && c.Storage != StorageMemory:
		return fmt.Errorf("%w: storage must be %q or %q", ErrInvalidConfig, StorageMongo, StorageMemory)
	case c.StorageTimeoutMS <= 0:
		return fmt.Errorf("%w: storage_timeout_ms must be positive", ErrInvalidConfig)
	case c.CacheTTLMS <= 0:
		return fmt.Errorf("%w: cache_ttl_ms must be positive", ErrInvalidConfig)
	case c.LeaderboardLimit <= 0:
		return fmt.Errorf("%w: leaderboard_limit must be positive", ErrInvalidConfig)
	case c.TimeBudgetSeconds <= 0:
		return fmt.Errorf("%w: time_budget_seconds must be positive", ErrInvalidConfig)
	case c.ScoreMultiplier <= 0:
		return fmt.Errorf("%w: score_multiplier must be positive", ErrInvalidConfig)
	}

	if c.Storage == StorageMongo {
		switch {
		case c.MongoURI == "":
			return fmt.Errorf("%w: mongo_uri must not be empty", ErrInvalidConfig)
		case c.MongoDatabase == "":
			return fmt.Errorf("%w: mongo_database must not be empty", ErrInvalidConfig)
		case c.MongoCollection == "":
			return fmt.Errorf("%w: mongo_collection must not be empty", ErrInvalidConfig)
		}
	}
	return nil
}
