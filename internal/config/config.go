package config

import (
	"encoding/base64"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
	UIConfig
}

type mainConfig struct {
	EnvVars
	API
	Storage
	UI
}

// New parses the portal configuration from the environment.
func New() (Config, error) {
	var c mainConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("[config New] parse environment: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c mainConfig) validate() error {
	if c.StorageKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.StorageKey)
		if err != nil {
			return fmt.Errorf("[config] PORTAL_STORAGE_KEY must be base64: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("[config] PORTAL_STORAGE_KEY must decode to 32 bytes, got %d", len(key))
		}
	}
	switch c.Backend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("[config] unknown storage backend %q", c.Backend)
	}
	if c.Backend == BackendRedis && c.RedisAddr == "" {
		return fmt.Errorf("[config] PORTAL_REDIS_ADDR is required for the redis backend")
	}
	return nil
}
