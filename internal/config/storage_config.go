package config

import "encoding/base64"

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type StorageConfig interface {
	GetDataFolder() string
	GetStorageBackend() string
	GetStorageKey() []byte
	GetRedisAddr() string
	GetRedisPrefix() string
}

type Storage struct {
	DataFolder  string `env:"PORTAL_DATA_FOLDER"     envDefault:"./data"`
	Backend     string `env:"PORTAL_STORAGE_BACKEND" envDefault:"file"`
	StorageKey  string `env:"PORTAL_STORAGE_KEY"`
	RedisAddr   string `env:"PORTAL_REDIS_ADDR"`
	RedisPrefix string `env:"PORTAL_REDIS_PREFIX"    envDefault:"portal:"`
}

var _ StorageConfig = Storage{}

func (s Storage) GetDataFolder() string {
	return s.DataFolder
}

func (s Storage) GetStorageBackend() string {
	return s.Backend
}

// GetStorageKey returns the decoded durable-store key, or nil when encryption is off.
func (s Storage) GetStorageKey() []byte {
	if s.StorageKey == "" {
		return nil
	}
	key, err := base64.StdEncoding.DecodeString(s.StorageKey)
	if err != nil || len(key) != 32 {
		return nil
	}
	return key
}

func (s Storage) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Storage) GetRedisPrefix() string {
	return s.RedisPrefix
}
