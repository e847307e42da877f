package portal

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credits-portal/internal/config"
	"github.com/jrsteele09/go-credits-portal/storage"
)

const sessionFileName = "session"

// Stores are the two session storage areas plus whatever must be closed
// on shutdown.
type Stores struct {
	Ephemeral storage.Store
	Durable   storage.Store
	closers   []func() error
}

// OpenStores builds the storage areas the configuration asks for. The
// ephemeral area always lives in memory for the life of the process.
func OpenStores(ctx context.Context, cfg config.StorageConfig) (*Stores, error) {
	s := &Stores{Ephemeral: storage.NewMemoryStore(0)}

	switch cfg.GetStorageBackend() {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("[portal OpenStores] redis %s: %w", cfg.GetRedisAddr(), err)
		}
		s.Durable = storage.NewRedisStore(client, cfg.GetRedisPrefix())
		s.closers = append(s.closers, client.Close)
		log.Info().Str("addr", cfg.GetRedisAddr()).Msg("Durable session storage on redis")
	default:
		fs, err := storage.NewFileStore(cfg.GetDataFolder(), sessionFileName, cfg.GetStorageKey())
		if err != nil {
			return nil, fmt.Errorf("[portal OpenStores] file store: %w", err)
		}
		s.Durable = fs
		log.Info().Str("path", fs.Path()).Bool("encrypted", cfg.GetStorageKey() != nil).Msg("Durable session storage on disk")
	}
	return s, nil
}

func (s *Stores) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
