package repository

import (
	"context"
	"fmt"
	"strings"

	"sparkacademy/internal/config"
	"sparkacademy/internal/database"
	"sparkacademy/internal/logger"
	"sparkacademy/internal/store"
)

// Storage is the opened key-value backend and how to release it
type Storage struct {
	KV      store.KV
	Backend string
	closer  func() error
}

// Close releases the backend connection
func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// OpenStorage connects the backend named by cfg.Storage.Backend. SQL
// backends are migrated before use.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	backend := strings.ToLower(cfg.Storage.Backend)

	switch backend {
	case "memory":
		return &Storage{KV: store.NewMemory(), Backend: backend}, nil

	case "redis":
		redisCfg := store.DefaultRedisConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		r, err := store.NewRedis(redisCfg)
		if err != nil {
			return nil, err
		}
		log.Info("connected to redis", "addr", redisCfg.Addr())
		return &Storage{KV: r, Backend: backend, closer: r.Close}, nil

	case "", "sqlite", "sqlite3", "postgres", "postgresql", "mysql":
		// opened below
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}
	applied, err := db.RunMigrations(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, name := range applied {
		log.Info("applied migration", "file", name)
	}
	log.Info("database connection established", "driver", db.Dialect.DriverName())

	return &Storage{KV: NewKVRepository(db), Backend: backend, closer: db.Close}, nil
}
