package repository

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkacademy/internal/config"
	"sparkacademy/internal/logger"
	"sparkacademy/internal/store"
)

func TestOpenStorage(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		config config.Config
	}{
		{"memory", config.Config{Storage: config.StorageConfig{Backend: "memory"}}},
		{"sqlite", config.Config{Storage: config.StorageConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "spark.db")}}},
		{"redis", config.Config{
			Storage: config.StorageConfig{Backend: "redis"},
			Redis:   config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, err := OpenStorage(ctx, &tt.config, logger.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })

			require.NoError(t, s.KV.Set(ctx, "spark-ai-academy-x", "1"))
			v, err := s.KV.Get(ctx, "spark-ai-academy-x")
			require.NoError(t, err)
			assert.Equal(t, "1", v)
		})
	}
}

func TestOpenStorageUnsupportedBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "cassandra"}}

	_, err := OpenStorage(context.Background(), cfg, logger.NewNop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrStorageUnavailable)
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
