package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisFromClient(client), mr
}

func TestRedisGetSetDelete(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedis(t)

	_, err := kv.Get(ctx, "spark-ai-academy-accounts")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "spark-ai-academy-accounts", `{}`))
	raw, err := mr.Get("spark-ai-academy-accounts")
	require.NoError(t, err)
	assert.Equal(t, `{}`, raw)

	v, err := kv.Get(ctx, "spark-ai-academy-accounts")
	require.NoError(t, err)
	assert.Equal(t, `{}`, v)

	require.NoError(t, kv.Delete(ctx, "spark-ai-academy-accounts"))
	assert.False(t, mr.Exists("spark-ai-academy-accounts"))
}

func TestRedisKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedis(t)

	mr.Set("spark-ai-academy-profile-b@x.io", "{}")
	mr.Set("spark-ai-academy-accounts", "{}")
	mr.Set("unrelated", "1")

	keys, err := kv.Keys(ctx, "spark-ai-academy-")
	require.NoError(t, err)
	assert.Equal(t, []string{"spark-ai-academy-accounts", "spark-ai-academy-profile-b@x.io"}, keys)
}

func TestRedisSetMany(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedis(t)

	require.NoError(t, kv.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))
	mr.CheckGet(t, "a", "1")
	mr.CheckGet(t, "b", "2")
}

func TestRedisUnavailable(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedis(t)
	mr.Close()

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = kv.Set(ctx, "k", "v")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestEscapePattern(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapePattern("a*b?c[d]"))
	assert.Equal(t, "spark-ai-academy-", escapePattern("spark-ai-academy-"))
}
