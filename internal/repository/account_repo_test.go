package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkacademy/internal/models"
	"sparkacademy/internal/store"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := NewAccountRepository(kv, NewKeys("test-"))

	account, err := repo.Get(ctx, "kid@example.com")
	require.NoError(t, err)
	assert.Nil(t, account)

	require.NoError(t, repo.Create(ctx, "kid@example.com", models.Account{Password: "secret1", Name: "Ada", Age: 8}))
	err = repo.Create(ctx, "kid@example.com", models.Account{Password: "other1", Name: "Eve", Age: 9})
	assert.ErrorIs(t, err, ErrAccountExists)

	raw, err := kv.Get(ctx, "test-accounts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kid@example.com":{"pass":"secret1","name":"Ada","age":8}}`, raw)

	require.NoError(t, repo.UpdateName(ctx, "kid@example.com", "Ada L."))
	account, err = repo.Get(ctx, "kid@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "Ada L.", account.Name)
	assert.Equal(t, 8, account.Age)

	err = repo.UpdateName(ctx, "ghost@example.com", "Ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccountRepositoryCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, "spark-ai-academy-accounts", "[]"))
	repo := NewAccountRepository(kv, NewKeys(""))

	_, err := repo.Get(ctx, "kid@example.com")
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
