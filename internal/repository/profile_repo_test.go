package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkacademy/internal/models"
	"sparkacademy/internal/store"
)

func TestProfileRepositoryDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(store.NewMemory(), NewKeys(""), nil)

	_, found, err := repo.Find(ctx, "kid@example.com")
	require.NoError(t, err)
	assert.False(t, found)

	profile, err := repo.Load(ctx, "kid@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.NewProfile(), profile)
}

func TestProfileRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := NewProfileRepository(kv, NewKeys(""), nil)

	profile := models.NewProfile()
	profile.Progress.Add("c1", "l1-1")
	profile.Badges.Add("star-collector-100")
	profile.StarPenalty = 10
	profile.StreakData = models.StreakData{Count: 3, LastLogin: "2024-05-01"}
	require.NoError(t, repo.Save(ctx, "kid@example.com", profile))

	_, err := kv.Get(ctx, "spark-ai-academy-profile-kid@example.com")
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, "kid@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile, loaded)
}

func TestProfileRepositoryNormalizesLegacyRecords(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := NewProfileRepository(kv, NewKeys(""), nil)

	legacy := `{"avatar":{"icon":"cute"},"streakData":{"count":2,"lastLogin":"2024-01-01"},"progress":{"c1":["l1-1"],"c2":[]}}`
	require.NoError(t, kv.Set(ctx, "spark-ai-academy-profile-old@example.com", legacy))

	profile, found, err := repo.Find(ctx, "old@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.ProfileSchemaVersion, profile.SchemaVersion)
	assert.Equal(t, "cute", profile.Avatar.Icon)
	assert.NotNil(t, profile.Badges)
	assert.NotNil(t, profile.Favorites)
	assert.Equal(t, 0, profile.StarPenalty)
	assert.True(t, profile.Progress.Has("c1", "l1-1"))
	_, hasEmpty := profile.Progress["c2"]
	assert.False(t, hasEmpty)
}

func TestProfileRepositoryReplacesCorruptRecords(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	repo := NewProfileRepository(kv, NewKeys(""), nil)

	require.NoError(t, kv.Set(ctx, "spark-ai-academy-profile-bad@example.com", "{not json"))

	profile, found, err := repo.Find(ctx, "bad@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.NewProfile(), profile)
}

func TestProfileRepositorySaveWithRename(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	keys := NewKeys("")
	accounts := NewAccountRepository(kv, keys)
	profiles := NewProfileRepository(kv, keys, nil)
	require.NoError(t, accounts.Create(ctx, "kid@example.com", models.Account{Name: "Ada", Password: "secret1", Age: 7}))

	rec, err := accounts.RenameRecord(ctx, "kid@example.com", "Bo")
	require.NoError(t, err)
	assert.Equal(t, "spark-ai-academy-accounts", rec.Key)

	account, err := accounts.Get(ctx, "kid@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", account.Name, "RenameRecord must not write")

	profile := models.NewProfile()
	profile.Avatar = models.Avatar{Icon: "wise"}
	require.NoError(t, profiles.SaveWith(ctx, "kid@example.com", profile, rec))

	account, err = accounts.Get(ctx, "kid@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bo", account.Name)
	loaded, err := profiles.Load(ctx, "kid@example.com")
	require.NoError(t, err)
	assert.Equal(t, "wise", loaded.Avatar.Icon)

	_, err = accounts.RenameRecord(ctx, "ghost@example.com", "Bo")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
