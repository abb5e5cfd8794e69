package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sparkacademy/internal/catalog"
	"sparkacademy/internal/models"
	"sparkacademy/internal/repository"
	"sparkacademy/internal/store"
)

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

// testCatalog has two beginner courses and one advanced course
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]models.Course{
		{
			ID: "c1", Slug: "what-is-ai", Title: "What is AI?", Description: "Meet the thinking machines",
			Difficulty: models.Beginner,
			Lessons: []models.Lesson{
				{ID: "l1", Title: "Hello Robot", Stars: 10, MissionType: models.MissionQuiz,
					Mission: models.Mission{Question: "Is a robot a computer?", Options: []string{"Yes", "No"}, CorrectAnswerIndex: 0}},
				{ID: "l2", Title: "Smart Helpers", Stars: 15, MissionType: models.MissionInfo,
					Mission: models.Mission{Text: "AI helps people."}},
			},
		},
		{
			ID: "c2", Slug: "block-coding", Title: "Block Coding", Description: "Snap blocks together",
			Difficulty: models.Beginner,
			Lessons: []models.Lesson{
				{ID: "b1", Title: "First Block", Stars: 50, MissionType: models.MissionInfo},
				{ID: "b2", Title: "Loops", Stars: 50, MissionType: models.MissionInfo},
			},
		},
		{
			ID: "c3", Slug: "neural-networks", Title: "Neural Networks", Description: "Brains made of math",
			Difficulty: models.Advanced,
			Lessons: []models.Lesson{
				{ID: "n1", Title: "Neurons", Stars: 60, MissionType: models.MissionInfo},
			},
		},
	})
	require.NoError(t, err)
	return cat
}

type testEnv struct {
	ctl      *SessionController
	kv       *store.Memory
	writes   *writeFailingKV
	accounts *repository.AccountRepository
	profiles *repository.ProfileRepository
	settings *repository.SettingsRepository
	clock    *fakeClock
}

// writeFailingKV passes through to a Memory but rejects writes to the
// keys in fail. It has no batch write, so store.SetMany goes key by key.
type writeFailingKV struct {
	inner *store.Memory
	fail  map[string]bool
}

func (w *writeFailingKV) Get(ctx context.Context, key string) (string, error) {
	return w.inner.Get(ctx, key)
}

func (w *writeFailingKV) Set(ctx context.Context, key, value string) error {
	if w.fail[key] {
		return fmt.Errorf("%w: write rejected", store.ErrStorageUnavailable)
	}
	return w.inner.Set(ctx, key, value)
}

func (w *writeFailingKV) Delete(ctx context.Context, key string) error {
	return w.inner.Delete(ctx, key)
}

func (w *writeFailingKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	return w.inner.Keys(ctx, prefix)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AddDays(n int) { c.now = c.now.AddDate(0, 0, n) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	kv := store.NewMemory()
	writes := &writeFailingKV{inner: kv, fail: map[string]bool{}}
	keys := repository.NewKeys("")
	env := &testEnv{
		kv:       kv,
		writes:   writes,
		accounts: repository.NewAccountRepository(writes, keys),
		profiles: repository.NewProfileRepository(writes, keys, nil),
		settings: repository.NewSettingsRepository(writes, keys),
		clock:    &fakeClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)},
	}
	env.ctl = NewSessionController(testCatalog(t), env.accounts, env.profiles, env.settings, nil)
	env.ctl.SetClock(env.clock.Now)
	env.ctl.SetLocation(time.UTC)
	return env
}

// signup registers and logs in kid@example.com
func (e *testEnv) signup(t *testing.T) *LoginResult {
	t.Helper()
	res, err := e.ctl.Signup(context.Background(), SignupRequest{
		Email: "kid@example.com", Password: "secret1", Name: "Ada", Age: 7,
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) storedProfile(t *testing.T) *models.Profile {
	t.Helper()
	p, err := e.profiles.Load(context.Background(), "kid@example.com")
	require.NoError(t, err)
	return p
}
