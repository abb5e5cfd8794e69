package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sparkacademy/internal/logger"
	"sparkacademy/internal/models"
	"sparkacademy/internal/store"
)

// ProfileRepository persists one profile per account under profile-{email}
type ProfileRepository struct {
	kv   store.KV
	keys Keys
	log  *logger.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(kv store.KV, keys Keys, log *logger.Logger) *ProfileRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProfileRepository{kv: kv, keys: keys, log: log}
}

// Find returns the stored profile and whether one exists. Stored records are
// normalized; a record that cannot be decoded is logged and replaced by the
// default profile.
func (r *ProfileRepository) Find(ctx context.Context, email string) (*models.Profile, bool, error) {
	raw, err := r.kv.Get(ctx, r.keys.Profile(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		r.log.Warn("discarding undecodable profile", "email", email, "error", err)
		return models.NewProfile(), true, nil
	}
	profile.Normalize()
	return &profile, true, nil
}

// Load returns the stored profile or the default one when none exists
func (r *ProfileRepository) Load(ctx context.Context, email string) (*models.Profile, error) {
	profile, found, err := r.Find(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return models.NewProfile(), nil
	}
	return profile, nil
}

// Save overwrites the stored profile
func (r *ProfileRepository) Save(ctx context.Context, email string, profile *models.Profile) error {
	return r.SaveWith(ctx, email, profile)
}

// SaveWith overwrites the stored profile and writes extra in the same
// batch. Either every record is stored or none is.
func (r *ProfileRepository) SaveWith(ctx context.Context, email string, profile *models.Profile, extra ...Record) error {
	profile.SchemaVersion = models.ProfileSchemaVersion
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if len(extra) == 0 {
		if err := r.kv.Set(ctx, r.keys.Profile(email), string(data)); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	}

	values := map[string]string{r.keys.Profile(email): string(data)}
	for _, rec := range extra {
		values[rec.Key] = rec.Value
	}
	if err := store.SetMany(ctx, r.kv, values); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
