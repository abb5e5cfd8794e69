package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sparkacademy/internal/store"
)

// SettingsRepository owns the small session markers stored next to the
// profiles
type SettingsRepository struct {
	kv   store.KV
	keys Keys
}

func NewSettingsRepository(kv store.KV, keys Keys) *SettingsRepository {
	return &SettingsRepository{kv: kv, keys: keys}
}

// getString reads a JSON string value. Bare strings written by older
// clients are accepted as-is.
func (r *SettingsRepository) getString(ctx context.Context, key string) (string, error) {
	raw, err := r.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var value string
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw, nil
	}
	return value, nil
}

func (r *SettingsRepository) setString(ctx context.Context, key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, key, string(data))
}

// LoggedInEmail returns the email of the auto-login account, or "" if none
func (r *SettingsRepository) LoggedInEmail(ctx context.Context) (string, error) {
	email, err := r.getString(ctx, r.keys.LoggedIn())
	if err != nil {
		return "", fmt.Errorf("failed to read loggedIn marker: %w", err)
	}
	return email, nil
}

func (r *SettingsRepository) SetLoggedIn(ctx context.Context, email string) error {
	if err := r.setString(ctx, r.keys.LoggedIn(), email); err != nil {
		return fmt.Errorf("failed to write loggedIn marker: %w", err)
	}
	return nil
}

func (r *SettingsRepository) ClearLoggedIn(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.keys.LoggedIn()); err != nil {
		return fmt.Errorf("failed to clear loggedIn marker: %w", err)
	}
	return nil
}

// LastLoggedInEmail returns the email remembered at the last logout
func (r *SettingsRepository) LastLoggedInEmail(ctx context.Context) (string, error) {
	email, err := r.getString(ctx, r.keys.LastLoggedInEmail())
	if err != nil {
		return "", fmt.Errorf("failed to read last email: %w", err)
	}
	return email, nil
}

func (r *SettingsRepository) SetLastLoggedInEmail(ctx context.Context, email string) error {
	if err := r.setString(ctx, r.keys.LastLoggedInEmail(), email); err != nil {
		return fmt.Errorf("failed to write last email: %w", err)
	}
	return nil
}

// GuideSeen reports whether the onboarding guide was dismissed for email
func (r *SettingsRepository) GuideSeen(ctx context.Context, email string) (bool, error) {
	_, err := r.kv.Get(ctx, r.keys.GuideSeen(email))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read guide marker: %w", err)
	}
	return true, nil
}

func (r *SettingsRepository) MarkGuideSeen(ctx context.Context, email string) error {
	if err := r.kv.Set(ctx, r.keys.GuideSeen(email), "true"); err != nil {
		return fmt.Errorf("failed to write guide marker: %w", err)
	}
	return nil
}
