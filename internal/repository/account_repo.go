package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sparkacademy/internal/models"
	"sparkacademy/internal/store"
)

var (
	// ErrAccountExists is returned by Create when the email is taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrCorruptRecord is returned when a stored record cannot be decoded.
	ErrCorruptRecord = errors.New("stored record is corrupt")
)

// AccountRepository persists the email → account map under a single key
type AccountRepository struct {
	kv   store.KV
	keys Keys
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(kv store.KV, keys Keys) *AccountRepository {
	return &AccountRepository{kv: kv, keys: keys}
}

// All returns every stored account; an absent map is empty
func (r *AccountRepository) All(ctx context.Context) (map[string]models.Account, error) {
	raw, err := r.kv.Get(ctx, r.keys.Accounts())
	if errors.Is(err, store.ErrNotFound) {
		return map[string]models.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	accounts := map[string]models.Account{}
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("%w: accounts: %v", ErrCorruptRecord, err)
	}
	return accounts, nil
}

// Get retrieves an account by email, returning nil if none exists
func (r *AccountRepository) Get(ctx context.Context, email string) (*models.Account, error) {
	accounts, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	account, ok := accounts[email]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

// Create adds a new account
func (r *AccountRepository) Create(ctx context.Context, email string, account models.Account) error {
	accounts, err := r.All(ctx)
	if err != nil {
		return err
	}
	if _, ok := accounts[email]; ok {
		return ErrAccountExists
	}
	accounts[email] = account
	return r.save(ctx, accounts)
}

// UpdateName changes the display name of an existing account
func (r *AccountRepository) UpdateName(ctx context.Context, email, name string) error {
	rec, err := r.RenameRecord(ctx, email, name)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, rec.Key, rec.Value); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}

// RenameRecord encodes the account map with email renamed, without
// writing it, so it can go out in one batch with other records.
func (r *AccountRepository) RenameRecord(ctx context.Context, email, name string) (Record, error) {
	accounts, err := r.All(ctx)
	if err != nil {
		return Record{}, err
	}
	account, ok := accounts[email]
	if !ok {
		return Record{}, fmt.Errorf("failed to update name: %w", store.ErrNotFound)
	}
	account.Name = name
	accounts[email] = account
	return r.record(accounts)
}

func (r *AccountRepository) save(ctx context.Context, accounts map[string]models.Account) error {
	rec, err := r.record(accounts)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, rec.Key, rec.Value); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}
	return nil
}

func (r *AccountRepository) record(accounts map[string]models.Account) (Record, error) {
	data, err := json.Marshal(accounts)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode accounts: %w", err)
	}
	return Record{Key: r.keys.Accounts(), Value: string(data)}, nil
}
