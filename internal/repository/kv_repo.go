package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"sparkacademy/internal/database"
	"sparkacademy/internal/store"
)

// KVRepository implements store.KV on the kv_store table.
type KVRepository struct {
	db *database.DB
}

// NewKVRepository creates a new SQL-backed key-value repository
func NewKVRepository(db *database.DB) *KVRepository {
	return &KVRepository{db: db}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
}

// Get retrieves the value stored under key
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", store.ErrEmptyKey
	}
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT store_value FROM kv_store WHERE store_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", unavailable(err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	return upsert(ctx, r.db, key, value)
}

// Delete removes key; deleting an absent key is not an error
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kv_store WHERE store_key = ?", key); err != nil {
		return unavailable(err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Keys lists the keys starting with prefix
func (r *KVRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	var rows []string
	query := "SELECT store_key FROM kv_store WHERE store_key LIKE ? ESCAPE '!'"
	if err := r.db.SelectContext(ctx, &rows, query, likeEscaper.Replace(prefix)+"%"); err != nil {
		return nil, unavailable(err)
	}

	// MySQL's default collation matches LIKE case-insensitively
	keys := rows[:0]
	for _, k := range rows {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// SetMany writes all values in a single transaction
func (r *KVRepository) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback()

	for k, v := range values {
		if err := upsert(ctx, tx, k, v); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable(err)
	}
	return nil
}

func upsert(ctx context.Context, db database.DBTX, key, value string) error {
	if key == "" {
		return store.ErrEmptyKey
	}
	if _, err := db.ExecContext(ctx, db.GetDialect().UpsertKVQuery(), key, value); err != nil {
		return unavailable(err)
	}
	return nil
}
