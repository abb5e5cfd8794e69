// Package store holds the key-value abstraction the learner's data is
// persisted through, with in-memory, Redis and degraded-mode backends.
// The SQL backend lives in the repository package.
package store

import (
	"context"
	"errors"
	"sort"
)

var (
	// ErrNotFound is returned when a key holds no value.
	ErrNotFound = errors.New("store: key not found")

	// ErrStorageUnavailable is returned when the backend cannot be reached
	// or rejects the operation.
	ErrStorageUnavailable = errors.New("store: storage unavailable")

	// ErrEmptyKey is returned when an empty key is provided.
	ErrEmptyKey = errors.New("store: key cannot be empty")
)

// KV is a string key-value store. Values are opaque strings; callers
// store JSON.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// BatchSetter is implemented by backends that can write several keys
// atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, values map[string]string) error
}

// SetMany writes values through kv's BatchSetter when it has one.
// Otherwise keys are written one by one in sorted order, and a failed
// write puts the keys already written back to their previous values.
func SetMany(ctx context.Context, kv KV, values map[string]string) error {
	if b, ok := kv.(BatchSetter); ok {
		return b.SetMany(ctx, values)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "" {
			return ErrEmptyKey
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	written := make([]previous, 0, len(keys))
	for _, k := range keys {
		old, err := kv.Get(ctx, k)
		existed := err == nil
		if err != nil && !errors.Is(err, ErrNotFound) {
			rollback(ctx, kv, written)
			return err
		}
		if err := kv.Set(ctx, k, values[k]); err != nil {
			rollback(ctx, kv, written)
			return err
		}
		written = append(written, previous{key: k, value: old, existed: existed})
	}
	return nil
}

type previous struct {
	key     string
	value   string
	existed bool
}

// rollback restores written keys, newest first. Its own failures are
// dropped; the caller reports the original error.
func rollback(ctx context.Context, kv KV, written []previous) {
	for i := len(written) - 1; i >= 0; i-- {
		p := written[i]
		if p.existed {
			_ = kv.Set(ctx, p.key, p.value)
		} else {
			_ = kv.Delete(ctx, p.key)
		}
	}
}
