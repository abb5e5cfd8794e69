package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"sparkacademy/internal/logger"
)

// Fallback mirrors a primary KV into memory. The first time the primary
// reports ErrStorageUnavailable it is abandoned for the rest of the process
// and every operation is served from the mirror, so a session keeps working
// without persistence.
type Fallback struct {
	primary  KV
	mirror   *Memory
	log      *logger.Logger
	degraded atomic.Bool
	warnOnce sync.Once
}

func NewFallback(primary KV, log *logger.Logger) *Fallback {
	if log == nil {
		log = logger.NewNop()
	}
	return &Fallback{primary: primary, mirror: NewMemory(), log: log}
}

// NewOffline returns a Fallback that serves from memory from the start,
// for when the primary could not be opened at all.
func NewOffline(cause error, log *logger.Logger) *Fallback {
	f := NewFallback(nil, log)
	f.degraded.Store(true)
	f.warnOnce.Do(func() {
		f.log.Warn("storage unavailable, continuing in memory; progress will not survive a restart",
			"op", "open", "error", cause)
	})
	return f
}

// Degraded reports whether the primary has been abandoned.
func (f *Fallback) Degraded() bool {
	return f.degraded.Load()
}

// degrade switches to the mirror when err is a storage failure and reports
// whether it did.
func (f *Fallback) degrade(ctx context.Context, op string, err error) bool {
	if !errors.Is(err, ErrStorageUnavailable) || ctx.Err() != nil {
		return false
	}
	f.degraded.Store(true)
	f.warnOnce.Do(func() {
		f.log.Warn("storage unavailable, continuing in memory; progress will not survive a restart",
			"op", op, "error", err)
	})
	return true
}

func (f *Fallback) Get(ctx context.Context, key string) (string, error) {
	if f.Degraded() {
		return f.mirror.Get(ctx, key)
	}
	v, err := f.primary.Get(ctx, key)
	switch {
	case err == nil:
		_ = f.mirror.Set(ctx, key, v)
		return v, nil
	case errors.Is(err, ErrNotFound):
		_ = f.mirror.Delete(ctx, key)
		return "", err
	case f.degrade(ctx, "get", err):
		return f.mirror.Get(ctx, key)
	default:
		return "", err
	}
}

func (f *Fallback) Set(ctx context.Context, key, value string) error {
	if !f.Degraded() {
		if err := f.primary.Set(ctx, key, value); err != nil && !f.degrade(ctx, "set", err) {
			return err
		}
	}
	return f.mirror.Set(ctx, key, value)
}

func (f *Fallback) Delete(ctx context.Context, key string) error {
	if !f.Degraded() {
		if err := f.primary.Delete(ctx, key); err != nil && !f.degrade(ctx, "delete", err) {
			return err
		}
	}
	return f.mirror.Delete(ctx, key)
}

func (f *Fallback) Keys(ctx context.Context, prefix string) ([]string, error) {
	if f.Degraded() {
		return f.mirror.Keys(ctx, prefix)
	}
	keys, err := f.primary.Keys(ctx, prefix)
	if err != nil {
		if f.degrade(ctx, "keys", err) {
			return f.mirror.Keys(ctx, prefix)
		}
		return nil, err
	}
	return keys, nil
}

func (f *Fallback) SetMany(ctx context.Context, values map[string]string) error {
	if !f.Degraded() {
		if err := SetMany(ctx, f.primary, values); err != nil && !f.degrade(ctx, "set_many", err) {
			return err
		}
	}
	return f.mirror.SetMany(ctx, values)
}
