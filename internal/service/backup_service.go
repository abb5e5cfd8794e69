package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sparkacademy/internal/logger"
	"sparkacademy/internal/store"
)

const backupVersion = "1.0"

// BackupData is the portable export of every key under the storage prefix
type BackupData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Prefix     string            `json:"prefix"`
	Entries    map[string]string `json:"entries"`
}

// BackupService copies the key space between a store and a JSON file, so
// data can move between storage backends.
type BackupService struct {
	kv     store.KV
	prefix string
	log    *logger.Logger
	now    func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(kv store.KV, prefix string, log *logger.Logger) *BackupService {
	if log == nil {
		log = logger.NewNop()
	}
	return &BackupService{kv: kv, prefix: prefix, log: log, now: time.Now}
}

// Export writes a complete backup to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	s.log.Info("backup exported", "path", outputPath)
	return nil
}

// ExportToWriter exports every prefixed key to w as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	keys, err := s.kv.Keys(ctx, s.prefix)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: s.now().UTC(),
		Prefix:     s.prefix,
		Entries:    make(map[string]string, len(keys)),
	}
	for _, key := range keys {
		value, err := s.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		backup.Entries[key] = value
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("exported keys", "count", len(keys))
	return nil
}

// Import restores a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup in one batch. Entries outside the
// service's prefix are rejected; existing keys not in the backup are kept.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	for key := range backup.Entries {
		if !strings.HasPrefix(key, s.prefix) {
			return fmt.Errorf("backup key %q is outside prefix %q", key, s.prefix)
		}
	}

	if err := store.SetMany(ctx, s.kv, backup.Entries); err != nil {
		return fmt.Errorf("failed to import entries: %w", err)
	}

	s.log.Info("imported keys", "count", len(backup.Entries), "exported_at", backup.ExportedAt)
	return nil
}

// Clear deletes every key under the prefix and returns how many were removed
func (s *BackupService) Clear(ctx context.Context) (int, error) {
	keys, err := s.kv.Keys(ctx, s.prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list keys: %w", err)
	}
	for i, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return i, fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	s.log.Warn("cleared stored data", "count", len(keys))
	return len(keys), nil
}
