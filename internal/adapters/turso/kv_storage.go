package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/sprintsheet/internal/database"
)

const streamRetries = 2

// KVStorage keeps timesheet state in the kv_store table.
type KVStorage struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVStorage(db *sql.DB) *KVStorage {
	return &KVStorage{db: db, now: time.Now}
}

// Get retries reads that hit an expired Turso stream.
func (s *KVStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := database.WithRetry(ctx, streamRetries, func() (string, error) {
		var v string
		err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&v)
		return v, err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes once. A failed write is reported to the Store, which logs it
// and keeps its in-memory state.
func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
