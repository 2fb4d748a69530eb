// Package database opens libsql connections for local files and remote Turso databases.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// Open connects to databaseURL. Local paths are accepted with or without the
// "file:" scheme; the auth token is only appended for remote URLs.
func Open(databaseURL, authToken string) (*sql.DB, error) {
	return OpenWithOptions(databaseURL, authToken, true)
}

// OpenWithOptions is Open with an optional initial ping.
func OpenWithOptions(databaseURL, authToken string, ping bool) (*sql.DB, error) {
	connStr := ConnString(databaseURL, authToken)
	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if IsRemote(databaseURL) {
		// Turso closes idle Hrana streams; stale pooled connections fail with
		// "stream not found".
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(0)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetMaxOpenConns(1)
	}

	if ping {
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}
	return db, nil
}

// IsRemote reports whether databaseURL points at a libsql server.
func IsRemote(databaseURL string) bool {
	for _, scheme := range []string{"libsql://", "https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return true
		}
	}
	return false
}

// ConnString builds the driver DSN for databaseURL.
func ConnString(databaseURL, authToken string) string {
	if !IsRemote(databaseURL) {
		if strings.HasPrefix(databaseURL, "file:") {
			return databaseURL
		}
		return "file:" + databaseURL
	}
	if authToken == "" {
		return databaseURL
	}
	return databaseURL + "?authToken=" + authToken
}

// IsStreamError checks if an error is a Turso "stream not found" error.
func IsStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

// WithRetry runs fn again, up to maxRetries times, while it fails with a
// stream error.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
