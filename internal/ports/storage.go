package ports

import "context"

// Keys used by the timesheet store.
const (
	KeyTimesheet = "timesheet"
	KeyProjects  = "projects"
)

// Storage is a synchronous key-value store holding JSON-encoded values.
type Storage interface {
	// Get returns the value stored under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
