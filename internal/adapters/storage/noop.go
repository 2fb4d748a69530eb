package storage

import "context"

// NoOp is the storage used when persistence is unavailable: nothing is ever
// found and every write succeeds without effect.
type NoOp struct{}

// NewNoOp creates a new no-op storage for graceful degradation.
func NewNoOp() NoOp {
	return NoOp{}
}

func (NoOp) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (NoOp) Set(ctx context.Context, key, value string) error {
	return nil
}
