package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned when no backend is configured or it cannot be reached.
var ErrUnavailable = errors.New("storage backend is not available")

// Backend is a durable string key-value store.
type Backend interface {
	// GetItem returns the value stored under key. found is false when the
	// key has never been set or has been removed.
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// validateKey rejects keys that cannot be used as a single file name.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty storage key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key: %q", key)
	}
	return nil
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*EncryptedBackend)(nil)
	_ Backend = (*SQLiteBackend)(nil)
)
