package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	fileExt   = ".json"
	tmpSuffix = ".tmp"
	filePerm  = 0644
)

// FileBackend stores each key as <dataDir>/<key>.json
type FileBackend struct {
	dataDir string
}

// NewFileBackend creates the data directory if needed. A leading "~/" is
// expanded to the user's home directory.
func NewFileBackend(dataDir string) (*FileBackend, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileBackend{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (f *FileBackend) Dir() string {
	return f.dataDir
}

func (f *FileBackend) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.dataDir, key+fileExt), nil
}

// GetItem reads the file for key
func (f *FileBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}

	return string(data), true, nil
}

// SetItem writes value to a temp file and renames it over the file for key,
// so a failed write never leaves a half-written value behind.
func (f *FileBackend) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmp := path + tmpSuffix
	if err := os.WriteFile(tmp, []byte(value), filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // nolint:errcheck
		return fmt.Errorf("replacing %s: %w", key, err)
	}

	return nil
}

// RemoveItem deletes the file for key
func (f *FileBackend) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// expandHome replaces a leading "~/" with the user's home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
