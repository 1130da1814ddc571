// Package file implements a backend.Slot that keeps each key in its own JSON file.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flowdo/backend"
)

func init() {
	backend.Register("file", func(location string) (backend.Slot, error) {
		return New(Config{Dir: location})
	})
}

// Config holds file backend configuration
type Config struct {
	Dir string // Directory holding one <key>.json file per slot key
}

// Backend implements backend.Slot for file-based storage
type Backend struct {
	dir string // Resolved absolute path
}

// New creates a new file backend, creating the directory if needed
func New(cfg Config) (*Backend, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}

	// Resolve relative paths
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Backend{dir: dir}, nil
}

// Path returns the file used for key.
func (b *Backend) Path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Load reads the file for key
func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, backend.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return data, nil
}

// Save writes data to a temp file in the same directory and renames it over
// the slot file, so readers never observe a partial write.
func (b *Backend) Save(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}

	if err := os.Rename(tmpPath, b.Path(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace slot %q: %w", key, err)
	}
	return nil
}

// Delete removes the file for key
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(b.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Modified returns the modification time of the file for key.
func (b *Backend) Modified(ctx context.Context, key string) (*time.Time, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	info, err := os.Stat(b.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := info.ModTime().UTC()
	return &t, nil
}

// WatchPaths returns the snapshot file for key.
func (b *Backend) WatchPaths(key string) []string {
	return []string{b.Path(key)}
}

// Close closes the backend
func (b *Backend) Close() error {
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("slot key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid slot key: %q", key)
	}
	return nil
}
