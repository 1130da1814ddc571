package backend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSlotEmpty is returned by Slot.Load when nothing has been saved under the key.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a durable key-value store holding whole serialized snapshots.
// Every Save replaces the previous value for the key.
type Slot interface {
	// Load returns the bytes saved under key, or ErrSlotEmpty.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Watchable is implemented by slots backed by files on disk so callers can
// watch them for writes made by other processes.
type Watchable interface {
	// WatchPaths returns the files whose modification signals a new value
	// for key. The files may not exist yet.
	WatchPaths(key string) []string
}

// Timestamped is implemented by slots that record when a key was last saved.
type Timestamped interface {
	// Modified returns the time of the last Save of key, or nil if the key
	// holds nothing.
	Modified(ctx context.Context, key string) (*time.Time, error)
}

// GenerateID generates a unique identifier using UUID v4.
// Collisions are treated as impossible and never checked.
func GenerateID() string {
	return uuid.New().String()
}
