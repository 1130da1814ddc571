package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"flowdo/backend"
)

// mustNewBackend creates an in-memory backend and registers cleanup
func mustNewBackend(t *testing.T) (*Backend, context.Context) {
	t.Helper()
	b, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b, context.Background()
}

// TestBackendImplementsInterface verifies the Backend type implements Slot.
func TestBackendImplementsInterface(t *testing.T) {
	var _ backend.Slot = (*Backend)(nil)
	var _ backend.Watchable = (*Backend)(nil)
	var _ backend.Timestamped = (*Backend)(nil)
}

// TestLoadEmptySlot verifies that an unsaved key reports ErrSlotEmpty.
func TestLoadEmptySlot(t *testing.T) {
	b, ctx := mustNewBackend(t)

	_, err := b.Load(ctx, "flowdo-storage")
	if !errors.Is(err, backend.ErrSlotEmpty) {
		t.Fatalf("Load() error = %v, want ErrSlotEmpty", err)
	}
}

// TestSaveAndLoad verifies that saved bytes come back unchanged.
func TestSaveAndLoad(t *testing.T) {
	b, ctx := mustNewBackend(t)

	want := `{"state":{"tasks":[]},"version":0}`
	if err := b.Save(ctx, "flowdo-storage", []byte(want)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := b.Load(ctx, "flowdo-storage")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

// TestSaveReplaces verifies that a second Save overwrites the first.
func TestSaveReplaces(t *testing.T) {
	b, ctx := mustNewBackend(t)

	if err := b.Save(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := b.Save(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := b.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Load() = %q, want %q", got, "second")
	}

	modified, err := b.Modified(ctx, "k")
	if err != nil {
		t.Fatalf("Modified() error: %v", err)
	}
	if modified == nil {
		t.Error("Modified() returned nil for a saved key")
	}
}

// TestKeysAreIndependent verifies that keys do not share values.
func TestKeysAreIndependent(t *testing.T) {
	b, ctx := mustNewBackend(t)

	if err := b.Save(ctx, "a", []byte("A")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := b.Load(ctx, "b"); !errors.Is(err, backend.ErrSlotEmpty) {
		t.Errorf("Load(b) error = %v, want ErrSlotEmpty", err)
	}
}

// TestDelete verifies that Delete empties the slot and tolerates missing keys.
func TestDelete(t *testing.T) {
	b, ctx := mustNewBackend(t)

	if err := b.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := b.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := b.Load(ctx, "k"); !errors.Is(err, backend.ErrSlotEmpty) {
		t.Errorf("Load() after Delete error = %v, want ErrSlotEmpty", err)
	}
	if err := b.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	modified, err := b.Modified(ctx, "k")
	if err != nil {
		t.Fatalf("Modified() error: %v", err)
	}
	if modified != nil {
		t.Errorf("Modified() = %v, want nil after Delete", modified)
	}
}

// TestPersistsAcrossReopen verifies values survive closing the database.
func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flowdo.db")
	ctx := context.Background()

	b, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := b.Save(ctx, "k", []byte("kept")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	_ = b.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != "kept" {
		t.Errorf("Load() = %q, want %q", got, "kept")
	}

	paths := reopened.WatchPaths("k")
	if len(paths) != 1 || paths[0] != path {
		t.Errorf("WatchPaths() = %v, want [%s]", paths, path)
	}
}

// TestMemoryHasNoWatchPaths verifies in-memory databases are not watched.
func TestMemoryHasNoWatchPaths(t *testing.T) {
	b, _ := mustNewBackend(t)
	if paths := b.WatchPaths("k"); len(paths) != 0 {
		t.Errorf("WatchPaths() = %v, want none", paths)
	}
}

// TestRegistered verifies the backend is reachable through backend.Open.
func TestRegistered(t *testing.T) {
	slot, err := backend.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("backend.Open(sqlite) error: %v", err)
	}
	defer func() { _ = slot.Close() }()

	if _, ok := slot.(*Backend); !ok {
		t.Errorf("backend.Open(sqlite) returned %T", slot)
	}
}
