package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flowdo/backend"
	"flowdo/internal/notification"
	"flowdo/internal/store"
)

// memSlot is an in-memory backend.Slot that counts writes and can fail on demand.
type memSlot struct {
	mu       sync.Mutex
	data     map[string][]byte
	saves    int
	saveErr  error
	loadErr  error
	isClosed bool
}

func newMemSlot() *memSlot {
	return &memSlot{data: make(map[string][]byte)}
}

func (m *memSlot) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, backend.ErrSlotEmpty
	}
	return append([]byte(nil), v...), nil
}

func (m *memSlot) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memSlot) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memSlot) Close() error {
	m.isClosed = true
	return nil
}

func (m *memSlot) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memSlot) raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

var _ backend.Slot = (*memSlot)(nil)

// fixedNow is 2024-01-01 09:00 local time.
var fixedNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// openStore opens a store over slot with a fixed clock and predictable ids.
func openStore(t *testing.T, slot backend.Slot, opts ...store.Option) *store.Store {
	t.Helper()
	base := []store.Option{
		store.WithClock(func() time.Time { return fixedNow }),
		store.WithIDGenerator(sequentialIDs()),
	}
	s, err := store.Open(context.Background(), slot, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func newStore(t *testing.T, opts ...store.Option) (*store.Store, *memSlot) {
	t.Helper()
	slot := newMemSlot()
	return openStore(t, slot, opts...), slot
}

// recordingNotifier collects notifications sent through a real manager.
func recordingNotifier(t *testing.T) (notification.NotificationManager, *[]notification.Notification) {
	t.Helper()
	var mu sync.Mutex
	var got []notification.Notification
	mgr, err := notification.NewManager(nil, notification.WithSendCallback(func(n notification.Notification) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, n)
	}))
	require.NoError(t, err)
	return mgr, &got
}

func date(t *testing.T, s string) *store.Date {
	t.Helper()
	d, err := store.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func ptr(s string) *string {
	return &s
}
