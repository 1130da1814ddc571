// Package shutdown coordinates teardown of a long-running session such as the
// TUI: signal handling, registered cleanups and a context that ends with it.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"flowdo/internal/utils"
)

// CleanupFunc releases one resource. The context ends when Wait gives up.
type CleanupFunc func(ctx context.Context) error

type cleanupEntry struct {
	name string
	fn   CleanupFunc
}

// Manager handles graceful shutdown coordination.
type Manager struct {
	mu       sync.Mutex
	cleanups []cleanupEntry
	shutdown bool
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
	waited   sync.Once
}

// NewManager creates a manager whose context derives from parent.
func NewManager(parent context.Context) *Manager {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Manager{
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// RegisterCleanup registers fn to run during Wait.
// Cleanups run in LIFO order (last registered, first called).
func (m *Manager) RegisterCleanup(name string, fn CleanupFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, cleanupEntry{name: name, fn: fn})
}

// Shutdown marks the session as ending and cancels Context.
// Safe to call multiple times; only the first call has effect.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.mu.Lock()
		m.shutdown = true
		m.mu.Unlock()

		m.cancel()
		close(m.done)
	})
}

// Done is closed once Shutdown has been called.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// NotifyOnSignal calls Shutdown when one of sigs arrives (os.Interrupt when
// none are given). The returned function stops listening.
func (m *Manager) NotifyOnSignal(sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	quit := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			utils.Debugf("Received %s, shutting down", sig)
			m.Shutdown()
		case <-quit:
		}
	}()

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			signal.Stop(ch)
			close(quit)
		})
	}
}

func (m *Manager) runCleanups(ctx context.Context) {
	m.mu.Lock()
	cleanups := make([]cleanupEntry, len(m.cleanups))
	copy(cleanups, m.cleanups)
	m.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i].fn(ctx); err != nil {
			utils.Warnf("Cleanup %s failed: %v", cleanups[i].name, err)
		}
	}
}

// Wait shuts down if that has not happened yet and runs the cleanups once.
// It returns ctx.Err() when ctx ends before the cleanups finish.
func (m *Manager) Wait(ctx context.Context) error {
	m.Shutdown()

	done := make(chan struct{})
	go func() {
		m.waited.Do(func() { m.runCleanups(ctx) })
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsShutdown reports whether Shutdown has been called.
func (m *Manager) IsShutdown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown
}

// Context is cancelled when Shutdown is called.
func (m *Manager) Context() context.Context {
	return m.ctx
}
