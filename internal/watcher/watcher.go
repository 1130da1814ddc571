// Package watcher reports changes to the files behind a storage slot so a
// running TUI can pick up writes made by another flowdo process.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"flowdo/internal/utils"
)

// DefaultDebounceDuration is the default debounce window for batching rapid changes.
const DefaultDebounceDuration = 150 * time.Millisecond

// Config holds file watcher configuration.
type Config struct {
	Paths            []string      // Files to watch; they may not exist yet
	DebounceDuration time.Duration // Debounce window to batch rapid changes
	OnChange         func()        // Called once per batch of changes
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(paths []string, onChange func()) *Config {
	return &Config{
		Paths:            paths,
		DebounceDuration: DefaultDebounceDuration,
		OnChange:         onChange,
	}
}

// Watcher monitors file system changes and triggers a callback.
//
// Files are replaced by rename and SQLite keeps side files next to the
// database, so each file's parent directory is watched and events are
// matched on the file name prefix ("flowdo.db" also matches
// "flowdo.db-journal").
type Watcher struct {
	cfg     *Config
	fsw     *fsnotify.Watcher
	names   map[string][]string // dir -> watched base names
	stopCh  chan struct{}
	started bool
	stopped bool
	mu      sync.Mutex
}

// New creates a new Watcher instance.
func New(cfg *Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if cfg.DebounceDuration <= 0 {
		cfg.DebounceDuration = DefaultDebounceDuration
	}

	names := make(map[string][]string)
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		dir := filepath.Dir(abs)
		names[dir] = append(names[dir], filepath.Base(abs))
	}

	return &Watcher{
		cfg:    cfg,
		fsw:    fsw,
		names:  names,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins watching the configured paths.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher has been stopped and cannot be restarted")
	}
	if w.started {
		return nil
	}

	for dir := range w.names {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			utils.Debugf("Not watching %s: directory does not exist", dir)
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
		utils.Debugf("Watching %s for %v", dir, w.names[dir])
	}

	w.started = true
	go w.eventLoop()
	return nil
}

// Stop stops the watcher and cleans up resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true
	close(w.stopCh)
	_ = w.fsw.Close()
}

// matches reports whether an event path belongs to a watched file.
func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	for _, name := range w.names[filepath.Dir(path)] {
		if strings.HasPrefix(base, name) {
			return true
		}
	}
	return false
}

// eventLoop processes fsnotify events with debouncing.
func (w *Watcher) eventLoop() {
	var debounceTimer *time.Timer
	debounceCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.cfg.DebounceDuration, func() {
				select {
				case debounceCh <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			utils.Debugf("Watcher error: %v", err)

		case <-debounceCh:
			if w.cfg.OnChange != nil {
				w.cfg.OnChange()
			}
		}
	}
}
