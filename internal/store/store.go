// Package store holds the task store: tasks, projects, labels, saved filters
// and view selection, mutated through a fixed command set and written
// through to a backend slot after every change.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flowdo/backend"
	"flowdo/internal/notification"
	"flowdo/internal/utils"
)

// DefaultUpcomingDays is the width of the upcoming window, today included.
const DefaultUpcomingDays = 7

// CorruptSuffix is appended to the key when an unreadable snapshot is set aside.
const CorruptSuffix = ".corrupt"

// Store is the single owner of the snapshot. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state Snapshot

	slot         backend.Slot
	key          string
	upcomingDays int
	notifier     notification.NotificationManager
	now          func() time.Time
	newID        func() string

	lastSaved  []byte
	persistErr error

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObsID int
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key. Defaults to DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithUpcomingDays sets how many days, starting today, the upcoming view spans.
func WithUpcomingDays(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.upcomingDays = days
		}
	}
}

// WithNotifier routes refusals and write-through failures to a notification manager.
func WithNotifier(n notification.NotificationManager) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithClock overrides time.Now for date-dependent views.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides backend.GenerateID.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Open loads the snapshot stored under the configured key. An empty slot
// yields the default snapshot. Unreadable data is copied aside under
// "<key>.corrupt" and replaced by defaults; only slot I/O errors fail Open.
func Open(ctx context.Context, slot backend.Slot, opts ...Option) (*Store, error) {
	if slot == nil {
		return nil, errors.New("store: nil slot")
	}

	s := &Store{
		slot:         slot,
		key:          DefaultKey,
		upcomingDays: DefaultUpcomingDays,
		now:          time.Now,
		newID:        backend.GenerateID,
		observers:    make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := slot.Load(ctx, s.key)
	switch {
	case errors.Is(err, backend.ErrSlotEmpty):
		utils.Debugf("No snapshot under %q, starting from defaults", s.key)
		s.state = DefaultSnapshot()
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load snapshot %q: %w", s.key, err)
	}

	snap, err := Decode(data)
	if err != nil {
		utils.Warnf("Stored snapshot is unreadable, starting from defaults: %v", err)
		if saveErr := slot.Save(ctx, s.key+CorruptSuffix, data); saveErr != nil {
			utils.Warnf("Failed to preserve unreadable snapshot: %v", saveErr)
		}
		s.state = DefaultSnapshot()
		// Reload ignores the same bytes until someone writes a new snapshot.
		s.lastSaved = data
		return s, nil
	}

	utils.Debugf("Loaded snapshot %q: %d tasks, %d projects", s.key, len(snap.Tasks), len(snap.Projects))
	s.state = snap
	s.lastSaved = data
	return s, nil
}

// Key returns the slot key the store writes to.
func (s *Store) Key() string {
	return s.key
}

// UpcomingDays returns the width of the upcoming window.
func (s *Store) UpcomingDays() int {
	return s.upcomingDays
}

// Today returns the current local date according to the store's clock.
func (s *Store) Today() Date {
	return Today(s.now())
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Task looks up a task by id.
func (s *Store) Task(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.Task(id)
	if !ok {
		return Task{}, false
	}
	return t.clone(), true
}

// Project looks up a project by id.
func (s *Store) Project(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Project(id)
}

// Filter looks up a saved filter by id.
func (s *Store) Filter(id string) (Filter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Filter(id)
}

// Inbox returns the Inbox project.
func (s *Store) Inbox() Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inbox()
}

// inbox must be called with mu held.
func (s *Store) inbox() Project {
	if p, ok := s.state.Inbox(); ok {
		return p
	}
	return Project{ID: DefaultInboxID, Name: InboxName}
}

// VisibleTasks returns the derived task list for the current view selection.
func (s *Store) VisibleTasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return VisibleTasks(s.state, s.Today(), s.upcomingDays)
}

// PersistErr returns the error of the most recent write-through, or nil if
// it succeeded.
func (s *Store) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

// Subscribe registers fn to be called with a fresh snapshot after every
// applied change, including reloads. Calls happen outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Store) publish(snap Snapshot) {
	s.obsMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap.Clone())
	}
}

// apply runs mutate under the write lock. When mutate reports a change the
// snapshot is written through (if persist is set) and observers are notified.
func (s *Store) apply(ctx context.Context, persist bool, mutate func(st *Snapshot) bool) {
	s.mu.Lock()
	if !mutate(&s.state) {
		s.mu.Unlock()
		return
	}
	var saveErr error
	if persist {
		saveErr = s.persistLocked(ctx)
	}
	snap := s.state.Clone()
	s.mu.Unlock()

	if saveErr != nil {
		s.notify(notification.Notification{
			Type:    notification.NotifyPersistError,
			Title:   "Changes not saved",
			Message: saveErr.Error(),
		})
	}
	s.publish(snap)
}

// persistLocked writes the whole snapshot to the slot. Failures are logged
// and remembered; the in-memory state stays authoritative.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.state)
	if err == nil {
		err = s.slot.Save(ctx, s.key, data)
	}
	if err != nil {
		err = fmt.Errorf("failed to save snapshot %q: %w", s.key, err)
		utils.Warnf("%v", err)
		s.persistErr = err
		return err
	}
	s.persistErr = nil
	s.lastSaved = data
	return nil
}

func (s *Store) notify(n notification.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(n); err != nil {
		utils.Debugf("Notification delivery failed: %v", err)
	}
}

// Reload re-reads the slot, picking up writes made by another process.
// It reports whether the snapshot changed. An empty slot or bytes equal to
// the last write leave the state untouched. The edit selection survives a
// reload only while the task still exists.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	data, err := s.slot.Load(ctx, s.key)
	if errors.Is(err, backend.ErrSlotEmpty) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to reload snapshot %q: %w", s.key, err)
	}

	s.mu.Lock()
	if bytes.Equal(data, s.lastSaved) {
		s.mu.Unlock()
		return false, nil
	}

	snap, err := Decode(data)
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("ignoring unreadable snapshot %q: %w", s.key, err)
	}

	if s.state.EditingTask != nil {
		if t, ok := snap.Task(s.state.EditingTask.ID); ok {
			editing := t.clone()
			snap.EditingTask = &editing
		}
	}
	s.state = snap
	s.lastSaved = data
	out := s.state.Clone()
	s.mu.Unlock()

	utils.Debugf("Reloaded snapshot %q: %d tasks", s.key, len(out.Tasks))
	s.publish(out)
	return true, nil
}
