package tui

import (
	"sync"

	"flowdo/internal/notification"
)

// StatusChannel is a notification channel that feeds the TUI status bar.
// Attach it to the manager with notification.WithChannel.
type StatusChannel struct {
	ch     chan notification.Notification
	once   sync.Once
	closed chan struct{}
}

// NewStatusChannel creates a status channel. Notifications that arrive while
// the buffer is full are dropped.
func NewStatusChannel() *StatusChannel {
	return &StatusChannel{
		ch:     make(chan notification.Notification, 16),
		closed: make(chan struct{}),
	}
}

func (s *StatusChannel) Send(n notification.Notification) error {
	select {
	case <-s.closed:
	case s.ch <- n:
	default:
	}
	return nil
}

func (s *StatusChannel) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}
