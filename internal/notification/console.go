package notification

import (
	"fmt"
	"io"
	"sync"
)

// consoleChannel prints notifications as single lines, typically to stderr.
type consoleChannel struct {
	w  io.Writer
	mu sync.Mutex
}

// NewConsoleChannel creates a channel that writes "Title: Message" lines to w.
func NewConsoleChannel(w io.Writer) NotificationChannel {
	return &consoleChannel{w: w}
}

func (c *consoleChannel) Send(n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if n.Title != "" {
		_, err = fmt.Fprintf(c.w, "%s: %s\n", n.Title, n.Message)
	} else {
		_, err = fmt.Fprintln(c.w, n.Message)
	}
	return err
}

func (c *consoleChannel) Close() error {
	return nil
}
