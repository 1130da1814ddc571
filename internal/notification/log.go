package notification

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const defaultLogMaxSizeMB = 1

// logTimeFormat keeps log lines sortable and independent of the local zone.
const logTimeFormat = "2006-01-02T15:04:05Z"

// logNotificationChannel appends one line per notification to a file.
// The file is opened for each line so that several flowdo processes (a CLI
// call next to a running TUI) can share it.
type logNotificationChannel struct {
	path    string
	maxSize int64
	mu      sync.Mutex
}

// NewLogNotificationChannel creates a new log notification channel
func NewLogNotificationChannel(cfg *LogNotificationConfig) NotificationChannel {
	maxMB := cfg.MaxSizeMB
	if maxMB <= 0 {
		maxMB = defaultLogMaxSizeMB
	}
	return &logNotificationChannel{
		path:    cfg.Path,
		maxSize: int64(maxMB) * 1024 * 1024,
	}
}

// FormatLogLine renders a notification as "2026-01-16T10:30:00Z [REFUSAL] message".
func FormatLogLine(n Notification) string {
	return fmt.Sprintf("%s [%s] %s", n.Timestamp.UTC().Format(logTimeFormat), strings.ToUpper(string(n.Type)), n.Message)
}

// Send appends the notification to the log file, moving an oversized log
// to "<path>.old" first.
func (c *logNotificationChannel) Send(n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := c.rotate(); err != nil {
		return err
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open notification log: %w", err)
	}
	if _, err := fmt.Fprintln(f, FormatLogLine(n)); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return f.Close()
}

func (c *logNotificationChannel) rotate() error {
	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() < c.maxSize {
		return nil
	}
	if err := os.Rename(c.path, c.path+".old"); err != nil {
		return fmt.Errorf("failed to rotate notification log: %w", err)
	}
	return nil
}

// Close is a no-op; the file is closed after every line.
func (c *logNotificationChannel) Close() error {
	return nil
}

// ReadLog returns the lines of a notification log. A missing log reads as
// empty.
func ReadLog(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
