// Package testutil provides shared test utilities for CLI testing across packages.
// This enables co-located CLI tests while maintaining consistent test infrastructure.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flowdo/backend/file"
	"flowdo/backend/sqlite"
	"flowdo/cmd/flowdo/cmd"
	"flowdo/internal/notification"
	"flowdo/internal/store"
)

// defaultTestConfig is the minimal config used by most test constructors to ensure isolation.
const defaultTestConfig = "# test config\ndefault_backend: file\n"

// CLITest provides a test helper for running CLI commands in isolation.
type CLITest struct {
	t                   *testing.T
	cfg                 *cmd.Config
	tmpDir              string
	configPath          string
	notificationLogPath string
}

func newCLITest(t *testing.T, config string) *CLITest {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write a minimal default config to ensure isolation
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	cfg := &cmd.Config{
		NoPrompt:   true,
		DataDir:    filepath.Join(tmpDir, "data"),
		ConfigPath: configPath,
	}

	return &CLITest{
		t:          t,
		cfg:        cfg,
		tmpDir:     tmpDir,
		configPath: configPath,
	}
}

// NewCLITest creates a new CLI test helper backed by a JSON file in a temp directory.
func NewCLITest(t *testing.T) *CLITest {
	t.Helper()
	return newCLITest(t, defaultTestConfig)
}

// NewCLITestWithSQLite creates a new CLI test helper backed by a SQLite database.
func NewCLITestWithSQLite(t *testing.T) *CLITest {
	t.Helper()
	c := newCLITest(t, defaultTestConfig)
	c.cfg.Backend = "sqlite"
	return c
}

// NewCLITestWithNotification creates a new CLI test helper whose notifications
// are also written to a log file in the temp directory.
func NewCLITestWithNotification(t *testing.T) *CLITest {
	t.Helper()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "notifications.log")
	config := defaultTestConfig +
		"notification:\n" +
		"  enabled: true\n" +
		"  log_notification:\n" +
		"    enabled: true\n" +
		"    path: " + logPath + "\n"

	c := newCLITest(t, config)
	c.notificationLogPath = logPath
	return c
}

// Config returns the test configuration.
func (c *CLITest) Config() *cmd.Config {
	return c.cfg
}

// TmpDir returns the temporary directory for the test.
func (c *CLITest) TmpDir() string {
	return c.tmpDir
}

// DataDir returns the directory both backends store their data in.
func (c *CLITest) DataDir() string {
	return c.cfg.DataDir
}

// ConfigPath returns the path to the config file.
func (c *CLITest) ConfigPath() string {
	return c.configPath
}

// SetConfigValue appends a top-level key-value pair to the test config file.
func (c *CLITest) SetConfigValue(key, value string) {
	c.t.Helper()

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		c.t.Fatalf("failed to read config file: %v", err)
	}

	newConfig := string(data) + key + ": " + value + "\n"

	if err := os.WriteFile(c.configPath, []byte(newConfig), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// SetFullConfig replaces the entire config file with the given YAML content.
func (c *CLITest) SetFullConfig(yamlContent string) {
	c.t.Helper()

	if err := os.WriteFile(c.configPath, []byte(yamlContent), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// SetNow pins the clock used for relative dates and the Today/Upcoming views.
func (c *CLITest) SetNow(now time.Time) {
	c.cfg.Now = func() time.Time { return now }
}

// SetInteractive turns prompts on and feeds them input.
func (c *CLITest) SetInteractive(input string) {
	interactive := true
	c.cfg.NoPrompt = false
	c.cfg.Interactive = &interactive
	c.cfg.Stdin = strings.NewReader(input)
}

// NotificationLogPath returns the notification log written by NewCLITestWithNotification.
func (c *CLITest) NotificationLogPath() string {
	return c.notificationLogPath
}

// GetNotificationLog returns the logged notification lines.
func (c *CLITest) GetNotificationLog() []string {
	c.t.Helper()

	if c.notificationLogPath == "" {
		c.t.Fatalf("GetNotificationLog requires a CLITest created with NewCLITestWithNotification")
	}
	lines, err := notification.ReadLog(c.notificationLogPath)
	if err != nil {
		c.t.Fatalf("failed to read notification log: %v", err)
	}
	return lines
}

// Snapshot loads the persisted state directly from the backend the CLI writes to.
func (c *CLITest) Snapshot() store.Snapshot {
	c.t.Helper()

	var (
		s   *store.Store
		err error
	)
	ctx := context.Background()
	if c.cfg.Backend == "sqlite" {
		slot, openErr := sqlite.New(filepath.Join(c.cfg.DataDir, "flowdo.db"))
		if openErr != nil {
			c.t.Fatalf("failed to open sqlite backend: %v", openErr)
		}
		defer func() { _ = slot.Close() }()
		s, err = store.Open(ctx, slot)
	} else {
		slot, openErr := file.New(file.Config{Dir: c.cfg.DataDir})
		if openErr != nil {
			c.t.Fatalf("failed to open file backend: %v", openErr)
		}
		defer func() { _ = slot.Close() }()
		s, err = store.Open(ctx, slot)
	}
	if err != nil {
		c.t.Fatalf("failed to load store: %v", err)
	}
	return s.Snapshot()
}

// Execute runs a CLI command with the given arguments and returns stdout, stderr, and exit code.
func (c *CLITest) Execute(args ...string) (stdout, stderr string, exitCode int) {
	c.t.Helper()

	var stdoutBuf, stderrBuf bytes.Buffer
	exitCode = cmd.Execute(args, &stdoutBuf, &stderrBuf, c.cfg)
	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

// MustExecute runs a CLI command and fails the test if exit code is non-zero.
func (c *CLITest) MustExecute(args ...string) string {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode != 0 {
		c.t.Fatalf("expected exit code 0, got %d: stdout=%s stderr=%s", exitCode, stdout, stderr)
	}
	return stdout
}

// ExecuteAndFail runs a CLI command and fails the test if exit code is zero.
func (c *CLITest) ExecuteAndFail(args ...string) (stdout, stderr string) {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode == 0 {
		c.t.Fatalf("expected non-zero exit code, got 0: stdout=%s", stdout)
	}
	return stdout, stderr
}

// AssertContains fails the test if output doesn't contain expected string.
func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// AssertNotContains fails the test if output contains unexpected string.
func AssertNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	if strings.Contains(output, unexpected) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", unexpected, output)
	}
}

// AssertExitCode fails the test if exit code doesn't match expected.
func AssertExitCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// AssertResultCode verifies that the output ends with the expected result code.
func AssertResultCode(t *testing.T, output, expectedCode string) {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		t.Errorf("expected result code %q but output is empty", expectedCode)
		return
	}
	lastLine := strings.TrimSpace(lines[len(lines)-1])
	if lastLine != expectedCode {
		t.Errorf("expected result code %q, got %q\nFull output:\n%s", expectedCode, lastLine, output)
	}
}

// Result code constants for convenience.
const (
	ResultActionCompleted = cmd.ResultActionCompleted
	ResultInfoOnly        = cmd.ResultInfoOnly
	ResultError           = cmd.ResultError
)
