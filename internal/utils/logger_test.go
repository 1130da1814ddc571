package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

// newTestLogger returns a fresh logger writing into a buffer.
func newTestLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{out: &buf}, &buf
}

// TestGetLogger verifies singleton pattern - same instance returned
func TestGetLogger(t *testing.T) {
	logger1 := GetLogger()
	logger2 := GetLogger()

	if logger1 != logger2 {
		t.Error("GetLogger() should return same singleton instance")
	}
}

// TestLoggerDefaultVerboseMode verifies verbose is false by default
func TestLoggerDefaultVerboseMode(t *testing.T) {
	once = sync.Once{}
	loggerInstance = nil

	logger := GetLogger()
	if logger.IsVerbose() {
		t.Error("Logger should have verbose=false by default")
	}
}

// TestSetVerboseMode verifies SetVerboseMode changes verbose state
func TestSetVerboseMode(t *testing.T) {
	once = sync.Once{}
	loggerInstance = nil

	SetVerboseMode(true)
	logger := GetLogger()
	if !logger.IsVerbose() {
		t.Error("SetVerboseMode(true) should enable verbose mode")
	}

	SetVerboseMode(false)
	if logger.IsVerbose() {
		t.Error("SetVerboseMode(false) should disable verbose mode")
	}
}

// TestDebugOnlyShownWhenVerbose verifies Debug is gated on verbose mode
func TestDebugOnlyShownWhenVerbose(t *testing.T) {
	logger, buf := newTestLogger()

	logger.Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("Debug should be silent when not verbose, got %q", buf.String())
	}

	logger.SetVerbose(true)
	logger.Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Errorf("Debug output missing, got %q", buf.String())
	}
}

// TestLogLevelPrefixes verifies each level carries its prefix
func TestLogLevelPrefixes(t *testing.T) {
	tests := []struct {
		name   string
		log    func(l *Logger)
		prefix string
	}{
		{"info", func(l *Logger) { l.Info("message") }, "[INFO] message"},
		{"warn", func(l *Logger) { l.Warn("message") }, "[WARN] message"},
		{"error", func(l *Logger) { l.Error("message") }, "[ERROR] message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger()
			tt.log(logger)
			if !strings.Contains(buf.String(), tt.prefix) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.prefix)
			}
		})
	}
}

// TestMessageWithoutArgsIsNotFormatted verifies percent signs survive
func TestMessageWithoutArgsIsNotFormatted(t *testing.T) {
	logger, buf := newTestLogger()
	logger.Info("100% done")
	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("got %q", buf.String())
	}
}

// TestVerboseTimestampFormat verifies debug lines start with HH:MM:SS
func TestVerboseTimestampFormat(t *testing.T) {
	logger, buf := newTestLogger()
	logger.SetVerbose(true)
	logger.Debug("tick")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2} \[DEBUG\] tick`).MatchString(buf.String()) {
		t.Errorf("unexpected debug format: %q", buf.String())
	}
}

// TestSetOutputNilDiscards verifies a nil writer silences the logger
func TestSetOutputNilDiscards(t *testing.T) {
	logger, buf := newTestLogger()
	logger.SetOutput(nil)
	logger.Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected nothing written to the old buffer, got %q", buf.String())
	}
}

// TestLoggerThreadSafety verifies concurrent use does not race
func TestLoggerThreadSafety(t *testing.T) {
	logger, _ := newTestLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.SetVerbose(i%2 == 0)
			logger.Debug("n=%d", i)
			_ = logger.IsVerbose()
		}(i)
	}
	wg.Wait()
}

// TestRedirectToFile verifies global output lands in the file until restored
func TestRedirectToFile(t *testing.T) {
	once = sync.Once{}
	loggerInstance = nil

	var before bytes.Buffer
	GetLogger().SetOutput(&before)

	path := filepath.Join(t.TempDir(), "flowdo.log")
	restore, err := RedirectToFile(path)
	if err != nil {
		t.Fatalf("RedirectToFile() error: %v", err)
	}

	Warnf("to file %s", "ok")
	restore()
	Infof("back to buffer")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[WARN] to file ok") {
		t.Errorf("log file content = %q", data)
	}
	if !strings.Contains(before.String(), "[INFO] back to buffer") {
		t.Errorf("restored writer did not receive output, got %q", before.String())
	}
}

// TestRedirectToFileBadPath verifies failures leave a usable no-op restore
func TestRedirectToFileBadPath(t *testing.T) {
	restore, err := RedirectToFile(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
	restore()
}
