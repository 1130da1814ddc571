package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Core CLI Tests
// These tests verify basic CLI functionality: help, version, flags, and exit codes.
// Command behaviour is covered in cli_test.go through testutil.CLITest.
// =============================================================================

// isolatedConfig returns a Config pointing at a temp config file and data dir.
func isolatedConfig(t *testing.T) *Config {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("default_backend: file\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return &Config{
		ConfigPath: configPath,
		DataDir:    filepath.Join(tmpDir, "data"),
	}
}

// --- Help and Version Tests ---

// TestHelpFlagCoreCLI verifies that --help displays usage information
func TestHelpFlagCoreCLI(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"--help"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}

	output := stdout.String()
	if !strings.Contains(output, "flowdo") {
		t.Errorf("help output should contain 'flowdo', got: %s", output)
	}
	if !strings.Contains(output, "Usage:") {
		t.Errorf("help output should contain 'Usage:', got: %s", output)
	}
	for _, sub := range []string{"add", "list", "done", "project", "label", "filter", "view", "tui"} {
		if !strings.Contains(output, sub) {
			t.Errorf("help output should list %q, got: %s", sub, output)
		}
	}
}

// TestVersionFlagCoreCLI verifies that --version displays version string
func TestVersionFlagCoreCLI(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"--version"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}

	output := stdout.String()
	if !strings.Contains(output, "flowdo version") {
		t.Errorf("version output should contain 'flowdo version', got: %s", output)
	}
}

// TestVersionCommand verifies that 'flowdo version' displays build information
func TestVersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"version"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{"Version:", "Commit:", "Built:"} {
		if !strings.Contains(output, want) {
			t.Errorf("version output should contain %q, got: %s", want, output)
		}
	}
	if strings.Contains(output, "Go Version:") {
		t.Errorf("plain version output should not contain 'Go Version:', got: %s", output)
	}
}

// TestVersionVerbose verifies that 'flowdo version -v' shows extended build info
func TestVersionVerbose(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"version", "-v"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}

	output := stdout.String()
	if !strings.Contains(output, "Go Version:") {
		t.Errorf("verbose version output should contain 'Go Version:', got: %s", output)
	}
	if !strings.Contains(output, "Platform:") {
		t.Errorf("verbose version output should contain 'Platform:', got: %s", output)
	}
}

// TestVersionJSON verifies that 'flowdo --json version' returns JSON with version fields
func TestVersionJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"--json", "version"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}

	var result map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("expected valid JSON output, got: %s, error: %v", stdout.String(), err)
	}

	requiredFields := []string{"version", "commit", "build_date", "go_version", "platform"}
	for _, field := range requiredFields {
		if _, ok := result[field]; !ok {
			t.Errorf("JSON output should contain '%s' field, got: %v", field, result)
		}
	}
}

// TestCompletionBash verifies that cobra's completion command works without a config
func TestCompletionBash(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"completion", "bash"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}
	if !strings.Contains(stdout.String(), "flowdo") {
		t.Errorf("expected bash completion script for flowdo, got: %s", stdout.String()[:min(200, stdout.Len())])
	}
}

// --- Global Flag Tests ---

// TestGlobalFlagsCoreCLI verifies that the global flags are recognized
func TestGlobalFlagsCoreCLI(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no-prompt short", []string{"-y", "--help"}},
		{"no-prompt long", []string{"--no-prompt", "--help"}},
		{"verbose short", []string{"-V", "--help"}},
		{"verbose long", []string{"--verbose", "--help"}},
		{"json", []string{"--json", "--help"}},
		{"config", []string{"--config", "/nonexistent/config.yaml", "--help"}},
		{"combined", []string{"-y", "-V", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			exitCode := Execute(tt.args, &stdout, &stderr, nil)

			if exitCode != 0 {
				t.Fatalf("expected exit code 0, got %d: stderr=%s", exitCode, stderr.String())
			}
		})
	}
}

// TestVerboseModeEnabledCoreCLI verifies that -V sends debug messages to stderr
func TestVerboseModeEnabledCoreCLI(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"-V", "list"}, &stdout, &stderr, isolatedConfig(t))

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: stderr=%s", exitCode, stderr.String())
	}
	if !strings.Contains(stderr.String(), "[DEBUG]") {
		t.Errorf("verbose mode should output [DEBUG] messages to stderr, got: %s", stderr.String())
	}
}

// TestVerboseModeDisabledCoreCLI verifies that without -V no debug messages are written
func TestVerboseModeDisabledCoreCLI(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"list"}, &stdout, &stderr, isolatedConfig(t))

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: stderr=%s", exitCode, stderr.String())
	}
	if strings.Contains(stderr.String(), "[DEBUG]") {
		t.Errorf("without verbose mode, should not output [DEBUG] messages, got: %s", stderr.String())
	}
}

// TestInvalidConfigCoreCLI verifies that config validation errors fail the command
func TestInvalidConfigCoreCLI(t *testing.T) {
	cfg := isolatedConfig(t)
	if err := os.WriteFile(cfg.ConfigPath, []byte("default_backend: postgres\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var stdout, stderr bytes.Buffer
	exitCode := Execute([]string{"list"}, &stdout, &stderr, cfg)

	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(stderr.String(), "unknown default_backend") {
		t.Errorf("expected backend validation error, got: %s", stderr.String())
	}
}

// TestBackendFlagCoreCLI verifies that --backend selects the slot implementation
func TestBackendFlagCoreCLI(t *testing.T) {
	cfg := isolatedConfig(t)
	cfg.NoPrompt = true

	var stdout, stderr bytes.Buffer
	if code := Execute([]string{"--backend", "sqlite", "add", "Stored in sqlite"}, &stdout, &stderr, cfg); code != 0 {
		t.Fatalf("add failed: %s", stderr.String())
	}

	if _, err := os.Stat(filepath.Join(cfg.DataDir, "flowdo.db")); err != nil {
		t.Errorf("expected sqlite database in data dir: %v", err)
	}
}

// --- Exit Code Tests ---

// TestExitCodeErrorCoreCLI verifies exit code 1 for errors (unknown flag)
func TestExitCodeErrorCoreCLI(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"--unknown-flag-xyz"}, &stdout, &stderr, nil)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 for unknown flag, got %d", exitCode)
	}
}

// TestErrorResultCodeCoreCLI verifies that no-prompt mode ends failures with ERROR
func TestErrorResultCodeCoreCLI(t *testing.T) {
	cfg := isolatedConfig(t)
	cfg.NoPrompt = true

	var stdout, stderr bytes.Buffer
	exitCode := Execute([]string{"done", "missing"}, &stdout, &stderr, cfg)

	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", exitCode)
	}
	if strings.TrimSpace(stdout.String()) != ResultError {
		t.Errorf("expected stdout %q, got %q", ResultError, stdout.String())
	}
	if !strings.Contains(stderr.String(), "Error: task not found: missing") {
		t.Errorf("expected error on stderr, got: %s", stderr.String())
	}
	if !strings.Contains(stderr.String(), "Suggestion:") {
		t.Errorf("expected suggestion on stderr, got: %s", stderr.String())
	}
}

// TestErrorJSONCoreCLI verifies that --json reports failures as a JSON object
func TestErrorJSONCoreCLI(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Execute([]string{"--json", "done", "missing"}, &stdout, &stderr, isolatedConfig(t))

	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", exitCode)
	}

	var resp errorResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		t.Fatalf("expected JSON error, got %q: %v", stdout.String(), err)
	}
	if resp.Error != "task not found: missing" {
		t.Errorf("error = %q", resp.Error)
	}
	if resp.Suggestion == "" {
		t.Error("expected a suggestion")
	}
	if resp.Code != 1 || resp.Result != ResultError {
		t.Errorf("unexpected code/result: %+v", resp)
	}
}

// --- IO Injection Tests ---

// TestInjectableIOCoreCLI verifies that stdout and stderr writers are used
func TestInjectableIOCoreCLI(t *testing.T) {
	var stdout, stderr bytes.Buffer

	Execute([]string{"--help"}, &stdout, &stderr, nil)

	if stdout.Len() == 0 {
		t.Error("expected help output to be written to stdout")
	}
}

func TestContainsJSONFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"list", "--json"}, true},
		{[]string{"--json"}, true},
		{[]string{"list"}, false},
		{[]string{"add", "--jsonish"}, false},
	}
	for _, tt := range tests {
		if got := containsJSONFlag(tt.args); got != tt.want {
			t.Errorf("containsJSONFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
