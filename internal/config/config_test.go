package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points every XDG directory and FLOWDO_* variable at test-owned values.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("HOME", tmpDir)
	for _, key := range []string{EnvBackend, EnvDataDir, EnvUpcomingDays, EnvVerbose, EnvStorageKey} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestConfigAutoCreate verifies first run creates config file at XDG path with defaults
func TestConfigAutoCreate(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	configPath := filepath.Join(tmpDir, "config", "flowdo", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file not created at %s: %v", configPath, err)
	}
	if string(data) != GetSampleConfig() {
		t.Error("created config should be the embedded sample")
	}

	if cfg.DefaultBackend != "file" {
		t.Errorf("expected DefaultBackend = 'file', got %q", cfg.DefaultBackend)
	}
	if cfg.OutputFormat != "text" {
		t.Errorf("expected OutputFormat = 'text', got %q", cfg.OutputFormat)
	}
	if cfg.StorageKey != "flowdo-storage" {
		t.Errorf("expected StorageKey = 'flowdo-storage', got %q", cfg.StorageKey)
	}
	if cfg.UpcomingDays != 7 {
		t.Errorf("expected UpcomingDays = 7, got %d", cfg.UpcomingDays)
	}
	if want := filepath.Join(tmpDir, "data", "flowdo"); cfg.Backends.File.Dir != want {
		t.Errorf("expected file dir %q, got %q", want, cfg.Backends.File.Dir)
	}
	if !cfg.IsWatchEnabled() {
		t.Error("watch should default to enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestConfigCustomPath verifies --config /path/to/config.yaml uses specified config
func TestConfigCustomPath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
default_backend: sqlite
backends:
  sqlite:
    path: "/custom/path/tasks.db"
storage_key: work-tasks
upcoming_days: 14
no_prompt: true
output_format: json
watch: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}

	if !cfg.NoPrompt {
		t.Error("expected NoPrompt = true")
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("expected OutputFormat = 'json', got %q", cfg.OutputFormat)
	}
	if cfg.UpcomingDays != 14 {
		t.Errorf("expected UpcomingDays = 14, got %d", cfg.UpcomingDays)
	}
	if cfg.IsWatchEnabled() {
		t.Error("expected watch disabled")
	}

	name, location := cfg.BackendLocation()
	if name != "sqlite" || location != "/custom/path/tasks.db" {
		t.Errorf("BackendLocation() = %q, %q", name, location)
	}
}

// TestConfigInvalidYAML verifies parse errors are reported
func TestConfigInvalidYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "default_backend: [unclosed\n")

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "invalid YAML") {
		t.Errorf("expected invalid YAML error, got %v", err)
	}
}

// TestExpandPathTilde verifies ~ and environment variables are expanded
func TestExpandPathTilde(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("FLOWDO_TEST_DIR", "nested")

	if got, want := ExpandPath("~/tasks"), filepath.Join(tmpDir, "tasks"); got != want {
		t.Errorf("ExpandPath(~/tasks) = %q, want %q", got, want)
	}
	if got := ExpandPath("/data/$FLOWDO_TEST_DIR"); got != "/data/nested" {
		t.Errorf("ExpandPath with env = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}

// TestConfigPathsExpanded verifies configured paths are expanded on load
func TestConfigPathsExpanded(t *testing.T) {
	tmpDir := isolate(t)
	path := writeConfig(t, `
backends:
  file:
    dir: ~/flowdo-data
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(tmpDir, "flowdo-data"); cfg.Backends.File.Dir != want {
		t.Errorf("file dir = %q, want %q", cfg.Backends.File.Dir, want)
	}
}

// TestXDGFallbacks verifies HOME-based directories when XDG variables are unset
func TestXDGFallbacks(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", GetConfigDir(), filepath.Join(tmpDir, ".config", "flowdo")},
		{"data", GetDataDir(), filepath.Join(tmpDir, ".local", "share", "flowdo")},
		{"cache", GetCacheDir(), filepath.Join(tmpDir, ".cache", "flowdo")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s dir = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

// TestConfigValidate verifies validation of each constrained field
func TestConfigValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"sqlite backend", func(c *Config) { c.DefaultBackend = "sqlite" }, ""},
		{"unknown backend", func(c *Config) { c.DefaultBackend = "todoist" }, "unknown default_backend"},
		{"bad output format", func(c *Config) { c.OutputFormat = "yaml" }, "invalid output_format"},
		{"zero upcoming days", func(c *Config) { c.UpcomingDays = 0 }, "upcoming_days"},
		{"negative upcoming days", func(c *Config) { c.UpcomingDays = -3 }, "upcoming_days"},
		{"storage key with slash", func(c *Config) { c.StorageKey = "a/b" }, "invalid storage_key"},
		{"negative log size", func(c *Config) { c.Notification.LogNotification.MaxSizeMB = -1 }, "max_size_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestApplyEnv verifies FLOWDO_* overrides
func TestApplyEnv(t *testing.T) {
	isolate(t)
	dataDir := t.TempDir()
	t.Setenv(EnvBackend, "sqlite")
	t.Setenv(EnvDataDir, dataDir)
	t.Setenv(EnvUpcomingDays, "3")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvStorageKey, "other")

	cfg, err := Load(writeConfig(t, "upcoming_days: 10\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultBackend != "sqlite" {
		t.Errorf("DefaultBackend = %q", cfg.DefaultBackend)
	}
	if cfg.Backends.File.Dir != dataDir {
		t.Errorf("file dir = %q, want %q", cfg.Backends.File.Dir, dataDir)
	}
	if want := filepath.Join(dataDir, "flowdo.db"); cfg.Backends.SQLite.Path != want {
		t.Errorf("sqlite path = %q, want %q", cfg.Backends.SQLite.Path, want)
	}
	if cfg.UpcomingDays != 3 {
		t.Errorf("UpcomingDays = %d, want 3", cfg.UpcomingDays)
	}
	if !cfg.Logging.Verbose {
		t.Error("expected verbose from environment")
	}
	if cfg.StorageKey != "other" {
		t.Errorf("StorageKey = %q", cfg.StorageKey)
	}
}

// TestApplyEnvInvalid verifies malformed overrides are rejected
func TestApplyEnvInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvUpcomingDays, "soon"},
		{EnvUpcomingDays, "0"},
		{EnvVerbose, "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			if err := DefaultConfig().ApplyEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

// TestLoadDotEnv verifies .env values reach the environment without overriding it
func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	content := "FLOWDO_UPCOMING_DAYS=5\nFLOWDO_STORAGE_KEY=from-dotenv\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	// isolate set these to "", which godotenv treats as already present.
	_ = os.Unsetenv(EnvUpcomingDays)
	_ = os.Unsetenv(EnvStorageKey)
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvUpcomingDays)
		_ = os.Unsetenv(EnvStorageKey)
	})
	t.Setenv(EnvBackend, "sqlite")

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.UpcomingDays != 5 || cfg.StorageKey != "from-dotenv" {
		t.Errorf("dotenv values not applied: days=%d key=%q", cfg.UpcomingDays, cfg.StorageKey)
	}
	if cfg.DefaultBackend != "sqlite" {
		t.Errorf("existing environment should win, got %q", cfg.DefaultBackend)
	}
}

// TestLoadDotEnvMissing verifies a missing .env is ignored
func TestLoadDotEnvMissing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("LoadDotEnv(missing) error = %v", err)
	}
}

// TestApplyFlags verifies CLI flags take precedence
func TestApplyFlags(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()

	cfg.ApplyFlags(false, "", false)
	if cfg.NoPrompt || cfg.OutputFormat != "text" || cfg.Logging.Verbose {
		t.Errorf("empty flags should not change config: %+v", cfg)
	}

	cfg.ApplyFlags(true, "json", true)
	if !cfg.NoPrompt || cfg.OutputFormat != "json" || !cfg.Logging.Verbose {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

// TestNotificationSettings verifies the mapping onto notification.Config
func TestNotificationSettings(t *testing.T) {
	isolate(t)
	cfg, err := Parse([]byte(`
notification:
  enabled: true
  os_notification:
    enabled: true
    on_refusal: true
  log_notification:
    enabled: true
    path: /tmp/flowdo-notes.log
    max_size_mb: 2
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	n := cfg.NotificationSettings()
	if !n.Enabled || !n.OSNotification.Enabled || !n.OSNotification.OnRefusal || n.OSNotification.OnExternalChange {
		t.Errorf("unexpected OS settings: %+v", n)
	}
	if !n.LogNotification.Enabled || n.LogNotification.Path != "/tmp/flowdo-notes.log" || n.LogNotification.MaxSizeMB != 2 {
		t.Errorf("unexpected log settings: %+v", n.LogNotification)
	}
}
