// Package config handles application configuration
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"flowdo/internal/notification"
)

const appName = "flowdo"

// Environment variables that override file settings.
const (
	EnvBackend      = "FLOWDO_BACKEND"
	EnvDataDir      = "FLOWDO_DATA_DIR"
	EnvUpcomingDays = "FLOWDO_UPCOMING_DAYS"
	EnvVerbose      = "FLOWDO_VERBOSE"
	EnvStorageKey   = "FLOWDO_STORAGE_KEY"
)

const (
	defaultBackend      = "file"
	defaultStorageKey   = "flowdo-storage"
	defaultUpcomingDays = 7
	sqliteFileName      = "flowdo.db"
)

//go:embed config.sample.yaml
var sampleConfig string

// GetSampleConfig returns the embedded sample configuration content
func GetSampleConfig() string {
	return sampleConfig
}

// Config represents the application configuration
type Config struct {
	Backends       BackendsConfig     `yaml:"backends"`
	DefaultBackend string             `yaml:"default_backend"`
	StorageKey     string             `yaml:"storage_key"`
	UpcomingDays   int                `yaml:"upcoming_days"`
	NoPrompt       bool               `yaml:"no_prompt"`
	OutputFormat   string             `yaml:"output_format"`
	Watch          *bool              `yaml:"watch"`
	Logging        LoggingConfig      `yaml:"logging"`
	Notification   NotificationConfig `yaml:"notification"`
}

// BackendsConfig holds configuration for all backends
type BackendsConfig struct {
	File   FileConfig   `yaml:"file"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// FileConfig holds the JSON file backend configuration
type FileConfig struct {
	Dir string `yaml:"dir"`
}

// SQLiteConfig holds SQLite backend configuration
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose"`
	TUIFile string `yaml:"tui_file"` // where logs go while the TUI owns the terminal
}

// NotificationConfig holds notification settings
type NotificationConfig struct {
	Enabled         bool                  `yaml:"enabled"`
	OSNotification  OSNotificationConfig  `yaml:"os_notification"`
	LogNotification LogNotificationConfig `yaml:"log_notification"`
}

// OSNotificationConfig holds desktop notification settings
type OSNotificationConfig struct {
	Enabled          bool `yaml:"enabled"`
	OnRefusal        bool `yaml:"on_refusal"`
	OnPersistError   bool `yaml:"on_persist_error"`
	OnExternalChange bool `yaml:"on_external_change"`
}

// LogNotificationConfig holds notification log file settings
type LogNotificationConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified path, or the default XDG path if empty.
// If the config file doesn't exist, it is created from the embedded sample.
// Environment overrides are applied after the file is read.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = filepath.Join(GetConfigDir(), "config.yaml")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := writeSample(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML config data and fills unset fields with defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DefaultBackend == "" {
		c.DefaultBackend = defaultBackend
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "text"
	}
	if c.StorageKey == "" {
		c.StorageKey = defaultStorageKey
	}
	if c.UpcomingDays == 0 {
		c.UpcomingDays = defaultUpcomingDays
	}
	if c.Backends.File.Dir == "" {
		c.Backends.File.Dir = GetDataDir()
	}
	if c.Backends.SQLite.Path == "" {
		c.Backends.SQLite.Path = filepath.Join(GetDataDir(), sqliteFileName)
	}
	if c.Logging.TUIFile == "" {
		c.Logging.TUIFile = filepath.Join(GetCacheDir(), "tui.log")
	}
	if c.Notification.LogNotification.Path == "" {
		c.Notification.LogNotification.Path = filepath.Join(GetDataDir(), "notifications.log")
	}

	c.Backends.File.Dir = ExpandPath(c.Backends.File.Dir)
	c.Backends.SQLite.Path = ExpandPath(c.Backends.SQLite.Path)
	c.Logging.TUIFile = ExpandPath(c.Logging.TUIFile)
	c.Notification.LogNotification.Path = ExpandPath(c.Notification.LogNotification.Path)
}

// writeSample writes the embedded sample configuration to path
func writeSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=value pairs from a .env file into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies FLOWDO_* environment overrides.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		c.DefaultBackend = v
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		dir = ExpandPath(dir)
		c.Backends.File.Dir = dir
		c.Backends.SQLite.Path = filepath.Join(dir, sqliteFileName)
	}
	if v := os.Getenv(EnvUpcomingDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return fmt.Errorf("invalid %s: %q (must be a positive integer)", EnvUpcomingDays, v)
		}
		c.UpcomingDays = days
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", EnvVerbose, v)
		}
		c.Logging.Verbose = verbose
	}
	if v := os.Getenv(EnvStorageKey); v != "" {
		c.StorageKey = v
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.OutputFormat != "text" && c.OutputFormat != "json" {
		return fmt.Errorf("invalid output_format: %q (must be 'text' or 'json')", c.OutputFormat)
	}

	switch c.DefaultBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown default_backend: %q (must be 'file' or 'sqlite')", c.DefaultBackend)
	}

	if c.UpcomingDays <= 0 {
		return fmt.Errorf("upcoming_days must be positive, got %d", c.UpcomingDays)
	}

	if strings.ContainsAny(c.StorageKey, `/\`) || c.StorageKey == "." || c.StorageKey == ".." {
		return fmt.Errorf("invalid storage_key: %q", c.StorageKey)
	}

	if c.Notification.LogNotification.MaxSizeMB < 0 {
		return errors.New("notification.log_notification.max_size_mb cannot be negative")
	}

	return nil
}

// ApplyFlags applies command-line flag overrides to the configuration
func (c *Config) ApplyFlags(noPrompt bool, outputFormat string, verbose bool) {
	if noPrompt {
		c.NoPrompt = true
	}
	if outputFormat != "" {
		c.OutputFormat = outputFormat
	}
	if verbose {
		c.Logging.Verbose = true
	}
}

// BackendLocation returns the selected backend name and the location it opens:
// a directory for file, a database path for sqlite.
func (c *Config) BackendLocation() (name, location string) {
	switch c.DefaultBackend {
	case "sqlite":
		return "sqlite", c.Backends.SQLite.Path
	default:
		return c.DefaultBackend, c.Backends.File.Dir
	}
}

// IsWatchEnabled reports whether the TUI reloads on external writes (default: true).
func (c *Config) IsWatchEnabled() bool {
	if c.Watch == nil {
		return true
	}
	return *c.Watch
}

// NotificationSettings converts the notification section for notification.NewManager.
func (c *Config) NotificationSettings() *notification.Config {
	n := c.Notification
	return &notification.Config{
		Enabled: n.Enabled,
		OSNotification: notification.OSNotificationConfig{
			Enabled:          n.OSNotification.Enabled,
			OnRefusal:        n.OSNotification.OnRefusal,
			OnPersistError:   n.OSNotification.OnPersistError,
			OnExternalChange: n.OSNotification.OnExternalChange,
		},
		LogNotification: notification.LogNotificationConfig{
			Enabled:   n.LogNotification.Enabled,
			Path:      n.LogNotification.Path,
			MaxSizeMB: n.LogNotification.MaxSizeMB,
		},
	}
}

// getXDGDir returns the XDG directory for the given environment variable and fallback path
func getXDGDir(envVar, fallbackPath string) string {
	if xdgDir := os.Getenv(envVar); xdgDir != "" {
		return filepath.Join(xdgDir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", fallbackPath, appName)
	}
	return filepath.Join(home, fallbackPath, appName)
}

// GetConfigDir returns the XDG config directory for flowdo
func GetConfigDir() string {
	return getXDGDir("XDG_CONFIG_HOME", ".config")
}

// GetDataDir returns the XDG data directory for flowdo
func GetDataDir() string {
	return getXDGDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// GetCacheDir returns the XDG cache directory for flowdo
func GetCacheDir() string {
	return getXDGDir("XDG_CACHE_HOME", ".cache")
}

// ExpandPath expands ~ to home directory and environment variables
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
