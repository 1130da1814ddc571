package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestSampleConfigEmbedded verifies the sample is compiled in
func TestSampleConfigEmbedded(t *testing.T) {
	if strings.TrimSpace(GetSampleConfig()) == "" {
		t.Fatal("embedded sample config is empty")
	}
}

// TestSampleConfigParses verifies the sample is valid YAML that validates
func TestSampleConfigParses(t *testing.T) {
	isolate(t)

	cfg, err := Parse([]byte(GetSampleConfig()))
	if err != nil {
		t.Fatalf("Parse(sample) error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config should validate: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.DefaultBackend != defaults.DefaultBackend || cfg.StorageKey != defaults.StorageKey || cfg.UpcomingDays != defaults.UpcomingDays {
		t.Errorf("sample values differ from defaults: %+v", cfg)
	}
}

// TestSampleConfigContainsAllOptions verifies every top-level key is documented
func TestSampleConfigContainsAllOptions(t *testing.T) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(GetSampleConfig()), &raw); err != nil {
		t.Fatalf("sample is not valid YAML: %v", err)
	}

	for _, key := range []string{
		"default_backend", "backends", "storage_key", "upcoming_days",
		"no_prompt", "output_format", "watch", "logging", "notification",
	} {
		if _, ok := raw[key]; !ok {
			t.Errorf("sample config is missing %q", key)
		}
	}
}

// TestSampleConfigComments verifies the sample documents the environment overrides
func TestSampleConfigComments(t *testing.T) {
	sample := GetSampleConfig()
	for _, env := range []string{EnvBackend, EnvDataDir, EnvUpcomingDays, EnvVerbose, EnvStorageKey} {
		if !strings.Contains(sample, env) {
			t.Errorf("sample config does not mention %s", env)
		}
	}
}
