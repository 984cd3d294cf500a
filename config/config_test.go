package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTempConfig creates a configuration file with the given content and
// returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

const minimalConfig = `fundflow:
  name: "TestApp"
  version: "1.0"
pipeline:
  fetch_delay: 10ms
storage:
  data_dir: "data"
  s3:
    enabled: false
`

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, minimalConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Fundflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Fundflow.Name)
	}
	if cfg.Pipeline.FetchDelay != 10*time.Millisecond {
		t.Errorf("unexpected fetch delay: %s", cfg.Pipeline.FetchDelay)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, minimalConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pipeline.ReferenceCurrency != "USD" {
		t.Errorf("unexpected reference currency: %s", cfg.Pipeline.ReferenceCurrency)
	}
	if cfg.Pipeline.ZeroRevenuePolicy != ZeroRevenueWarn {
		t.Errorf("unexpected zero revenue policy: %s", cfg.Pipeline.ZeroRevenuePolicy)
	}
	if cfg.Provider.Timeout != 10*time.Second {
		t.Errorf("unexpected provider timeout: %s", cfg.Provider.Timeout)
	}
	if cfg.Storage.ManifestFile != "_manifest.json" {
		t.Errorf("unexpected manifest file: %s", cfg.Storage.ManifestFile)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadConfigRejectsBadPolicy(t *testing.T) {
	path := writeTempConfig(t, `fundflow:
  name: "TestApp"
  version: "1.0"
pipeline:
  zero_revenue_policy: "explode"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for bad zero_revenue_policy")
	}
}

func TestLoadConfigMissingName(t *testing.T) {
	path := writeTempConfig(t, `fundflow:
  version: "1.0"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestResolveConfigPathExplicitWins(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	explicit := filepath.Join(t.TempDir(), "custom.yml")
	if got := resolveConfigPath(explicit); got != explicit {
		t.Errorf("resolveConfigPath(%q)=%q", explicit, got)
	}
}

func TestIsValidS3Bucket(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"valid-bucket", true},
		{"Invalid", false},
		{"ab", false},
		{"my..bucket", false},
	}
	for _, c := range cases {
		if got := isValidS3Bucket(c.name); got != c.valid {
			t.Errorf("isValidS3Bucket(%q) = %v, want %v", c.name, got, c.valid)
		}
	}
}
