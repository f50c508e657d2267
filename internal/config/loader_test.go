package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
schema:
  source: fixture
  fixture: ./fixture.yaml

displays:
  article_sections:
    root:
      type: node
      subtype: article
      field: field_sections
    relationship: "field_sections:paragraph:gallery|field_images:media:image"
    field: alt
    formatter: trimmed
    settings:
      trim_length: 20
    cardinality:
      - mode: first
      - mode: advanced
        amount: 2
        offset: 1
        reverse: true

logging:
  level: debug
  format: json
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify schema config
	if cfg.Schema.Fixture != "./fixture.yaml" {
		t.Errorf("expected fixture './fixture.yaml', got %s", cfg.Schema.Fixture)
	}

	// Verify defaults survive for unset sections
	if cfg.Database.Port != 3306 {
		t.Errorf("expected default database port 3306, got %d", cfg.Database.Port)
	}

	// Verify display config
	display, err := cfg.GetDisplay("article_sections")
	if err != nil {
		t.Fatalf("expected display 'article_sections' to exist: %v", err)
	}
	if display.Root.SubType != "article" {
		t.Errorf("expected root subtype 'article', got %s", display.Root.SubType)
	}
	if display.Formatter != "trimmed" {
		t.Errorf("expected formatter 'trimmed', got %s", display.Formatter)
	}
	if len(display.Cardinality) != 2 {
		t.Fatalf("expected 2 cardinality entries, got %d", len(display.Cardinality))
	}
	if display.Cardinality[0].Mode != "first" {
		t.Errorf("expected first hop mode 'first', got %s", display.Cardinality[0].Mode)
	}
	second := display.Cardinality[1]
	if second.Mode != "advanced" || second.Amount != 2 || second.Offset != 1 || !second.Reverse {
		t.Errorf("unexpected second hop rule: %+v", second)
	}
	if display.Settings["trim_length"] != 20 {
		t.Errorf("expected trim_length 20, got %v", display.Settings["trim_length"])
	}

	// Verify logging config
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	// Set environment variables for test
	os.Setenv("TEST_DB_HOST", "env-host")
	os.Setenv("TEST_DB_USER", "env-user")
	os.Setenv("TEST_DB_PASS", "env-pass")
	os.Setenv("TEST_FIXTURE_DIR", "/srv/fixtures")
	defer func() {
		os.Unsetenv("TEST_DB_HOST")
		os.Unsetenv("TEST_DB_USER")
		os.Unsetenv("TEST_DB_PASS")
		os.Unsetenv("TEST_FIXTURE_DIR")
	}()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
schema:
  source: mysql
  fixture: ${TEST_FIXTURE_DIR}/shop.yaml
database:
  host: ${TEST_DB_HOST}
  port: 3306
  user: ${TEST_DB_USER}
  password: ${TEST_DB_PASS}
  database: shop
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Host != "env-host" {
		t.Errorf("expected database host 'env-host', got %s", cfg.Database.Host)
	}
	if cfg.Database.User != "env-user" {
		t.Errorf("expected database user 'env-user', got %s", cfg.Database.User)
	}
	if cfg.Database.Password != "env-pass" {
		t.Errorf("expected database password 'env-pass', got %s", cfg.Database.Password)
	}
	if cfg.Schema.Fixture != "/srv/fixtures/shop.yaml" {
		t.Errorf("expected expanded fixture path, got %s", cfg.Schema.Fixture)
	}
}

func TestExpandEnvVar(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "test-value"},
		{"$TEST_VAR", "test-value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"${NONEXISTENT}", "${NONEXISTENT}"}, // Unset vars remain unchanged
		{"no-vars-here", "no-vars-here"},
	}

	for _, tt := range tests {
		result := expandEnvVar(tt.input)
		if result != tt.expected {
			t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestGetDisplay(t *testing.T) {
	cfg := &Config{
		Displays: map[string]DisplayConfig{
			"existing": {
				Root:     RootConfig{Type: "user", Field: "field_friends"},
				ViewMode: "teaser",
			},
		},
	}

	// Test existing display
	display, err := cfg.GetDisplay("existing")
	if err != nil {
		t.Errorf("unexpected error getting existing display: %v", err)
	}
	if display.Root.SubType != "user" {
		t.Errorf("expected subtype to default to type, got %s", display.Root.SubType)
	}
	if display.Settings == nil || display.Cardinality == nil {
		t.Error("expected settings and cardinality to default to empty values")
	}

	// Test non-existing display
	_, err = cfg.GetDisplay("nonexistent")
	if err == nil {
		t.Error("expected error for non-existing display")
	}
}

func TestListDisplays(t *testing.T) {
	cfg := &Config{
		Displays: map[string]DisplayConfig{
			"display_c": {},
			"display_a": {},
			"display_b": {},
		},
	}

	names := cfg.ListDisplays()
	expected := []string{"display_a", "display_b", "display_c"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d displays, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected display %q at %d, got %q", expected[i], i, names[i])
		}
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Schema.Source = SchemaSourceMySQL

	cfg.ApplyOverrides("debug", "json", "/tmp/fixture.yaml")

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug' after override, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json' after override, got %s", cfg.Logging.Format)
	}
	if cfg.Schema.Source != SchemaSourceFixture {
		t.Errorf("expected fixture override to switch source, got %s", cfg.Schema.Source)
	}
	if cfg.Schema.Fixture != "/tmp/fixture.yaml" {
		t.Errorf("expected fixture path after override, got %s", cfg.Schema.Fixture)
	}
}

func TestApplyOverridesZeroValues(t *testing.T) {
	cfg := &Config{
		Schema: SchemaConfig{Source: SchemaSourceMySQL},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}

	// Apply zero values (should NOT override)
	cfg.ApplyOverrides("", "", "")

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn' to be preserved, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json' to be preserved, got %s", cfg.Logging.Format)
	}
	if cfg.Schema.Source != SchemaSourceMySQL {
		t.Errorf("expected schema source to be preserved, got %s", cfg.Schema.Source)
	}
}
