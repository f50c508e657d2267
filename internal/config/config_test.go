package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test schema defaults
	if cfg.Schema.Source != SchemaSourceFixture {
		t.Errorf("expected schema source 'fixture', got %s", cfg.Schema.Source)
	}

	// Test database defaults
	if cfg.Database.Port != 3306 {
		t.Errorf("expected database port 3306, got %d", cfg.Database.Port)
	}
	if cfg.Database.TLS != "preferred" {
		t.Errorf("expected database TLS 'preferred', got %s", cfg.Database.TLS)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected logging format 'text', got %s", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("expected logging output 'stderr', got %s", cfg.Logging.Output)
	}
}

func TestDefaultDisplay(t *testing.T) {
	d := DefaultDisplay()

	if d.Relationship != "" || d.ViewMode != "" || d.Field != "" || d.Formatter != "" {
		t.Errorf("expected empty string settings, got %+v", d)
	}
	if d.Cardinality == nil || len(d.Cardinality) != 0 {
		t.Errorf("expected empty non-nil cardinality, got %v", d.Cardinality)
	}
	if d.Settings == nil || len(d.Settings) != 0 {
		t.Errorf("expected empty non-nil settings, got %v", d.Settings)
	}
	if d.IsConfigured() {
		t.Error("default display should not be configured")
	}
}

func TestDisplayIsConfigured(t *testing.T) {
	tests := []struct {
		name    string
		display DisplayConfig
		want    bool
	}{
		{"empty", DisplayConfig{}, false},
		{"relationship only", DisplayConfig{Relationship: "a:b:c"}, false},
		{"view mode", DisplayConfig{Relationship: "a:b:c", ViewMode: "teaser"}, true},
		{"field without formatter", DisplayConfig{Relationship: "a:b:c", Field: "title"}, false},
		{"formatter without field", DisplayConfig{Relationship: "a:b:c", Formatter: "plain"}, false},
		{"field and formatter", DisplayConfig{Relationship: "a:b:c", Field: "title", Formatter: "plain"}, true},
		{"view mode without relationship", DisplayConfig{ViewMode: "teaser"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.display.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigDisplaysMap(t *testing.T) {
	cfg := &Config{
		Displays: map[string]DisplayConfig{
			"sections": {
				Root:         RootConfig{Type: "node", SubType: "article", Field: "field_sections"},
				Relationship: "field_sections:paragraph:gallery",
				ViewMode:     "teaser",
			},
			"authors": {
				Root: RootConfig{Type: "node", Field: "field_author"},
			},
		},
	}

	if len(cfg.Displays) != 2 {
		t.Errorf("expected 2 displays, got %d", len(cfg.Displays))
	}

	sections := cfg.Displays["sections"]
	if sections.Root.Field != "field_sections" {
		t.Errorf("expected root field 'field_sections', got %s", sections.Root.Field)
	}
}
