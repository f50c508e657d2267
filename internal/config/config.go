// Package config provides configuration structures and loading for gorefpath.
package config

// Config represents the complete application configuration.
type Config struct {
	Schema   SchemaConfig             `yaml:"schema" mapstructure:"schema"`
	Database DatabaseConfig           `yaml:"database" mapstructure:"database"`
	Displays map[string]DisplayConfig `yaml:"displays" mapstructure:"displays"`
	Logging  LoggingConfig            `yaml:"logging" mapstructure:"logging"`
}

// Schema sources.
const (
	SchemaSourceFixture = "fixture"
	SchemaSourceMySQL   = "mysql"
)

// SchemaConfig selects where the type registry comes from.
type SchemaConfig struct {
	Source  string `yaml:"source" mapstructure:"source"`   // fixture or mysql
	Fixture string `yaml:"fixture" mapstructure:"fixture"` // YAML fixture path (schema + records)
}

// DatabaseConfig represents a MySQL connection used for schema introspection.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// RootConfig names the reference field that owns a display.
type RootConfig struct {
	Type    string `yaml:"type" mapstructure:"type"`
	SubType string `yaml:"subtype" mapstructure:"subtype"` // defaults to type
	Field   string `yaml:"field" mapstructure:"field"`
}

// CardinalityConfig is the persisted selection rule of one hop.
type CardinalityConfig struct {
	Mode    string `yaml:"mode" mapstructure:"mode"` // all, first, last, advanced
	Amount  int    `yaml:"amount" mapstructure:"amount"`
	Offset  int    `yaml:"offset" mapstructure:"offset"`
	Reverse bool   `yaml:"reverse" mapstructure:"reverse"`
}

// DisplayConfig is one configured relationship display.
type DisplayConfig struct {
	Root         RootConfig `yaml:"root" mapstructure:"root"`
	HostViewMode string     `yaml:"host_view_mode" mapstructure:"host_view_mode"`

	Relationship string              `yaml:"relationship" mapstructure:"relationship"`
	ViewMode     string              `yaml:"view_mode" mapstructure:"view_mode"`
	Field        string              `yaml:"field" mapstructure:"field"`
	Cardinality  []CardinalityConfig `yaml:"cardinality" mapstructure:"cardinality"`
	Formatter    string              `yaml:"formatter" mapstructure:"formatter"`
	Settings     map[string]any      `yaml:"settings" mapstructure:"settings"`
}

// CustomViewMode is the host view mode that makes the root hop offer every
// target sub-type.
const CustomViewMode = "_custom"

// IsConfigured reports whether the display names a relationship and either
// a view mode or a field with a formatter.
func (d *DisplayConfig) IsConfigured() bool {
	return d.Relationship != "" && (d.ViewMode != "" || (d.Field != "" && d.Formatter != ""))
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Schema: SchemaConfig{
			Source: SchemaSourceFixture,
		},
		Database: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     4,
			MaxIdleConnections: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// DefaultDisplay returns the settings of a display nobody has configured yet.
func DefaultDisplay() DisplayConfig {
	return DisplayConfig{
		Cardinality: []CardinalityConfig{},
		Settings:    map[string]any{},
	}
}
