package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
// It checks structure only; whether a relationship still exists in the
// schema is reported by the display summary.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateSchema()...)

	if len(c.Displays) == 0 {
		errors = append(errors, ValidationError{
			Field:   "displays",
			Message: "at least one display must be defined",
		})
	}
	for _, name := range c.ListDisplays() {
		display := c.Displays[name]
		errors = append(errors, c.validateDisplay(name, &display)...)
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateSchema() ValidationErrors {
	var errors ValidationErrors

	switch c.Schema.Source {
	case SchemaSourceFixture:
		if c.Schema.Fixture == "" {
			errors = append(errors, ValidationError{
				Field:   "schema.fixture",
				Message: "fixture path is required when schema.source is 'fixture'",
			})
		}
	case SchemaSourceMySQL:
		errors = append(errors, c.validateDatabase("database", &c.Database)...)
	default:
		errors = append(errors, ValidationError{
			Field:   "schema.source",
			Message: "source must be 'fixture' or 'mysql'",
		})
	}

	return errors
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateDisplay(name string, d *DisplayConfig) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("displays.%s", name)

	if d.Root.Type == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".root.type",
			Message: "root type is required",
		})
	}

	if d.Root.Field == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".root.field",
			Message: "root field is required",
		})
	}

	if d.ViewMode == "" && d.Field != "" && d.Formatter == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".formatter",
			Message: "formatter is required when field is set",
		})
	}

	validModes := map[string]bool{"all": true, "first": true, "last": true, "advanced": true, "": true}
	for i, card := range d.Cardinality {
		cardPrefix := fmt.Sprintf("%s.cardinality[%d]", prefix, i)

		if !validModes[card.Mode] {
			errors = append(errors, ValidationError{
				Field:   cardPrefix + ".mode",
				Message: "mode must be 'all', 'first', 'last', or 'advanced'",
			})
			continue
		}

		if card.Mode == "advanced" && card.Amount < 1 {
			errors = append(errors, ValidationError{
				Field:   cardPrefix + ".amount",
				Message: "amount must be at least 1 in advanced mode",
			})
		}

		if card.Offset < 0 {
			errors = append(errors, ValidationError{
				Field:   cardPrefix + ".offset",
				Message: "offset cannot be negative",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
