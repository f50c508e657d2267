package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile     string
	logLevel    string
	logFormat   string
	fixturePath string
)

var rootCmd = &cobra.Command{
	Use:   "gorefpath",
	Short: "Reference path discovery and resolution",
	Long: `gorefpath discovers every chain of reference fields reachable from a
root field, lets a display pick one of them, and resolves the chosen path
against concrete records with a selection rule at every hop.

Features:
  - Bounded schema discovery over fixture or MySQL schemas
  - Stable path identifiers and human-readable labels
  - Per-hop selection (all, first, last, advanced window)
  - Type graph cycle report`,
	Version:       Version,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "gorefpath.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Schema override
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "",
		"Load schema and records from this fixture instead of the configured source")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	Fixture   string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Fixture:   fixturePath,
	}
}
