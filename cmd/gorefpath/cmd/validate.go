package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gorefpath/internal/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration against the schema",
	Long: `Validate checks the configuration file and then checks every display
against the loaded schema.

Checks performed:
  - Configuration syntax and required fields
  - Schema source availability (fixture file or MySQL connection)
  - Root field exists and is a reference field
  - Relationship is still offered by discovery
  - Field and formatter are still compatible
  - Selection rule of every hop fits the declared cardinality
  - Reference cycles reachable from the root type (warning only)

Example:
  gorefpath validate --config gorefpath.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printf("\n=== Configuration Validation ===\n")
	printf("Config file: %s\n", GetConfigFile())
	printf("Displays found: %d\n\n", len(cfg.Displays))

	if err := cfg.Validate(); err != nil {
		printFail("%v", err)
		return fmt.Errorf("configuration is invalid")
	}

	s, err := newSession(commandContext(cmd), cfg)
	if err != nil {
		printFail("Schema unavailable: %v", err)
		return fmt.Errorf("schema could not be loaded")
	}
	defer s.close()

	s.log.Info("Starting validation checks...")

	hasErrors := false
	for _, name := range cfg.ListDisplays() {
		printf("--- Display: %s ---\n", name)
		if !validateDisplay(s, name) {
			hasErrors = true
		}
		printLine()
	}

	if hasErrors {
		return fmt.Errorf("validation failed for one or more displays")
	}

	printLine("=== Validation Complete ===")
	printOK("All displays validated successfully")
	return nil
}

// validateDisplay prints the checks of one display and reports whether
// they all passed.
func validateDisplay(s *session, name string) bool {
	d, err := s.display(name)
	if err != nil {
		printFail("%v", err)
		return false
	}

	dcfg := d.Config()
	printf("Root field: %s.%s.%s\n", dcfg.Root.Type, dcfg.Root.SubType, dcfg.Root.Field)
	printf("Relationships available: %d\n", d.Catalog().Len())

	g, err := graph.BuildFromRegistry(s.registry, dcfg.Root.Type)
	if err != nil {
		printFail("Type graph build failed: %v", err)
		return false
	}
	var cycleErr *graph.CycleError
	if err := g.Validate(); errors.As(err, &cycleErr) {
		printWarn("Reference cycle between %v (discovery stops at its depth bound)", cycleErr.Info.CycleParticipants)
	}

	if !d.IsConfigured() {
		printWarn("No relationship configured, display renders nothing")
		return true
	}

	entry, err := d.Entry()
	if err != nil {
		printFail("%v", err)
		return false
	}
	printf("Relationship: %s\n", entry.Label)

	if dcfg.ViewMode == "" {
		if _, err := d.Formatter(); err != nil {
			printFail("Formatter: %v", err)
			return false
		}
	}

	ok := true
	for _, hs := range d.HopSettings() {
		if hs.ValidateErr != nil {
			printFail("%v", hs.ValidateErr)
			ok = false
		}
	}
	if len(dcfg.Cardinality) > entry.Hops() {
		printWarn("%d cardinality setting(s) beyond the last hop are ignored", len(dcfg.Cardinality)-entry.Hops())
	}

	if ok {
		printOK("All checks passed")
	}
	return ok
}
