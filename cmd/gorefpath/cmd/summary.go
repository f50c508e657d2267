package cmd

import (
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/gorefpath/internal/display"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize every display defined in configuration",
	Long: `Summary prints the settings summary of every display defined in the
configuration file, together with the selection rule of every hop.

Example:
  gorefpath summary --config gorefpath.yaml`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	names := s.cfg.ListDisplays()
	cmd.Printf("Displays defined in %s:\n\n", GetConfigFile())

	for i, name := range names {
		dcfg, _ := s.cfg.GetDisplay(name)
		cmd.Printf("%d. %s\n", i+1, name)
		cmd.Printf("   Root Field:    %s.%s.%s\n", dcfg.Root.Type, dcfg.Root.SubType, dcfg.Root.Field)

		d, err := s.display(name)
		if err != nil {
			cmd.Printf("   %s\n", color.Red.Sprint(err.Error()))
		} else {
			printDisplaySummary(cmd, d)
		}

		if i < len(names)-1 {
			cmd.Println()
		}
	}

	cmd.Printf("\nTotal: %d display(s)\n", len(names))
	return nil
}

func printDisplaySummary(cmd *cobra.Command, d *display.Display) {
	for _, line := range d.Summary() {
		switch {
		case line == display.SummaryNotConfigured:
			cmd.Printf("   %s\n", color.Yellow.Sprint(line))
		case strings.HasPrefix(line, "Invalid "):
			cmd.Printf("   %s\n", color.Red.Sprint(line))
		default:
			cmd.Printf("   %s\n", line)
		}
	}

	for _, hs := range d.HopSettings() {
		cmd.Printf("      - %s [%s]: %s\n", hs.Label, cardinalityText(hs.Declared), hs.Rule)
		if hs.ValidateErr != nil {
			cmd.Printf("        %s\n", color.Red.Sprint(hs.ValidateErr.Error()))
		}
	}
}
