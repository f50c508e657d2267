package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var (
	renderDisplay string
	renderRecord  string
	renderLang    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a display for one root record",
	Long: `Render resolves the configured relationship of a display against a
root record from the fixture and renders the selected records.

Records rendered in a view mode use their own language. A field formatter
renders in the language given by --lang, which defaults to the language of
the root record.

Example:
  gorefpath render --config gorefpath.yaml --display article_images --record a1
  gorefpath render -d article_images -r a1 --lang nl`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderDisplay, "display", "d", "",
		"Display name from configuration file (required)")
	renderCmd.Flags().StringVarP(&renderRecord, "record", "r", "",
		"Root record id (required)")
	renderCmd.Flags().StringVar(&renderLang, "lang", "",
		"Language code for field formatters")
	renderCmd.MarkFlagRequired("display")
	renderCmd.MarkFlagRequired("record")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if s.records == nil {
		return fmt.Errorf("render needs records: use a fixture schema source or --fixture")
	}
	root, ok := s.records.Get(renderRecord)
	if !ok {
		return fmt.Errorf("record %q not found in fixture", renderRecord)
	}

	d, err := s.display(renderDisplay)
	if err != nil {
		return err
	}

	lang := renderLang
	if lang == "" {
		lang = root.Language()
	}

	out := d.View(root, lang)

	printHeader("Render: %s (record %s)", d.Name(), root.ID())
	for _, line := range d.Summary() {
		printf("  %s\n", line)
	}

	printLine()
	printSection("Output")
	if len(out) == 0 {
		printLine("  (nothing to render)")
		return nil
	}
	for _, r := range out {
		for _, line := range strings.Split(cast.ToString(r), "\n") {
			printf("  %s\n", line)
		}
	}
	printf("\nRendered %d item(s)\n", len(out))
	return nil
}
