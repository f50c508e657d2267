package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/gorefpath/internal/catalog"
	"github.com/dbsmedya/gorefpath/internal/discovery"
	"github.com/dbsmedya/gorefpath/internal/display"
)

var (
	catalogDisplay string
	catalogFormat  string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every relationship a display can be configured with",
	Long: `Catalog walks the schema from the display's root field and prints
every reachable chain of reference fields.

The catalog shows:
  - Discovery tree next to discovery statistics
  - Path identifier and label of every relationship
  - Declared cardinality of every hop
  - Leaf fields and their compatible formatters

Example:
  gorefpath catalog --config gorefpath.yaml --display article_images
  gorefpath catalog --display article_images --format yaml`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogDisplay, "display", "d", "",
		"Display name from configuration file (required)")
	catalogCmd.Flags().StringVarP(&catalogFormat, "format", "f", "text",
		"Output format (text, yaml)")
	catalogCmd.MarkFlagRequired("display")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	if catalogFormat != "text" && catalogFormat != "yaml" {
		return fmt.Errorf("unknown format %q (expected text or yaml)", catalogFormat)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	d, err := s.display(catalogDisplay)
	if err != nil {
		return err
	}

	if catalogFormat == "yaml" {
		return printCatalogYAML(d.Catalog())
	}
	printCatalogText(d)
	return nil
}

// catalogDoc is the YAML shape of one catalog entry.
type catalogDoc struct {
	ID          string                     `yaml:"id"`
	Label       string                     `yaml:"label"`
	Cardinality []catalog.CardinalityEntry `yaml:"cardinality"`
	Fields      []catalogFieldDoc          `yaml:"fields,omitempty"`
}

type catalogFieldDoc struct {
	Name       string   `yaml:"name"`
	Label      string   `yaml:"label"`
	Type       string   `yaml:"type"`
	Formatters []string `yaml:"formatters"`
}

func printCatalogYAML(c *catalog.Catalog) error {
	docs := make([]catalogDoc, 0, c.Len())
	for _, entry := range c.Entries() {
		doc := catalogDoc{
			ID:          entry.Path.String(),
			Label:       entry.Label,
			Cardinality: entry.Cardinality,
		}
		for el := entry.Fields.Front(); el != nil; el = el.Next() {
			doc.Fields = append(doc.Fields, catalogFieldDoc{
				Name:       el.Key,
				Label:      el.Value.Field.DisplayLabel(),
				Type:       el.Value.Field.Type,
				Formatters: formatterIDs(el.Value),
			})
		}
		docs = append(docs, doc)
	}

	enc := yaml.NewEncoder(outputWriter)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}

func printCatalogText(d *display.Display) {
	cfg := d.Config()
	stats := d.DiscoveryStats()
	c := d.Catalog()

	summaryLines := []string{
		"[ Discovery ]",
		strings.Repeat("-", 13),
		fmt.Sprintf("Root field:      %s.%s.%s", cfg.Root.Type, cfg.Root.SubType, cfg.Root.Field),
		fmt.Sprintf("Host view mode:  %s", valueOr(cfg.HostViewMode, "default")),
		fmt.Sprintf("Max depth:       %d hops", discovery.MaxDepth),
		fmt.Sprintf("Relationships:   %d", c.Len()),
		"",
		"[ Statistics ]",
		strings.Repeat("-", 14),
		fmt.Sprintf("Types visited:   %d", stats.TypesVisited),
		fmt.Sprintf("Fields retained: %d", stats.FieldsRetained),
		fmt.Sprintf("Fields excluded: %d", stats.FieldsExcluded),
		fmt.Sprintf("Branches skipped: %d", stats.BranchesSkipped),
		fmt.Sprintf("Deepest path:    %d hop(s)", d.Discovery().Depth()),
		fmt.Sprintf("Field types:     %s", valueOr(strings.Join(d.Index().FieldTypes(), ", "), "none")),
		fmt.Sprintf("Duration:        %s", stats.Duration),
	}

	printHeader("Catalog: %s", d.Name())
	printLine()
	printSideBySide(treeLines(d.Discovery(), 0), summaryLines, 4)

	printLine()
	printSection("Relationships")
	if c.Len() == 0 {
		printLine("  (none)")
		return
	}
	for i, entry := range c.Entries() {
		printf("  [%d] %s\n", i+1, entry.Label)
		printf("      id: %s\n", entry.Path)

		hops := make([]string, 0, len(entry.Cardinality))
		for _, ce := range entry.Cardinality {
			hops = append(hops, cardinalityText(ce.Cardinality))
		}
		printf("      cardinality: %s\n", strings.Join(hops, hopSeparator))

		for el := entry.Fields.Front(); el != nil; el = el.Next() {
			printf("      • %s (%s): %s\n",
				el.Value.Field.DisplayLabel(),
				el.Key,
				strings.Join(formatterIDs(el.Value), ", "),
			)
		}
	}
}

// hopSeparator joins per-hop values in text output.
const hopSeparator = " → "

// treeLines renders a discovery tree, one line per type and sub-type.
func treeLines(node *discovery.Node, depth int) []string {
	if node == nil {
		if depth == 0 {
			return []string{"(nothing reachable)"}
		}
		return nil
	}

	pad := strings.Repeat("  ", depth)
	field := ""
	if node.Field != nil {
		field = node.Field.Name
	}
	lines := []string{fmt.Sprintf("%s%s (%s) [%s]", pad, node.TypeLabel, field, cardinalityText(node.Cardinality))}

	for _, st := range node.SubTypes {
		lines = append(lines, fmt.Sprintf("%s  └─ %s: %d field(s)", pad, valueOr(st.Label, st.ID), len(st.Fields)))
		for _, rel := range st.Relationships {
			lines = append(lines, treeLines(rel.Node, depth+2)...)
		}
	}
	return lines
}

func formatterIDs(fo catalog.FieldOption) []string {
	ids := make([]string, 0, len(fo.Presentations))
	for _, p := range fo.Presentations {
		ids = append(ids, p.ID)
	}
	return ids
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
