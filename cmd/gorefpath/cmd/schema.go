package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gorefpath/internal/graph"
)

var (
	schemaType    string
	schemaDisplay string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the type reference graph reachable from a type",
	Long: `Schema builds the graph of reference fields between types reachable
from a root type and reports reference cycles.

Cycles are legal: discovery stops at its depth bound. They are reported so
that deep catalogs are not a surprise.

The output shows:
  - Types reachable from the root
  - Reference edges and the fields behind them
  - Topological order, or the cycle report

Example:
  gorefpath schema --config gorefpath.yaml --type node
  gorefpath schema --display article_images`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaType, "type", "t", "",
		"Root type id")
	schemaCmd.Flags().StringVarP(&schemaDisplay, "display", "d", "",
		"Use the root type of this display")

	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	if schemaType == "" && schemaDisplay == "" {
		return fmt.Errorf("either --type or --display is required")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rootType := schemaType
	if rootType == "" {
		dcfg, err := s.cfg.GetDisplay(schemaDisplay)
		if err != nil {
			return err
		}
		rootType = dcfg.Root.Type
	}

	g, err := graph.BuildFromRegistry(s.registry, rootType)
	if err != nil {
		return fmt.Errorf("failed to build type graph: %w", err)
	}

	printTypeGraph(g)
	return nil
}

func printTypeGraph(g *graph.Graph) {
	printHeader("Type Graph: %s", g.Root)

	printLine()
	printSection("Types")
	for _, name := range g.AllNodes() {
		node := g.GetNode(name)
		var flags []string
		if node.IsRoot {
			flags = append(flags, "root")
		}
		if !node.RecordBearing {
			flags = append(flags, "not record-bearing")
		}
		line := fmt.Sprintf("  • %s (%s)", name, valueOr(node.Label, name))
		if len(flags) > 0 {
			line += " [" + strings.Join(flags, ", ") + "]"
		}
		printLine(line)
	}

	printLine()
	printSection("References")
	edges := g.AllEdges()
	if len(edges) == 0 {
		printLine("  (none)")
	}
	for _, edge := range edges {
		meta := g.GetEdgeMeta(edge.From, edge.To)
		var fields []string
		if meta != nil {
			fields = meta.Fields
		}
		printf("  • %s → %s via %s\n", edge.From, edge.To, strings.Join(fields, ", "))
	}

	printLine()
	printSection("Order")
	order, err := g.TopologicalSort()
	if err == nil {
		for i, name := range order {
			printf("  [%d] %s\n", i+1, name)
		}
		return
	}

	var cycleErr *graph.CycleError
	if errors.As(err, &cycleErr) {
		for _, line := range strings.Split(cycleErr.Error(), "\n") {
			printWarn("%s", line)
		}
		return
	}
	printFail("%v", err)
}
