package graph

import (
	"fmt"

	"github.com/dbsmedya/gorefpath/internal/schema"
)

// Builder constructs a reference graph from a schema registry.
type Builder struct {
	registry schema.Registry
}

// NewBuilder creates a new graph builder for the given registry.
func NewBuilder(reg schema.Registry) *Builder {
	return &Builder{registry: reg}
}

// Build walks every reference field reachable from rootType, across all
// sub-types, and returns the resulting graph. Cycles are kept; use
// Validate to report them. Targets that are not record-bearing become
// leaves.
func (b *Builder) Build(rootType string) (*Graph, error) {
	if b.registry == nil {
		return nil, fmt.Errorf("schema registry is nil")
	}
	if rootType == "" {
		return nil, fmt.Errorf("root type is not specified")
	}

	root, err := b.registry.Type(rootType)
	if err != nil {
		return nil, fmt.Errorf("root type: %w", err)
	}

	g := NewGraph(root.ID)
	g.Nodes[root.ID].Label = root.Label
	g.Nodes[root.ID].RecordBearing = root.RecordBearing

	queue := []string{root.ID}
	for len(queue) > 0 {
		typeID := queue[0]
		queue = queue[1:]
		if !g.Nodes[typeID].RecordBearing {
			continue
		}
		found, err := b.addReferences(g, typeID)
		if err != nil {
			return nil, err
		}
		queue = append(queue, found...)
	}

	return g, nil
}

// addReferences adds the edges out of typeID and returns the target types
// seen for the first time.
func (b *Builder) addReferences(g *Graph, typeID string) ([]string, error) {
	subTypes, err := b.registry.SubTypes(typeID)
	if err != nil {
		return nil, fmt.Errorf("sub-types of %q: %w", typeID, err)
	}
	var found []string
	for _, st := range subTypes {
		fields, err := b.registry.Fields(typeID, st.ID)
		if err != nil {
			return nil, fmt.Errorf("fields of %s:%s: %w", typeID, st.ID, err)
		}
		for _, f := range fields {
			if f == nil || !f.IsReference() || f.TargetType == "" {
				continue
			}
			if !g.HasNode(f.TargetType) {
				target, err := b.registry.Type(f.TargetType)
				if err != nil {
					return nil, fmt.Errorf("field %s:%s.%s: %w", typeID, st.ID, f.Name, err)
				}
				g.AddNode(target.ID, &Node{Label: target.Label, RecordBearing: target.RecordBearing})
				found = append(found, target.ID)
			}
			g.AddEdgeWithMeta(typeID, f.TargetType, st.ID, f.Name)
		}
	}
	return found, nil
}

// BuildFromRegistry is a convenience function that builds a graph directly
// from a registry.
func BuildFromRegistry(reg schema.Registry, rootType string) (*Graph, error) {
	return NewBuilder(reg).Build(rootType)
}
