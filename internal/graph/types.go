// Package graph provides the type-level reference graph of a schema.
package graph

import "sort"

// Node represents a record type in the reference graph.
type Node struct {
	Name          string // Type id
	Label         string // Type label
	RecordBearing bool   // False for types discovery never enters
	IsRoot        bool   // True if this is the root type
}

// Edge represents a reference from one type to another.
type Edge struct {
	From string // Referencing type
	To   string // Referenced type
}

// Graph represents the reference structure reachable from a root type.
type Graph struct {
	Nodes        map[string]*Node    // type id -> node
	Children     map[string][]string // type id -> referenced type ids (outgoing edges)
	Parents      map[string][]string // type id -> referencing type ids (incoming edges)
	Root         string              // Root type id
	order        []string            // node insertion order
	edgeMetadata map[Edge]*EdgeMeta  // Edge -> metadata
}

// EdgeMeta lists the reference fields behind an edge.
type EdgeMeta struct {
	Fields []string // "subtype.field" of every field creating the edge
}

// NewGraph creates a new graph holding only the root type.
func NewGraph(root string) *Graph {
	g := &Graph{
		Nodes:        make(map[string]*Node),
		Children:     make(map[string][]string),
		Parents:      make(map[string][]string),
		Root:         root,
		edgeMetadata: make(map[Edge]*EdgeMeta),
	}

	g.AddNode(root, &Node{IsRoot: true, RecordBearing: true})
	return g
}

// AddNode adds a type node to the graph, replacing an existing node of the
// same name. If node is nil, a new node with default values is created.
func (g *Graph) AddNode(name string, node *Node) {
	if node == nil {
		node = &Node{Name: name}
	}
	node.Name = name
	if _, exists := g.Nodes[name]; !exists {
		g.order = append(g.order, name)
	}
	g.Nodes[name] = node
}

// AddEdge adds a from -> to reference. Repeated edges are stored once.
func (g *Graph) AddEdge(from, to string) {
	edge := Edge{From: from, To: to}
	if _, exists := g.edgeMetadata[edge]; exists {
		return
	}
	g.edgeMetadata[edge] = &EdgeMeta{}
	g.Children[from] = append(g.Children[from], to)
	g.Parents[to] = append(g.Parents[to], from)
}

// AddEdgeWithMeta adds an edge and records the field creating it.
func (g *Graph) AddEdgeWithMeta(from, to, subType, field string) {
	g.AddEdge(from, to)
	meta := g.edgeMetadata[Edge{From: from, To: to}]
	meta.Fields = append(meta.Fields, subType+"."+field)
}

// GetChildren returns the types directly referenced by a type.
func (g *Graph) GetChildren(parent string) []string {
	return g.Children[parent]
}

// GetParents returns the types directly referencing a type.
func (g *Graph) GetParents(child string) []string {
	return g.Parents[child]
}

// GetNode returns the node for a given type, or nil if not found.
func (g *Graph) GetNode(name string) *Node {
	return g.Nodes[name]
}

// GetEdgeMeta returns metadata for an edge, or nil if not found.
func (g *Graph) GetEdgeMeta(from, to string) *EdgeMeta {
	return g.edgeMetadata[Edge{From: from, To: to}]
}

// HasNode returns true if the graph contains the type.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.Nodes[name]
	return exists
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of distinct edges in the graph.
func (g *Graph) EdgeCount() int {
	return len(g.edgeMetadata)
}

// AllNodes returns every type id in insertion order.
func (g *Graph) AllNodes() []string {
	nodes := make([]string, len(g.order))
	copy(nodes, g.order)
	return nodes
}

// AllEdges returns every edge, ordered by source insertion order.
func (g *Graph) AllEdges() []Edge {
	var edges []Edge
	for _, from := range g.order {
		for _, to := range g.Children[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// LeafNodes returns all types that reference nothing, sorted.
func (g *Graph) LeafNodes() []string {
	var leaves []string
	for name := range g.Nodes {
		if len(g.Children[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// InDegree returns the number of incoming edges for a node.
func (g *Graph) InDegree(name string) int {
	return len(g.Parents[name])
}

// OutDegree returns the number of outgoing edges for a node.
func (g *Graph) OutDegree(name string) int {
	return len(g.Children[name])
}
