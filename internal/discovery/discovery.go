// Package discovery walks the host schema from a reference field and
// collects every chain of reference fields reachable within MaxDepth hops.
package discovery

import (
	"fmt"
	"time"

	"github.com/dbsmedya/gorefpath/internal/logger"
	"github.com/dbsmedya/gorefpath/internal/presentation"
	"github.com/dbsmedya/gorefpath/internal/schema"
)

// MaxDepth bounds the number of hops a discovered chain may have.
const MaxDepth = 5

// Node is the discovery result for the target type of one reference field.
type Node struct {
	TypeID      string
	TypeLabel   string
	Field       *schema.Field // the field that reached this type
	Cardinality int           // declared cardinality of Field
	SubTypes    []*SubTypeNode
}

// SubTypeNode holds the eligible fields and nested relationships of one
// target sub-type.
type SubTypeNode struct {
	ID            string
	Label         string
	Fields        []FieldEntry
	Relationships []Relationship
}

// FieldEntry is a field with at least one compatible presentation.
type FieldEntry struct {
	Field         *schema.Field
	Presentations []presentation.Descriptor
}

// Relationship is a nested discovery reached through a field.
type Relationship struct {
	Field string
	Node  *Node
}

// Stats summarises one discovery walk.
type Stats struct {
	TypesVisited    int
	FieldsRetained  int
	FieldsExcluded  int
	BranchesSkipped int
	Duration        time.Duration
}

// Walker discovers reference chains over a schema.Registry.
type Walker struct {
	registry       schema.Registry
	index          *presentation.Index
	customViewMode bool
	logger         *logger.Logger
	stats          Stats
}

// NewWalker creates a walker. index answers which presentations a field
// type supports and is shared with the rest of the request.
func NewWalker(reg schema.Registry, index *presentation.Index, log *logger.Logger) (*Walker, error) {
	if reg == nil {
		return nil, fmt.Errorf("schema registry is nil")
	}
	if index == nil {
		return nil, fmt.Errorf("presentation index is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Walker{registry: reg, index: index, logger: log}, nil
}

// SetCustomViewMode makes the root hop enumerate every sub-type of its
// target type, ignoring the field's allow-list.
func (w *Walker) SetCustomViewMode(enabled bool) {
	w.customViewMode = enabled
}

// Stats returns statistics of the last Discover call.
func (w *Walker) Stats() Stats {
	return w.stats
}

// Discover walks from the root field. It returns nil when nothing
// displayable is reachable. Schema anomalies drop the affected branch only.
func (w *Walker) Discover(root *schema.Field) *Node {
	start := time.Now()
	w.stats = Stats{}

	node := w.walk(root, 0)

	w.stats.Duration = time.Since(start)
	w.logger.Debugf("Discovery complete: %d types, %d fields retained, %d excluded, %d branches skipped, duration: %s",
		w.stats.TypesVisited,
		w.stats.FieldsRetained,
		w.stats.FieldsExcluded,
		w.stats.BranchesSkipped,
		w.stats.Duration,
	)
	return node
}

func (w *Walker) walk(field *schema.Field, level int) (node *Node) {
	if field == nil || !field.IsReference() || level >= MaxDepth {
		return nil
	}
	if !field.DisplayConfigurable && level != 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			w.stats.BranchesSkipped++
			w.logger.Warnf("Skipping field %q at level %d: malformed schema: %v", field.Name, level, r)
			node = nil
		}
	}()

	t, err := w.registry.Type(field.TargetType)
	if err != nil {
		w.stats.BranchesSkipped++
		w.logger.Warnf("Skipping field %q at level %d: %v", field.Name, level, err)
		return nil
	}
	if !t.RecordBearing {
		return nil
	}

	subTypes, err := w.targetSubTypes(field, level)
	if err != nil {
		w.stats.BranchesSkipped++
		w.logger.Warnf("Skipping field %q at level %d: %v", field.Name, level, err)
		return nil
	}

	w.stats.TypesVisited++
	node = &Node{
		TypeID:      t.ID,
		TypeLabel:   t.Label,
		Field:       field,
		Cardinality: field.Cardinality,
	}
	for _, st := range subTypes {
		if sub := w.walkSubType(t, st, level); sub != nil {
			node.SubTypes = append(node.SubTypes, sub)
		}
	}
	if len(node.SubTypes) == 0 {
		return nil
	}
	return node
}

// targetSubTypes resolves which sub-types a reference field may land on.
func (w *Walker) targetSubTypes(field *schema.Field, level int) ([]schema.SubType, error) {
	all, err := w.registry.SubTypes(field.TargetType)
	if err != nil {
		return nil, err
	}
	if (w.customViewMode && level == 0) || len(field.TargetSubTypes) == 0 {
		return all, nil
	}

	known := make(map[string]schema.SubType, len(all))
	for _, st := range all {
		known[st.ID] = st
	}
	out := make([]schema.SubType, 0, len(field.TargetSubTypes))
	for _, id := range field.TargetSubTypes {
		st, ok := known[id]
		if !ok {
			w.stats.BranchesSkipped++
			w.logger.Warnf("Field %q allows unknown sub-type %s:%s", field.Name, field.TargetType, id)
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (w *Walker) walkSubType(t *schema.Type, st schema.SubType, level int) (sub *SubTypeNode) {
	defer func() {
		if r := recover(); r != nil {
			w.stats.BranchesSkipped++
			w.logger.Warnf("Skipping %s:%s at level %d: malformed schema: %v", t.ID, st.ID, level, r)
			sub = nil
		}
	}()

	fields, err := w.registry.Fields(t.ID, st.ID)
	if err != nil {
		w.stats.BranchesSkipped++
		w.logger.Warnf("Skipping %s:%s at level %d: %v", t.ID, st.ID, level, err)
		return nil
	}

	sub = &SubTypeNode{ID: st.ID, Label: st.Label}
	for _, f := range fields {
		if f == nil {
			w.stats.BranchesSkipped++
			w.logger.Warnf("Skipping nil field descriptor on %s:%s", t.ID, st.ID)
			continue
		}
		presentations := w.index.Compatible(f.Type)
		if len(presentations) == 0 {
			w.stats.FieldsExcluded++
			continue
		}
		w.stats.FieldsRetained++
		sub.Fields = append(sub.Fields, FieldEntry{Field: f, Presentations: presentations})

		if nested := w.walk(f, level+1); nested != nil {
			sub.Relationships = append(sub.Relationships, Relationship{Field: f.Name, Node: nested})
		}
	}
	return sub
}

// Depth returns the number of hops of the longest chain below n,
// counting n itself as one hop.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, st := range n.SubTypes {
		for _, rel := range st.Relationships {
			if d := rel.Node.Depth(); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}
