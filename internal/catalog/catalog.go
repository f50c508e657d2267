// Package catalog flattens a discovery tree into the ordered set of
// relationship paths a display may be configured with.
package catalog

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/gorefpath/internal/discovery"
	"github.com/dbsmedya/gorefpath/internal/presentation"
	"github.com/dbsmedya/gorefpath/internal/relation"
	"github.com/dbsmedya/gorefpath/internal/schema"
)

// LabelSeparator joins the labels of consecutive hops.
const LabelSeparator = " > "

// CardinalityEntry is the declared cardinality of one hop.
type CardinalityEntry struct {
	Label       string `yaml:"label"`
	Cardinality int    `yaml:"cardinality"`
}

// FieldOption is an eligible leaf field and the presentations it supports.
type FieldOption struct {
	Field         *schema.Field
	Presentations []presentation.Descriptor
}

// Entry describes one relationship path.
type Entry struct {
	Path        relation.Path
	Label       string
	Cardinality []CardinalityEntry // one per hop
	Fields      *orderedmap.OrderedMap[string, FieldOption]
}

// Hops returns the number of hops of the entry.
func (e *Entry) Hops() int {
	return e.Path.Len()
}

// Catalog maps PathIds to entries in depth-first discovery order.
type Catalog struct {
	entries *orderedmap.OrderedMap[string, *Entry]
}

// Flatten builds the catalog of a discovery tree. A nil root yields an
// empty catalog.
func Flatten(root *discovery.Node) *Catalog {
	c := &Catalog{entries: orderedmap.NewOrderedMap[string, *Entry]()}
	c.flatten(root, nil, "", nil)
	return c
}

func (c *Catalog) flatten(node *discovery.Node, parent relation.Path, parentLabel string, chain []CardinalityEntry) {
	if node == nil || node.Field == nil {
		return
	}
	for _, sub := range node.SubTypes {
		path := parent.Append(relation.FieldRef{
			Field:         node.Field.Name,
			TargetType:    node.TypeID,
			TargetSubType: sub.ID,
		})

		label := hopLabel(node, sub)
		if parentLabel != "" {
			label = parentLabel + LabelSeparator + label
		}

		cardinality := make([]CardinalityEntry, len(chain), len(chain)+1)
		copy(cardinality, chain)
		cardinality = append(cardinality, CardinalityEntry{Label: label, Cardinality: node.Cardinality})

		fields := orderedmap.NewOrderedMap[string, FieldOption]()
		for _, fe := range sub.Fields {
			fields.Set(fe.Field.Name, FieldOption{Field: fe.Field, Presentations: fe.Presentations})
		}

		id := path.String()
		if _, exists := c.entries.Get(id); !exists {
			c.entries.Set(id, &Entry{
				Path:        path,
				Label:       label,
				Cardinality: cardinality,
				Fields:      fields,
			})
		}

		for _, rel := range sub.Relationships {
			c.flatten(rel.Node, path, label, cardinality)
		}
	}
}

// hopLabel renders "Type (field)" with ": SubType" appended when the
// sub-type has a label of its own.
func hopLabel(node *discovery.Node, sub *discovery.SubTypeNode) string {
	typeLabel := node.TypeLabel
	if typeLabel == "" {
		typeLabel = node.TypeID
	}
	label := typeLabel + " (" + node.Field.Name + ")"
	if sub.Label != "" {
		label += ": " + sub.Label
	}
	return label
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return c.entries.Len()
}

// Keys returns every PathId in catalog order.
func (c *Catalog) Keys() []string {
	return c.entries.Keys()
}

// Lookup returns the entry of a PathId.
func (c *Catalog) Lookup(pathID string) (*Entry, bool) {
	return c.entries.Get(pathID)
}

// Entries returns all entries in catalog order.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, 0, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// RelationshipOptions lists every PathId with its label.
func (c *Catalog) RelationshipOptions() []presentation.Option {
	out := make([]presentation.Option, 0, c.entries.Len())
	for el := c.entries.Front(); el != nil; el = el.Next() {
		out = append(out, presentation.Option{ID: el.Key, Label: el.Value.Label})
	}
	return out
}

// FieldOptions lists the eligible leaf fields of a PathId. Unknown paths
// yield no options.
func (c *Catalog) FieldOptions(pathID string) []presentation.Option {
	entry, ok := c.entries.Get(pathID)
	if !ok {
		return nil
	}
	out := make([]presentation.Option, 0, entry.Fields.Len())
	for el := entry.Fields.Front(); el != nil; el = el.Next() {
		out = append(out, presentation.Option{ID: el.Key, Label: el.Value.Field.DisplayLabel()})
	}
	return out
}

// FormatterOptions lists the presentations available for a field of a
// PathId.
func (c *Catalog) FormatterOptions(pathID, field string) []presentation.Option {
	fo, ok := c.Field(pathID, field)
	if !ok {
		return nil
	}
	out := make([]presentation.Option, 0, len(fo.Presentations))
	for _, d := range fo.Presentations {
		out = append(out, presentation.Option{ID: d.ID, Label: d.Label})
	}
	return out
}

// Field returns one eligible leaf field of a PathId.
func (c *Catalog) Field(pathID, field string) (FieldOption, bool) {
	entry, ok := c.entries.Get(pathID)
	if !ok {
		return FieldOption{}, false
	}
	return entry.Fields.Get(field)
}

// Formatter returns the descriptor of a presentation available for a
// field of a PathId.
func (c *Catalog) Formatter(pathID, field, formatterID string) (presentation.Descriptor, bool) {
	fo, ok := c.Field(pathID, field)
	if !ok {
		return presentation.Descriptor{}, false
	}
	for _, d := range fo.Presentations {
		if d.ID == formatterID {
			return d, true
		}
	}
	return presentation.Descriptor{}, false
}
