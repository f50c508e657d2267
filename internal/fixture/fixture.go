// Package fixture loads a schema and an already-materialized record graph
// from a single YAML document.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/gorefpath/internal/record"
	"github.com/dbsmedya/gorefpath/internal/schema"
)

// Document is the YAML shape of a fixture file.
type Document struct {
	Types   []TypeDoc   `yaml:"types"`
	Records []RecordDoc `yaml:"records"`
}

// TypeDoc declares a type. Fields is used by types without sub-types.
type TypeDoc struct {
	ID            string       `yaml:"id"`
	Label         string       `yaml:"label"`
	RecordBearing *bool        `yaml:"record_bearing"`
	SubTypes      []SubTypeDoc `yaml:"subtypes"`
	Fields        []FieldDoc   `yaml:"fields"`
}

// SubTypeDoc declares a sub-type and its fields.
type SubTypeDoc struct {
	ID     string     `yaml:"id"`
	Label  string     `yaml:"label"`
	Fields []FieldDoc `yaml:"fields"`
}

// FieldDoc declares a field.
type FieldDoc struct {
	Name                string   `yaml:"name"`
	Label               string   `yaml:"label"`
	Type                string   `yaml:"type"`
	TargetType          string   `yaml:"target_type"`
	TargetSubTypes      []string `yaml:"target_subtypes"`
	Cardinality         *int     `yaml:"cardinality"`
	DisplayConfigurable bool     `yaml:"display_configurable"`
}

// RecordDoc declares a record. A scalar value is shorthand for a single
// value list.
type RecordDoc struct {
	ID       string              `yaml:"id"`
	Type     string              `yaml:"type"`
	SubType  string              `yaml:"subtype"`
	Language string              `yaml:"language"`
	Values   map[string]any      `yaml:"values"`
	Refs     map[string][]string `yaml:"refs"`
}

// Fixture is a loaded schema and record graph.
type Fixture struct {
	Schema  *schema.Memory
	Records *record.Store
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a fixture document. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return doc.Build()
}

// Build turns the document into a registry and a record store.
func (d *Document) Build() (*Fixture, error) {
	reg := schema.NewMemory()
	for i, t := range d.Types {
		if t.ID == "" {
			return nil, fmt.Errorf("types[%d]: id is required", i)
		}
		if len(t.Fields) > 0 && len(t.SubTypes) > 0 {
			return nil, fmt.Errorf("type %q: declare fields on its sub-types", t.ID)
		}
		bearing := true
		if t.RecordBearing != nil {
			bearing = *t.RecordBearing
		}
		reg.AddType(schema.Type{ID: t.ID, Label: t.Label, RecordBearing: bearing})

		for _, f := range t.Fields {
			if err := addField(reg, t.ID, t.ID, f); err != nil {
				return nil, err
			}
		}
		for j, st := range t.SubTypes {
			if st.ID == "" {
				return nil, fmt.Errorf("types[%d].subtypes[%d]: id is required", i, j)
			}
			if err := reg.AddSubType(t.ID, schema.SubType{ID: st.ID, Label: st.Label}); err != nil {
				return nil, err
			}
			for _, f := range st.Fields {
				if err := addField(reg, t.ID, st.ID, f); err != nil {
					return nil, err
				}
			}
		}
	}

	store := record.NewStore()
	for i, r := range d.Records {
		if r.ID == "" || r.Type == "" {
			return nil, fmt.Errorf("records[%d]: id and type are required", i)
		}
		if _, err := reg.Type(r.Type); err != nil {
			return nil, fmt.Errorf("record %q: %w", r.ID, err)
		}
		m := store.Add(r.ID, r.Type, r.SubType, r.Language)
		for name, v := range r.Values {
			m.SetValues(name, valueList(v)...)
		}
		for name, refs := range r.Refs {
			m.SetRefs(name, refs...)
		}
	}

	return &Fixture{Schema: reg, Records: store}, nil
}

func addField(reg *schema.Memory, typeID, subTypeID string, f FieldDoc) error {
	if f.Name == "" || f.Type == "" {
		return fmt.Errorf("%s:%s: field name and type are required", typeID, subTypeID)
	}
	cardinality := 1
	if f.Cardinality != nil {
		cardinality = *f.Cardinality
	}
	field := &schema.Field{
		Name:                f.Name,
		Label:               f.Label,
		Type:                f.Type,
		TargetType:          f.TargetType,
		TargetSubTypes:      f.TargetSubTypes,
		Cardinality:         cardinality,
		DisplayConfigurable: f.DisplayConfigurable,
	}
	if err := reg.AddField(typeID, subTypeID, field); err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	return nil
}

func valueList(v any) []any {
	switch vv := v.(type) {
	case nil:
		return []any{}
	case []any:
		return vv
	default:
		return []any{vv}
	}
}
