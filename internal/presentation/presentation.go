// Package presentation is the boundary to the host's formatter and
// rendering subsystem.
package presentation

import (
	"errors"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/gorefpath/internal/record"
	"github.com/dbsmedya/gorefpath/internal/schema"
)

// ErrUnknownFormatter is returned when a formatter id is not registered.
var ErrUnknownFormatter = errors.New("unknown formatter")

// Descriptor describes one formatter and the field types it supports.
type Descriptor struct {
	ID         string
	Label      string
	FieldTypes []string
}

// Supports reports whether the formatter accepts the field type.
func (d Descriptor) Supports(fieldType string) bool {
	for _, ft := range d.FieldTypes {
		if ft == fieldType || ft == "*" {
			return true
		}
	}
	return false
}

// Option is an id/label pair offered to the configuration surface.
type Option struct {
	ID    string
	Label string
}

// Renderable is the opaque output of the host renderer.
type Renderable any

// ItemList binds the raw values of one field to the record holding them.
type ItemList struct {
	Record record.Record
	Field  *schema.Field
	Values []any
}

// Formatter renders the values of one field.
type Formatter interface {
	View(items ItemList, language string) (Renderable, error)
	SettingsSummary() []string
}

// Registry enumerates formatters and constructs configured instances.
type Registry interface {
	Definitions() []Descriptor
	NewFormatter(field *schema.Field, formatterID, viewMode string, settings map[string]any) (Formatter, error)
}

// Renderer renders whole records.
type Renderer interface {
	RenderRecord(r record.Record, viewMode, language string) (Renderable, error)
	ViewModeOptions(typeID string) []Option
}

// Index caches formatter definitions per field type for the lifetime of
// one configuration or render request.
type Index struct {
	definitions []Descriptor
	byType      *orderedmap.OrderedMap[string, []Descriptor]
}

// NewIndex reads the registry definitions once.
func NewIndex(reg Registry) *Index {
	return &Index{
		definitions: reg.Definitions(),
		byType:      orderedmap.NewOrderedMap[string, []Descriptor](),
	}
}

// Compatible lists formatters supporting fieldType in registry order.
func (ix *Index) Compatible(fieldType string) []Descriptor {
	if cached, ok := ix.byType.Get(fieldType); ok {
		return cached
	}
	var out []Descriptor
	for _, d := range ix.definitions {
		if d.Supports(fieldType) {
			out = append(out, d)
		}
	}
	ix.byType.Set(fieldType, out)
	return out
}

// FieldTypes returns the field types looked up so far, in lookup order.
func (ix *Index) FieldTypes() []string {
	return ix.byType.Keys()
}
