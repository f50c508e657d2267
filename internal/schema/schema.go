// Package schema describes the host's type registry: record types, their
// sub-types and the fields each sub-type carries.
package schema

import "errors"

// Reference field kinds that discovery is allowed to follow.
const (
	KindReference         = "reference"
	KindReferenceRevision = "reference_revision"
)

var (
	// ErrUnknownType is returned when the registry has no such type.
	ErrUnknownType = errors.New("unknown type")
	// ErrUnknownSubType is returned when a type has no such sub-type.
	ErrUnknownSubType = errors.New("unknown sub-type")
	// ErrUnknownField is returned when a sub-type has no such field.
	ErrUnknownField = errors.New("unknown field")
	// ErrDuplicateField is returned when a sub-type already has a field of
	// that name.
	ErrDuplicateField = errors.New("duplicate field")
)

// Field describes one field of a (type, sub-type) pair.
type Field struct {
	Name  string
	Label string
	Type  string // field type, e.g. "string" or KindReference

	// Reference settings, only meaningful for reference kinds.
	TargetType     string
	TargetSubTypes []string // allow-list; empty means every sub-type

	// Cardinality is the declared storage cardinality. <= 0 is unbounded.
	Cardinality int
	// DisplayConfigurable reports whether the host lets this field be
	// configured for display on its own.
	DisplayConfigurable bool
}

// IsReference reports whether the field type is one of the reference kinds.
func (f *Field) IsReference() bool {
	return f.Type == KindReference || f.Type == KindReferenceRevision
}

// DisplayLabel returns the label, falling back to the machine name.
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Type describes a record type.
type Type struct {
	ID    string
	Label string
	// RecordBearing is false for types that cannot hold fields.
	RecordBearing bool
}

// SubType is a named variant of a type. Label is empty when the type has
// no sub-type entity of its own.
type SubType struct {
	ID    string
	Label string
}

// Registry is the capability discovery needs from the host schema.
type Registry interface {
	// Type returns the descriptor of a type.
	Type(typeID string) (*Type, error)
	// SubTypes lists the sub-types of a type in a stable order.
	SubTypes(typeID string) ([]SubType, error)
	// Fields lists the fields of a (type, sub-type) pair in a stable order.
	Fields(typeID, subTypeID string) ([]*Field, error)
}

// LookupField finds one field of a (type, sub-type) pair.
func LookupField(r Registry, typeID, subTypeID, name string) (*Field, error) {
	fields, err := r.Fields(typeID, subTypeID)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f != nil && f.Name == name {
			return f, nil
		}
	}
	return nil, ErrUnknownField
}
