package schema

import (
	"fmt"
)

// Memory is an in-memory Registry. Declaration order is preserved for
// types, sub-types and fields.
type Memory struct {
	types    map[string]*Type
	order    []string
	subTypes map[string][]SubType
	fields   map[string][]*Field // "type\x00subtype" -> fields
}

// NewMemory creates an empty registry.
func NewMemory() *Memory {
	return &Memory{
		types:    make(map[string]*Type),
		subTypes: make(map[string][]SubType),
		fields:   make(map[string][]*Field),
	}
}

func fieldKey(typeID, subTypeID string) string {
	return typeID + "\x00" + subTypeID
}

// AddType registers a type. Registering the same id twice replaces the
// descriptor but keeps its original position.
func (m *Memory) AddType(t Type) {
	if _, exists := m.types[t.ID]; !exists {
		m.order = append(m.order, t.ID)
	}
	tt := t
	m.types[t.ID] = &tt
}

// AddSubType registers a sub-type of an already registered type.
func (m *Memory) AddSubType(typeID string, st SubType) error {
	if _, ok := m.types[typeID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, typeID)
	}
	for _, existing := range m.subTypes[typeID] {
		if existing.ID == st.ID {
			return nil
		}
	}
	m.subTypes[typeID] = append(m.subTypes[typeID], st)
	return nil
}

// AddField appends a field to a registered (type, sub-type) pair.
func (m *Memory) AddField(typeID, subTypeID string, f *Field) error {
	if _, ok := m.types[typeID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, typeID)
	}
	if !m.hasSubType(typeID, subTypeID) {
		return fmt.Errorf("%w: %s:%s", ErrUnknownSubType, typeID, subTypeID)
	}
	key := fieldKey(typeID, subTypeID)
	if f != nil {
		for _, existing := range m.fields[key] {
			if existing != nil && existing.Name == f.Name {
				return fmt.Errorf("%w: %s:%s.%s", ErrDuplicateField, typeID, subTypeID, f.Name)
			}
		}
	}
	m.fields[key] = append(m.fields[key], f)
	return nil
}

func (m *Memory) hasSubType(typeID, subTypeID string) bool {
	if len(m.subTypes[typeID]) == 0 {
		return subTypeID == typeID
	}
	for _, st := range m.subTypes[typeID] {
		if st.ID == subTypeID {
			return true
		}
	}
	return false
}

// Type implements Registry.
func (m *Memory) Type(typeID string) (*Type, error) {
	t, ok := m.types[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeID)
	}
	return t, nil
}

// SubTypes implements Registry. A type without declared sub-types exposes a
// single unlabeled sub-type named after the type itself.
func (m *Memory) SubTypes(typeID string) ([]SubType, error) {
	if _, ok := m.types[typeID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeID)
	}
	subs := m.subTypes[typeID]
	if len(subs) == 0 {
		return []SubType{{ID: typeID}}, nil
	}
	out := make([]SubType, len(subs))
	copy(out, subs)
	return out, nil
}

// Fields implements Registry.
func (m *Memory) Fields(typeID, subTypeID string) ([]*Field, error) {
	if _, ok := m.types[typeID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeID)
	}
	return m.fields[fieldKey(typeID, subTypeID)], nil
}

// TypeIDs returns all registered type ids in declaration order.
func (m *Memory) TypeIDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
