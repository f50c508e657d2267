// Package record describes the host's already-loaded record graph.
package record

// Record is one host record. References are returned in delta order.
type Record interface {
	ID() string
	TypeID() string
	SubTypeID() string
	Language() string

	// HasField reports whether the record carries the field at all.
	HasField(name string) bool
	// Referenced returns the records a reference field points at.
	Referenced(field string) []Record
	// Values returns the raw values of a field, one per delta.
	Values(field string) []any
}

// Store is an in-memory record graph. Reference targets are looked up by id
// when Referenced is called, so records may be added in any order.
type Store struct {
	records map[string]*Memory
	order   []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Memory)}
}

// Memory is the Record implementation held by a Store.
type Memory struct {
	store *Store

	id        string
	typeID    string
	subTypeID string
	language  string
	values    map[string][]any
	refs      map[string][]string
}

// Add creates and registers a record. A record with an existing id
// replaces the previous one.
func (s *Store) Add(id, typeID, subTypeID, language string) *Memory {
	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	if subTypeID == "" {
		subTypeID = typeID
	}
	m := &Memory{
		store:     s,
		id:        id,
		typeID:    typeID,
		subTypeID: subTypeID,
		language:  language,
		values:    make(map[string][]any),
		refs:      make(map[string][]string),
	}
	s.records[id] = m
	return m
}

// Get returns a record by id.
func (s *Store) Get(id string) (Record, bool) {
	m, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return m, true
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// IDs returns record ids in insertion order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// SetValues sets the raw values of a data field.
func (m *Memory) SetValues(field string, values ...any) *Memory {
	m.values[field] = values
	return m
}

// SetRefs sets the target ids of a reference field.
func (m *Memory) SetRefs(field string, ids ...string) *Memory {
	m.refs[field] = ids
	return m
}

func (m *Memory) ID() string        { return m.id }
func (m *Memory) TypeID() string    { return m.typeID }
func (m *Memory) SubTypeID() string { return m.subTypeID }
func (m *Memory) Language() string  { return m.language }

// HasField implements Record.
func (m *Memory) HasField(name string) bool {
	if _, ok := m.values[name]; ok {
		return true
	}
	_, ok := m.refs[name]
	return ok
}

// Referenced implements Record. Dangling ids are skipped.
func (m *Memory) Referenced(field string) []Record {
	ids := m.refs[field]
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if target, ok := m.store.records[id]; ok {
			out = append(out, target)
		}
	}
	return out
}

// FieldNames lists every data and reference field the record carries.
func (m *Memory) FieldNames() []string {
	names := make([]string, 0, len(m.values)+len(m.refs))
	for name := range m.values {
		names = append(names, name)
	}
	for name := range m.refs {
		if _, dup := m.values[name]; !dup {
			names = append(names, name)
		}
	}
	return names
}

// Values implements Record. Reference fields report their target ids.
func (m *Memory) Values(field string) []any {
	if v, ok := m.values[field]; ok {
		return v
	}
	ids, ok := m.refs[field]
	if !ok {
		return nil
	}
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
