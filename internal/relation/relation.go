// Package relation provides the structured identifiers for reference hops
// and relationship paths, and their delimited string form.
package relation

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RefDelimiter separates the parts of a FieldRef.
	RefDelimiter = ":"
	// PathDelimiter separates the hops of a Path.
	PathDelimiter = "|"
)

var (
	// ErrMalformedRef is returned when a hop does not have exactly three parts.
	ErrMalformedRef = errors.New("malformed field reference")
	// ErrEmptyPath is returned when a path string contains no hops.
	ErrEmptyPath = errors.New("empty relationship path")
)

// FieldRef identifies one traversable hop: the reference field followed
// and the concrete type/sub-type it must land on.
type FieldRef struct {
	Field         string
	TargetType    string
	TargetSubType string
}

// String renders the hop as field:type:subtype.
// Parts containing the delimiter are not escaped.
func (r FieldRef) String() string {
	return r.Field + RefDelimiter + r.TargetType + RefDelimiter + r.TargetSubType
}

// ParseFieldRef parses the field:type:subtype form.
func ParseFieldRef(s string) (FieldRef, error) {
	parts := strings.Split(s, RefDelimiter)
	if len(parts) != 3 {
		return FieldRef{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	for _, p := range parts {
		if p == "" {
			return FieldRef{}, fmt.Errorf("%w: %q has an empty part", ErrMalformedRef, s)
		}
	}
	return FieldRef{Field: parts[0], TargetType: parts[1], TargetSubType: parts[2]}, nil
}

// Path is an ordered chain of hops from the root record.
type Path []FieldRef

// Append returns a new path with ref added as the last hop.
// The receiver is never modified.
func (p Path) Append(ref FieldRef) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, ref)
}

// Len returns the number of hops.
func (p Path) Len() int {
	return len(p)
}

// Last returns the final hop, or false for an empty path.
func (p Path) Last() (FieldRef, bool) {
	if len(p) == 0 {
		return FieldRef{}, false
	}
	return p[len(p)-1], true
}

// String renders the path in its configuration form.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, ref := range p {
		parts[i] = ref.String()
	}
	return strings.Join(parts, PathDelimiter)
}

// ParsePath decomposes a configured path string into hops.
func ParsePath(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyPath
	}
	hops := strings.Split(s, PathDelimiter)
	path := make(Path, 0, len(hops))
	for i, hop := range hops {
		ref, err := ParseFieldRef(hop)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		path = append(path, ref)
	}
	return path, nil
}
