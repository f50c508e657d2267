// Package sqlutil checks MySQL identifiers before they become type, sub-type
// or field ids.
package sqlutil

import "regexp"

// validIdentifierRegex restricts identifiers to alphanumerics and
// underscore. Anything else could collide with the ':' and '|' delimiters
// of relationship path ids, which are not escaped.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier reports whether name can be used as an id as-is.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// ValidateIdentifier returns an *InvalidIdentifierError for names that
// IsValidIdentifier rejects.
func ValidateIdentifier(kind, name string) error {
	if !IsValidIdentifier(name) {
		return &InvalidIdentifierError{Kind: kind, Name: name}
	}
	return nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Kind string // table or column
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid " + e.Kind + " name " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
