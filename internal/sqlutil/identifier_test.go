package sqlutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple table name", "users", true},
		{"underscore", "order_items", true},
		{"mixed case and digits", "Media2", true},
		{"empty", "", false},
		{"ref delimiter", "a:b", false},
		{"path delimiter", "a|b", false},
		{"space", "order items", false},
		{"backtick", "my`table", false},
		{"hyphen", "order-items", false},
		{"unicode", "café", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidIdentifier(tt.input))
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("table", "articles"))

	err := ValidateIdentifier("column", "x|y")
	require.Error(t, err)

	var idErr *InvalidIdentifierError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, "column", idErr.Kind)
	assert.Equal(t, "x|y", idErr.Name)
	assert.Contains(t, err.Error(), "invalid column name x|y")
}
