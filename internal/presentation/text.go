package presentation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/dbsmedya/gorefpath/internal/record"
	"github.com/dbsmedya/gorefpath/internal/schema"
)

// Built-in formatter ids.
const (
	FormatterPlain          = "plain"
	FormatterTrimmed        = "trimmed"
	FormatterReferenceLabel = "reference_label"
	FormatterJoined         = "joined"
)

const defaultTrimLength = 80

var scalarTypes = []string{
	"string", "text", "integer", "decimal", "float", "boolean",
	"char", "varchar", "tinytext", "mediumtext", "longtext",
	"int", "tinyint", "smallint", "bigint", "double", "date", "datetime", "timestamp",
}

// TextRegistry is a plain-text Registry and Renderer used by the CLI.
type TextRegistry struct {
	definitions []Descriptor
	viewModes   []Option
}

// NewTextRegistry returns the built-in text formatters.
func NewTextRegistry() *TextRegistry {
	textTypes := []string{"string", "text", "varchar", "tinytext", "mediumtext", "longtext"}
	return &TextRegistry{
		definitions: []Descriptor{
			{ID: FormatterPlain, Label: "Plain text", FieldTypes: scalarTypes},
			{ID: FormatterTrimmed, Label: "Trimmed", FieldTypes: textTypes},
			{ID: FormatterReferenceLabel, Label: "Reference label", FieldTypes: []string{schema.KindReference, schema.KindReferenceRevision}},
			{ID: FormatterJoined, Label: "Joined values", FieldTypes: []string{"*"}},
		},
		viewModes: []Option{
			{ID: "default", Label: "Default"},
			{ID: "teaser", Label: "Teaser"},
		},
	}
}

// Definitions implements Registry.
func (t *TextRegistry) Definitions() []Descriptor {
	out := make([]Descriptor, len(t.definitions))
	copy(out, t.definitions)
	return out
}

// NewFormatter implements Registry.
func (t *TextRegistry) NewFormatter(field *schema.Field, formatterID, viewMode string, settings map[string]any) (Formatter, error) {
	if field == nil {
		return nil, fmt.Errorf("field is nil")
	}
	var desc *Descriptor
	for i := range t.definitions {
		if t.definitions[i].ID == formatterID {
			desc = &t.definitions[i]
			break
		}
	}
	if desc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, formatterID)
	}
	if !desc.Supports(field.Type) {
		return nil, fmt.Errorf("formatter %q does not support field type %q", formatterID, field.Type)
	}

	switch formatterID {
	case FormatterTrimmed:
		length := defaultTrimLength
		if v, ok := settings["trim_length"]; ok {
			n, err := cast.ToIntE(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid trim_length %v", v)
			}
			length = n
		}
		return &trimmedFormatter{length: length}, nil
	case FormatterJoined:
		sep := ", "
		if v, ok := settings["separator"]; ok {
			sep = cast.ToString(v)
		}
		return &joinedFormatter{separator: sep}, nil
	case FormatterReferenceLabel:
		return &joinedFormatter{separator: ", ", prefix: "→ "}, nil
	default:
		return &joinedFormatter{separator: "\n"}, nil
	}
}

type trimmedFormatter struct {
	length int
}

func (f *trimmedFormatter) View(items ItemList, language string) (Renderable, error) {
	parts := make([]string, 0, len(items.Values))
	for _, v := range items.Values {
		s := cast.ToString(v)
		if r := []rune(s); len(r) > f.length {
			s = string(r[:f.length]) + "…"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

func (f *trimmedFormatter) SettingsSummary() []string {
	return []string{fmt.Sprintf("Trimmed to %d characters", f.length)}
}

type joinedFormatter struct {
	separator string
	prefix    string
}

func (f *joinedFormatter) View(items ItemList, language string) (Renderable, error) {
	parts := make([]string, 0, len(items.Values))
	for _, v := range items.Values {
		parts = append(parts, f.prefix+cast.ToString(v))
	}
	return strings.Join(parts, f.separator), nil
}

func (f *joinedFormatter) SettingsSummary() []string {
	if f.separator == "\n" || f.prefix != "" {
		return nil
	}
	return []string{fmt.Sprintf("Separator: %q", f.separator)}
}

// RenderRecord implements Renderer. Teaser renders the identity line only.
func (t *TextRegistry) RenderRecord(r record.Record, viewMode, language string) (Renderable, error) {
	if r == nil {
		return nil, fmt.Errorf("record is nil")
	}
	header := fmt.Sprintf("%s:%s #%s [%s]", r.TypeID(), r.SubTypeID(), r.ID(), language)
	if viewMode == "teaser" {
		return header, nil
	}

	var sb strings.Builder
	sb.WriteString(header)
	if m, ok := r.(interface{ FieldNames() []string }); ok {
		names := m.FieldNames()
		sort.Strings(names)
		for _, name := range names {
			vals := make([]string, 0)
			for _, v := range r.Values(name) {
				vals = append(vals, cast.ToString(v))
			}
			fmt.Fprintf(&sb, "\n  %s: %s", name, strings.Join(vals, ", "))
		}
	}
	return sb.String(), nil
}

// ViewModeOptions implements Renderer. Every type shares the same modes.
func (t *TextRegistry) ViewModeOptions(typeID string) []Option {
	out := make([]Option, len(t.viewModes))
	copy(out, t.viewModes)
	return out
}
