package display

import (
	"fmt"

	"github.com/dbsmedya/gorefpath/internal/presentation"
	"github.com/dbsmedya/gorefpath/internal/relation"
	"github.com/dbsmedya/gorefpath/internal/selection"
)

// Summary lines.
const (
	SummaryNotConfigured       = "No relationship configured"
	SummaryInvalidRelationship = "Invalid relationship"
	SummaryInvalidField        = "Invalid field"
	SummaryInvalidFormatter    = "Invalid formatter"
)

// Summary describes the configuration in human-readable lines. Problems are
// reported as lines, never as errors.
func (d *Display) Summary() []string {
	if !d.IsConfigured() {
		return []string{SummaryNotConfigured}
	}

	entry, err := d.Entry()
	if err != nil {
		return []string{SummaryInvalidRelationship}
	}
	summary := []string{"Relationship: " + entry.Label}

	if d.cfg.ViewMode != "" {
		return append(summary, "Rendered as "+d.viewModeLabel(d.cfg.ViewMode))
	}

	fo, ok := d.Catalog().Field(d.cfg.Relationship, d.cfg.Field)
	if !ok {
		return append(summary, SummaryInvalidField)
	}
	summary = append(summary, "Field: "+fo.Field.DisplayLabel())

	desc, ok := d.Catalog().Formatter(d.cfg.Relationship, d.cfg.Field, d.cfg.Formatter)
	if !ok {
		return append(summary, SummaryInvalidFormatter)
	}
	summary = append(summary, "Formatter: "+desc.Label)

	formatter, err := d.Formatter()
	if err != nil {
		d.logger.Warnf("Formatter %q could not be configured: %v", d.cfg.Formatter, err)
		return summary
	}
	return append(summary, formatter.SettingsSummary()...)
}

// viewModeLabel falls back to the id for modes the renderer does not list.
func (d *Display) viewModeLabel(mode string) string {
	for _, opt := range d.ViewModeOptions() {
		if opt.ID == mode && opt.ID != "" {
			return opt.Label
		}
	}
	return mode
}

// IndividualFieldLabel is the view mode option that selects the field and
// formatter branch.
const IndividualFieldLabel = "Individual field"

// ViewModeOptions lists the view modes of the leaf type, the target of the
// last hop, preceded by the empty "individual field" choice.
func (d *Display) ViewModeOptions() []presentation.Option {
	opts := []presentation.Option{{ID: "", Label: IndividualFieldLabel}}
	if d.renderer == nil || d.cfg.Relationship == "" {
		return opts
	}
	path, err := relation.ParsePath(d.cfg.Relationship)
	if err != nil {
		return opts
	}
	leaf, ok := path.Last()
	if !ok {
		return opts
	}
	return append(opts, d.renderer.ViewModeOptions(leaf.TargetType)...)
}

// RelationshipOptions lists every relationship of the root field.
func (d *Display) RelationshipOptions() []presentation.Option {
	return d.Catalog().RelationshipOptions()
}

// FieldOptions lists the leaf fields of the configured relationship.
func (d *Display) FieldOptions() []presentation.Option {
	return d.Catalog().FieldOptions(d.cfg.Relationship)
}

// FormatterOptions lists the formatters of the configured leaf field.
func (d *Display) FormatterOptions() []presentation.Option {
	return d.Catalog().FormatterOptions(d.cfg.Relationship, d.cfg.Field)
}

// HopSetting is the cardinality form data of one hop.
type HopSetting struct {
	Hop         int
	Label       string
	Declared    int // declared cardinality; <= 0 is unbounded
	MaxAmount   int // 0 when unbounded
	Rule        selection.Rule
	Modes       []selection.ModeOption
	ValidateErr error // set when the stored rule would be rejected
}

// HopSettings returns one entry per hop of the configured relationship.
// Hops without stored settings default to mode all, amount 1, offset 0.
func (d *Display) HopSettings() []HopSetting {
	entry, err := d.Entry()
	if err != nil {
		return nil
	}

	out := make([]HopSetting, 0, len(entry.Cardinality))
	for i, c := range entry.Cardinality {
		rule := selection.Default()
		if i < len(d.cfg.Cardinality) {
			stored := d.cfg.Cardinality[i]
			rule = selection.Rule{
				Mode:    selection.Mode(stored.Mode),
				Amount:  stored.Amount,
				Offset:  stored.Offset,
				Reverse: stored.Reverse,
			}
		}
		hs := HopSetting{
			Hop:       i,
			Label:     c.Label,
			Declared:  c.Cardinality,
			MaxAmount: selection.MaxAmount(c.Cardinality),
			Rule:      rule.Clamp(c.Cardinality),
			Modes:     selection.Modes(),
		}
		if err := rule.Validate(c.Cardinality); err != nil {
			hs.ValidateErr = fmt.Errorf("hop %d (%s): %w", i, c.Label, err)
		}
		out = append(out, hs)
	}
	return out
}
