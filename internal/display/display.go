// Package display is the request-scoped context of one configured
// relationship display. A Display memoizes the discovery tree, the catalog
// and the presentation index for its own lifetime; build a new one per
// configuration or render request.
package display

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dbsmedya/gorefpath/internal/catalog"
	"github.com/dbsmedya/gorefpath/internal/config"
	"github.com/dbsmedya/gorefpath/internal/discovery"
	"github.com/dbsmedya/gorefpath/internal/logger"
	"github.com/dbsmedya/gorefpath/internal/presentation"
	"github.com/dbsmedya/gorefpath/internal/record"
	"github.com/dbsmedya/gorefpath/internal/relation"
	"github.com/dbsmedya/gorefpath/internal/resolver"
	"github.com/dbsmedya/gorefpath/internal/schema"
	"github.com/dbsmedya/gorefpath/internal/selection"
)

// ErrInvalidRelationship is returned when the configured PathId is not in
// the catalog of the root field.
var ErrInvalidRelationship = errors.New("invalid relationship")

// Options wires a Display to its collaborators.
type Options struct {
	Name          string
	Schema        schema.Registry
	Presentations presentation.Registry
	Renderer      presentation.Renderer
	RootField     *schema.Field
	Config        config.DisplayConfig
	Logger        *logger.Logger
}

// Display holds one configuration and everything derived from it.
type Display struct {
	name          string
	requestID     string
	registry      schema.Registry
	presentations presentation.Registry
	renderer      presentation.Renderer
	root          *schema.Field
	cfg           config.DisplayConfig
	logger        *logger.Logger

	index          *presentation.Index
	node           *discovery.Node
	discoveryStats discovery.Stats
	discovered     bool
	catalog        *catalog.Catalog
}

// New creates a Display. The root field is the reference field the display
// is attached to.
func New(opts Options) (*Display, error) {
	if opts.Schema == nil {
		return nil, fmt.Errorf("schema registry is nil")
	}
	if opts.Presentations == nil {
		return nil, fmt.Errorf("presentation registry is nil")
	}
	if opts.RootField == nil {
		return nil, fmt.Errorf("root field is nil")
	}

	cfg := opts.Config
	if cfg.Cardinality == nil {
		cfg.Cardinality = []config.CardinalityConfig{}
	}
	if cfg.Settings == nil {
		cfg.Settings = map[string]any{}
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewDefault()
	}
	requestID := uuid.NewString()
	log = log.WithRequest(requestID)
	if opts.Name != "" {
		log = log.WithDisplay(opts.Name)
	}

	return &Display{
		name:          opts.Name,
		requestID:     requestID,
		registry:      opts.Schema,
		presentations: opts.Presentations,
		renderer:      opts.Renderer,
		root:          opts.RootField,
		cfg:           cfg,
		logger:        log,
	}, nil
}

// Name returns the configured display name.
func (d *Display) Name() string { return d.name }

// RequestID identifies this request in logs.
func (d *Display) RequestID() string { return d.requestID }

// Config returns the display configuration.
func (d *Display) Config() config.DisplayConfig { return d.cfg }

// Index returns the presentation index, reading formatter definitions on
// first use.
func (d *Display) Index() *presentation.Index {
	if d.index == nil {
		d.index = presentation.NewIndex(d.presentations)
	}
	return d.index
}

// Discovery returns the discovery tree of the root field. It is computed
// once per Display.
func (d *Display) Discovery() *discovery.Node {
	if d.discovered {
		return d.node
	}
	w, err := discovery.NewWalker(d.registry, d.Index(), d.logger)
	if err != nil {
		d.logger.Errorf("Discovery unavailable: %v", err)
		d.discovered = true
		return nil
	}
	w.SetCustomViewMode(d.cfg.HostViewMode == config.CustomViewMode)
	d.node = w.Discover(d.root)
	d.discoveryStats = w.Stats()
	d.discovered = true
	return d.node
}

// DiscoveryStats returns the statistics of the discovery walk.
func (d *Display) DiscoveryStats() discovery.Stats {
	d.Discovery()
	return d.discoveryStats
}

// Catalog returns the flattened catalog. It is computed once per Display.
func (d *Display) Catalog() *catalog.Catalog {
	if d.catalog == nil {
		d.catalog = catalog.Flatten(d.Discovery())
	}
	return d.catalog
}

// IsConfigured reports whether the completeness gate passes.
func (d *Display) IsConfigured() bool {
	return d.cfg.IsConfigured()
}

// Rules converts the persisted cardinality entries into selection rules.
// Unknown modes select everything.
func (d *Display) Rules() []selection.Rule {
	rules := make([]selection.Rule, 0, len(d.cfg.Cardinality))
	for i, c := range d.cfg.Cardinality {
		mode, err := selection.ParseMode(c.Mode)
		if err != nil {
			d.logger.WithHop(i).Warnf("Treating hop as 'all': %v", err)
			mode = selection.ModeAll
		}
		rules = append(rules, selection.Rule{
			Mode:    mode,
			Amount:  c.Amount,
			Offset:  c.Offset,
			Reverse: c.Reverse,
		})
	}
	return rules
}

// Entry returns the catalog entry of the configured relationship.
func (d *Display) Entry() (*catalog.Entry, error) {
	if d.cfg.Relationship == "" {
		return nil, relation.ErrEmptyPath
	}
	entry, ok := d.Catalog().Lookup(d.cfg.Relationship)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRelationship, d.cfg.Relationship)
	}
	return entry, nil
}

// ResolvedPath builds the run-time path of the configured relationship.
func (d *Display) ResolvedPath() (resolver.ResolvedPath, error) {
	entry, err := d.Entry()
	if err != nil {
		return resolver.ResolvedPath{}, err
	}
	return resolver.NewResolvedPath(entry.Path, d.Rules(), resolver.Terminal{
		ViewMode:  d.cfg.ViewMode,
		Field:     d.cfg.Field,
		Formatter: d.cfg.Formatter,
		Settings:  d.cfg.Settings,
	}), nil
}

// Formatter constructs the configured formatter instance.
func (d *Display) Formatter() (presentation.Formatter, error) {
	fo, ok := d.Catalog().Field(d.cfg.Relationship, d.cfg.Field)
	if !ok {
		return nil, fmt.Errorf("field %q is not available on %q", d.cfg.Field, d.cfg.Relationship)
	}
	if _, ok := d.Catalog().Formatter(d.cfg.Relationship, d.cfg.Field, d.cfg.Formatter); !ok {
		return nil, fmt.Errorf("%w: %q for field %q", presentation.ErrUnknownFormatter, d.cfg.Formatter, d.cfg.Field)
	}
	return d.presentations.NewFormatter(fo.Field, d.cfg.Formatter, d.cfg.HostViewMode, d.cfg.Settings)
}

// View renders the configured relationship of root. Incomplete or invalid
// configuration renders nothing, and a leaf that fails to render is logged
// and skipped. Leaves rendered in a view mode use their own language; a
// field formatter renders in langcode.
func (d *Display) View(root record.Record, langcode string) []presentation.Renderable {
	if root == nil || !d.IsConfigured() {
		return nil
	}

	path, err := d.ResolvedPath()
	if err != nil {
		d.logger.Warnf("Nothing to render: %v", err)
		return nil
	}

	var (
		formatter presentation.Formatter
		leafField *schema.Field
	)
	if !path.Terminal.UsesViewMode() {
		formatter, err = d.Formatter()
		if err != nil {
			d.logger.Warnf("Nothing to render: %v", err)
			return nil
		}
		fo, _ := d.Catalog().Field(d.cfg.Relationship, d.cfg.Field)
		leafField = fo.Field
	} else if d.renderer == nil {
		d.logger.Warnf("Nothing to render: no renderer for view mode %q", d.cfg.ViewMode)
		return nil
	}

	result := resolver.New(d.logger.WithPath(d.cfg.Relationship)).Resolve([]record.Record{root}, path)

	out := make([]presentation.Renderable, 0, len(result.Records))
	for _, leaf := range result.Records {
		var r presentation.Renderable
		if formatter == nil {
			r, err = d.renderer.RenderRecord(leaf, d.cfg.ViewMode, leaf.Language())
		} else {
			r, err = formatter.View(presentation.ItemList{
				Record: leaf,
				Field:  leafField,
				Values: leaf.Values(d.cfg.Field),
			}, langcode)
		}
		if err != nil {
			d.logger.WithFields(map[string]interface{}{
				"type":    leaf.TypeID(),
				"subtype": leaf.SubTypeID(),
				"record":  leaf.ID(),
			}).Warnf("Skipping leaf that failed to render: %v", err)
			continue
		}
		out = append(out, r)
	}
	return out
}
