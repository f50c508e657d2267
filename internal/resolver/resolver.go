// Package resolver walks a configured relationship path over concrete
// records, applying the selection rule of every hop per parent record.
package resolver

import (
	"time"

	"github.com/dbsmedya/gorefpath/internal/logger"
	"github.com/dbsmedya/gorefpath/internal/record"
	"github.com/dbsmedya/gorefpath/internal/relation"
	"github.com/dbsmedya/gorefpath/internal/selection"
)

// Hop is one traversal step together with its selection rule.
type Hop struct {
	Ref  relation.FieldRef
	Rule selection.Rule
}

// Terminal is what happens to the leaf records: either they are rendered
// whole in ViewMode, or Field is rendered with Formatter.
type Terminal struct {
	ViewMode  string
	Field     string
	Formatter string
	Settings  map[string]any
}

// UsesViewMode reports whether leaves are rendered as whole records.
func (t Terminal) UsesViewMode() bool {
	return t.ViewMode != ""
}

// Complete reports whether the terminal choice is fully configured.
func (t Terminal) Complete() bool {
	return t.ViewMode != "" || (t.Field != "" && t.Formatter != "")
}

// ResolvedPath is a decomposed path with one rule per hop.
type ResolvedPath struct {
	Hops     []Hop
	Terminal Terminal
}

// NewResolvedPath pairs every hop of path with its rule. Hops without a
// configured rule select everything; surplus rules are ignored.
func NewResolvedPath(path relation.Path, rules []selection.Rule, terminal Terminal) ResolvedPath {
	hops := make([]Hop, len(path))
	for i, ref := range path {
		rule := selection.Default()
		if i < len(rules) {
			rule = rules[i]
		}
		hops[i] = Hop{Ref: ref, Rule: rule}
	}
	return ResolvedPath{Hops: hops, Terminal: terminal}
}

// Path returns the hops without their rules.
func (p ResolvedPath) Path() relation.Path {
	out := make(relation.Path, len(p.Hops))
	for i, h := range p.Hops {
		out[i] = h.Ref
	}
	return out
}

// HopStats counts what happened at one hop.
type HopStats struct {
	Parents        int // records entering the hop
	SkippedParents int // records without the hop's field
	Candidates     int // children matching the target type and sub-type
	Selected       int // children kept by the rule
}

// Stats summarises one resolution.
type Stats struct {
	HopsEvaluated int
	Hops          []HopStats
	Leaves        int
	Duration      time.Duration
}

// Result holds the leaf records in deterministic order.
type Result struct {
	Records []record.Record
	Stats   Stats
}

// Resolver resolves paths against records.
type Resolver struct {
	logger *logger.Logger
}

// New creates a resolver.
func New(log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Resolver{logger: log}
}

// Resolve walks path from roots. Selection is applied to each parent's own
// matching children, and the output keeps parent order then child order.
// An empty level ends the walk early with an empty result.
func (r *Resolver) Resolve(roots []record.Record, path ResolvedPath) Result {
	start := time.Now()
	var stats Stats

	current := make([]record.Record, 0, len(roots))
	for _, root := range roots {
		if root != nil {
			current = append(current, root)
		}
	}

	for i, hop := range path.Hops {
		if len(current) == 0 {
			break
		}
		stats.HopsEvaluated++

		hs := HopStats{Parents: len(current)}
		next := make([]record.Record, 0)
		for _, parent := range current {
			if !parent.HasField(hop.Ref.Field) {
				hs.SkippedParents++
				continue
			}
			children := matching(parent.Referenced(hop.Ref.Field), hop.Ref)
			hs.Candidates += len(children)

			selected := selection.Select(children, hop.Rule)
			hs.Selected += len(selected)
			next = append(next, selected...)
		}
		stats.Hops = append(stats.Hops, hs)

		r.logger.WithHop(i).Debugf("Hop %s: %d parents (%d without field), %d candidates, %d selected by %s",
			hop.Ref, hs.Parents, hs.SkippedParents, hs.Candidates, hs.Selected, hop.Rule)

		current = next
	}

	stats.Leaves = len(current)
	stats.Duration = time.Since(start)
	r.logger.Debugf("Resolution complete: %d of %d hops evaluated, %d leaves, duration: %s",
		stats.HopsEvaluated, len(path.Hops), stats.Leaves, stats.Duration)

	return Result{Records: current, Stats: stats}
}

// matching keeps the children whose type and sub-type are the hop target.
func matching(children []record.Record, ref relation.FieldRef) []record.Record {
	out := make([]record.Record, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.TypeID() == ref.TargetType && c.SubTypeID() == ref.TargetSubType {
			out = append(out, c)
		}
	}
	return out
}
