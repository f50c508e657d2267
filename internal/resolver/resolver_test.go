package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gorefpath/internal/record"
	"github.com/dbsmedya/gorefpath/internal/relation"
	"github.com/dbsmedya/gorefpath/internal/selection"
)

var (
	sectionsHop = relation.FieldRef{Field: "field_sections", TargetType: "paragraph", TargetSubType: "gallery"}
	imagesHop   = relation.FieldRef{Field: "field_images", TargetType: "media", TargetSubType: "image"}
)

// buildStore creates two articles, each with three galleries, and every
// gallery with two images. a1 also references a text paragraph.
func buildStore() *record.Store {
	s := record.NewStore()
	for _, a := range []string{"a1", "a2"} {
		var sections []string
		if a == "a1" {
			s.Add("a1-text", "paragraph", "text", "en")
			sections = append(sections, "a1-text")
		}
		for _, g := range []string{"g1", "g2", "g3"} {
			gid := a + "-" + g
			s.Add(gid, "paragraph", "gallery", "en").SetRefs("field_images", gid+"-m1", gid+"-m2")
			s.Add(gid+"-m1", "media", "image", "en")
			s.Add(gid+"-m2", "media", "image", "en")
			sections = append(sections, gid)
		}
		s.Add(a, "node", "article", "en").SetRefs("field_sections", sections...)
	}
	s.Add("a3", "node", "article", "en").SetValues("title", "No sections")
	return s
}

func roots(t *testing.T, s *record.Store, ids ...string) []record.Record {
	t.Helper()
	out := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		r, ok := s.Get(id)
		require.True(t, ok, "record %s", id)
		out = append(out, r)
	}
	return out
}

func ids(records []record.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID())
	}
	return out
}

func TestNewResolvedPath_DefaultsMissingRules(t *testing.T) {
	path := relation.Path{sectionsHop, imagesHop}
	rp := NewResolvedPath(path, []selection.Rule{{Mode: selection.ModeFirst}}, Terminal{ViewMode: "default"})

	require.Len(t, rp.Hops, 2)
	assert.Equal(t, selection.ModeFirst, rp.Hops[0].Rule.Mode)
	assert.Equal(t, selection.Default(), rp.Hops[1].Rule)
	assert.Equal(t, path, rp.Path())
}

func TestNewResolvedPath_IgnoresSurplusRules(t *testing.T) {
	rules := []selection.Rule{{Mode: selection.ModeLast}, {Mode: selection.ModeFirst}}
	rp := NewResolvedPath(relation.Path{sectionsHop}, rules, Terminal{})

	require.Len(t, rp.Hops, 1)
	assert.Equal(t, selection.ModeLast, rp.Hops[0].Rule.Mode)
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		name         string
		terminal     Terminal
		complete     bool
		usesViewMode bool
	}{
		{"empty", Terminal{}, false, false},
		{"view mode", Terminal{ViewMode: "teaser"}, true, true},
		{"field only", Terminal{Field: "alt"}, false, false},
		{"field and formatter", Terminal{Field: "alt", Formatter: "plain"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.complete, tt.terminal.Complete())
			assert.Equal(t, tt.usesViewMode, tt.terminal.UsesViewMode())
		})
	}
}

func TestResolve_PerParentIndependence(t *testing.T) {
	s := buildStore()
	rp := NewResolvedPath(relation.Path{sectionsHop}, []selection.Rule{{Mode: selection.ModeFirst}}, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1", "a2"), rp)

	assert.Equal(t, []string{"a1-g1", "a2-g1"}, ids(result.Records))
	assert.Equal(t, 1, result.Stats.HopsEvaluated)
	assert.Equal(t, 2, result.Stats.Leaves)
}

func TestResolve_TwoHopsPreservesParentThenChildOrder(t *testing.T) {
	s := buildStore()
	rules := []selection.Rule{
		{Mode: selection.ModeAdvanced, Amount: 2, Offset: 1},
		{Mode: selection.ModeAll},
	}
	rp := NewResolvedPath(relation.Path{sectionsHop, imagesHop}, rules, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1", "a2"), rp)

	assert.Equal(t, []string{
		"a1-g2-m1", "a1-g2-m2", "a1-g3-m1", "a1-g3-m2",
		"a2-g2-m1", "a2-g2-m2", "a2-g3-m1", "a2-g3-m2",
	}, ids(result.Records))

	require.Len(t, result.Stats.Hops, 2)
	assert.Equal(t, HopStats{Parents: 2, Candidates: 6, Selected: 4}, result.Stats.Hops[0])
	assert.Equal(t, HopStats{Parents: 4, Candidates: 8, Selected: 8}, result.Stats.Hops[1])
}

func TestResolve_LastUsesFilteredCount(t *testing.T) {
	s := buildStore()
	rules := []selection.Rule{{Mode: selection.ModeLast}, {Mode: selection.ModeLast}}
	rp := NewResolvedPath(relation.Path{sectionsHop, imagesHop}, rules, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1"), rp)

	assert.Equal(t, []string{"a1-g3-m2"}, ids(result.Records))
}

func TestResolve_FiltersBySubType(t *testing.T) {
	s := buildStore()
	textHop := relation.FieldRef{Field: "field_sections", TargetType: "paragraph", TargetSubType: "text"}
	rp := NewResolvedPath(relation.Path{textHop}, nil, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1", "a2"), rp)

	assert.Equal(t, []string{"a1-text"}, ids(result.Records))
	assert.Equal(t, 1, result.Stats.Hops[0].Candidates)
}

func TestResolve_FirstSkipsNonMatchingSubType(t *testing.T) {
	s := buildStore()
	rp := NewResolvedPath(relation.Path{sectionsHop}, []selection.Rule{{Mode: selection.ModeFirst}}, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1"), rp)

	// a1's first section is a text paragraph; the first gallery wins.
	assert.Equal(t, []string{"a1-g1"}, ids(result.Records))
}

func TestResolve_SkipsParentsWithoutField(t *testing.T) {
	s := buildStore()
	rp := NewResolvedPath(relation.Path{sectionsHop}, nil, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a3", "a2"), rp)

	assert.Equal(t, []string{"a2-g1", "a2-g2", "a2-g3"}, ids(result.Records))
	assert.Equal(t, 1, result.Stats.Hops[0].SkippedParents)
}

func TestResolve_EmptyShortCircuit(t *testing.T) {
	s := buildStore()
	missing := relation.FieldRef{Field: "field_sections", TargetType: "paragraph", TargetSubType: "quote"}
	rp := NewResolvedPath(relation.Path{missing, imagesHop}, nil, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1", "a2"), rp)

	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.Stats.HopsEvaluated)
	assert.Equal(t, 0, result.Stats.Leaves)
}

func TestResolve_AdvancedZeroAmountYieldsNothing(t *testing.T) {
	s := buildStore()
	rules := []selection.Rule{{Mode: selection.ModeAdvanced, Amount: 0}}
	rp := NewResolvedPath(relation.Path{sectionsHop, imagesHop}, rules, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1"), rp)

	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.Stats.HopsEvaluated)
}

func TestResolve_UnderSupply(t *testing.T) {
	s := buildStore()
	rules := []selection.Rule{{Mode: selection.ModeAdvanced, Amount: 10, Offset: 2}}
	rp := NewResolvedPath(relation.Path{sectionsHop}, rules, Terminal{})

	result := New(nil).Resolve(roots(t, s, "a1"), rp)

	assert.Equal(t, []string{"a1-g3"}, ids(result.Records))
}

func TestResolve_ReverseIsInert(t *testing.T) {
	s := buildStore()
	plain := NewResolvedPath(relation.Path{sectionsHop},
		[]selection.Rule{{Mode: selection.ModeAdvanced, Amount: 2, Offset: 0}}, Terminal{})
	reversed := NewResolvedPath(relation.Path{sectionsHop},
		[]selection.Rule{{Mode: selection.ModeAdvanced, Amount: 2, Offset: 0, Reverse: true}}, Terminal{})

	r := New(nil)
	assert.Equal(t,
		ids(r.Resolve(roots(t, s, "a2"), plain).Records),
		ids(r.Resolve(roots(t, s, "a2"), reversed).Records))
}

func TestResolve_Deterministic(t *testing.T) {
	s := buildStore()
	rp := NewResolvedPath(relation.Path{sectionsHop, imagesHop}, nil, Terminal{})
	r := New(nil)

	first := ids(r.Resolve(roots(t, s, "a1", "a2"), rp).Records)
	second := ids(r.Resolve(roots(t, s, "a1", "a2"), rp).Records)

	assert.Len(t, first, 12)
	assert.Equal(t, first, second)
}

func TestResolve_NoRoots(t *testing.T) {
	rp := NewResolvedPath(relation.Path{sectionsHop}, nil, Terminal{})

	result := New(nil).Resolve(nil, rp)

	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Stats.HopsEvaluated)
}
