package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected is returned when the reference graph contains a cycle.
var ErrCycleDetected = errors.New("cycle detected in reference graph")

// CycleInfo describes the types Kahn's algorithm could not order.
type CycleInfo struct {
	TotalNodes        int
	ProcessedNodes    int
	UnprocessedNodes  []string // in insertion order
	CycleParticipants []string // unprocessed types that reach themselves
	CyclePath         []string // shortest cycle through the first participant, e.g. [a b a]
}

// Blocked returns the unprocessed types that are only reachable through a
// cycle without being part of one.
func (ci *CycleInfo) Blocked() []string {
	in := make(map[string]bool, len(ci.CycleParticipants))
	for _, p := range ci.CycleParticipants {
		in[p] = true
	}
	var blocked []string
	for _, u := range ci.UnprocessedNodes {
		if !in[u] {
			blocked = append(blocked, u)
		}
	}
	return blocked
}

// CycleError reports the types involved in reference cycles.
type CycleError struct {
	Info *CycleInfo
}

func (e *CycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d types could not be ordered",
		ErrCycleDetected, len(e.Info.UnprocessedNodes), e.Info.TotalNodes)

	lines := []struct {
		label string
		items []string
		sep   string
	}{
		{"Cycle path", e.Info.CyclePath, " -> "},
		{"Types in cycle", e.Info.CycleParticipants, ", "},
		{"Types behind cycle", e.Info.Blocked(), ", "},
	}
	for _, l := range lines {
		if len(l.items) > 0 {
			fmt.Fprintf(&b, "\n%s: %s", l.label, strings.Join(l.items, l.sep))
		}
	}
	return b.String()
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// inDegrees counts the incoming edges of every type.
func (g *Graph) inDegrees() map[string]int {
	deg := make(map[string]int, len(g.Nodes))
	for name := range g.Nodes {
		deg[name] = 0
	}
	for _, children := range g.Children {
		for _, child := range children {
			deg[child]++
		}
	}
	return deg
}

// kahn orders as many types as possible. Types left out sit on or behind
// a cycle. Ties are broken by insertion order.
func (g *Graph) kahn() []string {
	deg := g.inDegrees()

	var queue []string
	for _, name := range g.order {
		if deg[name] == 0 {
			queue = append(queue, name)
		}
	}

	ordered := make([]string, 0, len(g.Nodes))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered = append(ordered, name)

		for _, child := range g.GetChildren(name) {
			if deg[child]--; deg[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return ordered
}

// cycleThrough returns the shortest path that leaves start and comes back
// to it using only types in within, or nil when start is not on a cycle.
func (g *Graph) cycleThrough(start string, within map[string]bool) []string {
	prev := map[string]string{}
	seen := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range g.GetChildren(cur) {
			if !within[next] {
				continue
			}
			if next == start {
				var back []string
				for n := cur; n != start; n = prev[n] {
					back = append(back, n)
				}
				path := []string{start}
				for i := len(back) - 1; i >= 0; i-- {
					path = append(path, back[i])
				}
				return append(path, start)
			}
			if !seen[next] {
				seen[next] = true
				prev[next] = cur
				queue = append(queue, next)
			}
		}
	}
	return nil
}

// DetectIncompleteProcessing returns nil for an acyclic graph, otherwise
// the types that could not be ordered and the cycles among them.
func (g *Graph) DetectIncompleteProcessing() *CycleInfo {
	ordered := g.kahn()
	if len(ordered) == len(g.Nodes) {
		return nil
	}

	done := make(map[string]bool, len(ordered))
	for _, name := range ordered {
		done[name] = true
	}

	info := &CycleInfo{TotalNodes: len(g.Nodes), ProcessedNodes: len(ordered)}
	stuck := make(map[string]bool)
	for _, name := range g.order {
		if !done[name] {
			info.UnprocessedNodes = append(info.UnprocessedNodes, name)
			stuck[name] = true
		}
	}

	for _, name := range info.UnprocessedNodes {
		path := g.cycleThrough(name, stuck)
		if path == nil {
			continue
		}
		if info.CyclePath == nil {
			info.CyclePath = path
		}
		info.CycleParticipants = append(info.CycleParticipants, name)
	}
	return info
}

// HasCycle reports whether any type reaches itself.
func (g *Graph) HasCycle() bool {
	return g.DetectIncompleteProcessing() != nil
}

// TopologicalSort returns types so that every type comes before the types
// it references, or a *CycleError.
func (g *Graph) TopologicalSort() ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g.kahn(), nil
}

// Validate returns a *CycleError if the graph contains a cycle. Cycles are
// legal for discovery, which is depth bounded; callers report them.
func (g *Graph) Validate() error {
	if info := g.DetectIncompleteProcessing(); info != nil {
		return &CycleError{Info: info}
	}
	return nil
}
