// Package selection implements the per-hop selection rule that picks which
// candidate records a path descends into.
package selection

import (
	"errors"
	"fmt"
)

// Mode is the selection mode of one hop.
type Mode string

const (
	ModeAll      Mode = "all"
	ModeFirst    Mode = "first"
	ModeLast     Mode = "last"
	ModeAdvanced Mode = "advanced"
)

// ErrInvalidRule is returned by Validate.
var ErrInvalidRule = errors.New("invalid selection rule")

// ModeOption is a selectable mode with its label.
type ModeOption struct {
	Mode  Mode
	Label string
}

// Modes lists the selection modes in display order.
func Modes() []ModeOption {
	return []ModeOption{
		{ModeAll, "All"},
		{ModeFirst, "First entity"},
		{ModeLast, "Last entity"},
		{ModeAdvanced, "Advanced"},
	}
}

// ParseMode converts a configured string into a Mode. An empty string is
// ModeAll.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeFirst, ModeLast, ModeAdvanced:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRule, s)
}

// Rule is the configuration of one hop.
//
// Reverse is stored and reported but does not change the selection.
type Rule struct {
	Mode    Mode
	Amount  int
	Offset  int
	Reverse bool
}

// Default returns the rule used for hops without configuration.
func Default() Rule {
	return Rule{Mode: ModeAll, Amount: 1, Offset: 0}
}

// window returns the effective amount and offset for a hop holding count
// candidates. limited is false when every candidate is taken.
func (r Rule) window(count int) (amount, offset int, limited bool) {
	switch r.Mode {
	case ModeFirst:
		return 1, 0, true
	case ModeLast:
		return 1, count - 1, true
	case ModeAdvanced:
		offset = r.Offset
		if offset < 0 {
			offset = 0
		}
		return r.Amount, offset, true
	}
	return 0, 0, false
}

// Select applies the rule to the candidates of one parent. The output keeps
// the original relative order. Fewer candidates than requested simply
// yields fewer results.
func Select[T any](candidates []T, rule Rule) []T {
	amount, offset, limited := rule.window(len(candidates))
	if !limited {
		out := make([]T, len(candidates))
		copy(out, candidates)
		return out
	}

	out := make([]T, 0)
	for i, c := range candidates {
		if len(out) >= amount {
			break
		}
		if i >= offset {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the rule as the configuration surface would accept it.
// declared is the declared cardinality of the hop; <= 0 is unbounded.
func (r Rule) Validate(declared int) error {
	if _, err := ParseMode(string(r.Mode)); err != nil {
		return err
	}
	if r.Mode != ModeAdvanced {
		return nil
	}
	if r.Amount < 1 {
		return fmt.Errorf("%w: amount must be at least 1", ErrInvalidRule)
	}
	if declared > 0 && r.Amount > declared {
		return fmt.Errorf("%w: amount %d exceeds declared cardinality %d", ErrInvalidRule, r.Amount, declared)
	}
	if r.Offset < 0 {
		return fmt.Errorf("%w: offset cannot be negative", ErrInvalidRule)
	}
	return nil
}

// Clamp brings amount and offset into the range the configuration surface
// allows for a hop with the given declared cardinality.
func (r Rule) Clamp(declared int) Rule {
	if r.Mode == "" {
		r.Mode = ModeAll
	}
	if r.Amount < 1 {
		r.Amount = 1
	}
	if declared > 0 && r.Amount > declared {
		r.Amount = declared
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	return r
}

// MaxAmount returns the largest amount the configuration surface offers for
// a hop, or 0 when unbounded.
func MaxAmount(declared int) int {
	if declared > 0 {
		return declared
	}
	return 0
}

// String describes the rule for summaries.
func (r Rule) String() string {
	switch r.Mode {
	case ModeFirst:
		return "first"
	case ModeLast:
		return "last"
	case ModeAdvanced:
		s := fmt.Sprintf("%d from offset %d", r.Amount, r.Offset)
		if r.Reverse {
			s += " (reverse)"
		}
		return s
	}
	return "all"
}
