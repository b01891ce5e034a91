// Package assign models conditional value assignments and analyses the
// dependencies between them.
package assign

import (
	"strings"

	"fixturegen/generator"
	"fixturegen/internal/fail"
	"fixturegen/internal/selector"
	"fixturegen/random"
)

// ActionKind is what an action does with its destination.
type ActionKind int

const (
	// ActionSet stores a literal value.
	ActionSet ActionKind = iota
	// ActionGenerate generates the destination with a generator.
	ActionGenerate
	// ActionSupply stores the result of a function.
	ActionSupply
	// ActionCopy stores the origin value, optionally transformed.
	ActionCopy
)

var actionNames = [...]string{
	ActionSet:      "set",
	ActionGenerate: "generate",
	ActionSupply:   "supply",
	ActionCopy:     "copy",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return "unknown"
	}

	return actionNames[k]
}

// Action writes one destination when its rule applies.
type Action struct {
	Kind   ActionKind
	Dest   selector.TargetSelector
	Value  any
	Spec   generator.Generator
	Supply func(r *random.Random) any
	// Map transforms the origin value of a copy action; nil copies it as is.
	Map func(v any) any
}

func (a Action) String() string {
	return a.Kind.String() + "(" + a.Dest.String() + ")"
}

// Condition decides whether a rule applies, given the origin values in the
// order the origins were declared.
type Condition func(values []any) bool

// Rule is one assignment: when the values of Origins satisfy Condition, every
// action applies. A rule without origins applies unconditionally.
type Rule struct {
	Origins   []selector.TargetSelector
	Condition Condition
	Actions   []Action
	// Site is where the rule was declared.
	Site string
}

// IsUnconditional reports whether the rule applies without origin values.
func (r *Rule) IsUnconditional() bool { return len(r.Origins) == 0 }

// Holds evaluates the condition. A nil condition always holds. A condition
// that panics, such as one asserting the wrong origin type, is a usage error.
func (r *Rule) Holds(values []any) (holds bool, err error) {
	if r.Condition == nil {
		return true, nil
	}

	defer func() {
		if p := recover(); p != nil {
			err = r.usage("assignment condition panicked: %v", p)
		}
	}()

	return r.Condition(values), nil
}

// Validate reports rules that can never be applied.
func (r *Rule) Validate() error {
	if len(r.Actions) == 0 {
		return r.usage("assignment has no destination")
	}

	for _, a := range r.Actions {
		if a.Dest == nil {
			return r.usage("assignment destination must not be nil")
		}

		switch a.Kind {
		case ActionGenerate:
			if a.Spec == nil {
				return r.usage("generate %s: generator must not be nil", a.Dest)
			}
		case ActionSupply:
			if a.Supply == nil {
				return r.usage("supply %s: function must not be nil", a.Dest)
			}
		case ActionCopy:
			if len(r.Origins) != 1 {
				return r.usage("copy to %s requires exactly one origin", a.Dest)
			}
		}
	}

	for _, o := range r.Origins {
		if o == nil {
			return r.usage("assignment origin must not be nil")
		}
	}

	return nil
}

func (r *Rule) usage(format string, args ...any) error {
	err := fail.Usage(format, args...)
	if r.Site != "" {
		err = err.At(r.Site)
	}

	return err
}

func (r *Rule) String() string {
	origins := make([]string, len(r.Origins))
	for i, o := range r.Origins {
		origins[i] = o.String()
	}

	actions := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		actions[i] = a.String()
	}

	head := "valueOf"
	if len(origins) > 0 {
		head = "given(" + strings.Join(origins, ", ") + ")"
	}

	return head + "." + strings.Join(actions, ".")
}
