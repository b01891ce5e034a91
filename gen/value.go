package gen

import (
	"fixturegen/generator"
	"fixturegen/generator/hints"
	"fixturegen/internal/fail"
	"fixturegen/random"
)

// ValueSpec always returns the same value. The engine does not modify it
// unless another policy is set.
type ValueSpec struct {
	value  any
	policy hints.AfterGenerate
}

func Value(v any) *ValueSpec {
	return &ValueSpec{value: v, policy: hints.DoNotModify}
}

// AfterGenerate overrides the policy applied to the value.
func (s *ValueSpec) AfterGenerate(a hints.AfterGenerate) *ValueSpec {
	s.policy = a

	return s
}

func (s *ValueSpec) Value() any { return s.value }

func (s *ValueSpec) Generate(*random.Random) (any, error) { return s.value, nil }

func (s *ValueSpec) Hints() hints.Hints { return hints.Of(s.policy) }

func (s *ValueSpec) Capabilities() generator.Capability { return generator.CapabilityNone }

// FuncSpec calls a function for every value. Without an explicit policy the
// settings default applies to what it returns.
type FuncSpec struct {
	fn     func(r *random.Random) any
	policy hints.AfterGenerate
}

func Func(fn func(r *random.Random) any) *FuncSpec {
	return &FuncSpec{fn: fn}
}

func (s *FuncSpec) AfterGenerate(a hints.AfterGenerate) *FuncSpec {
	s.policy = a

	return s
}

func (s *FuncSpec) Validate() error {
	if s.fn == nil {
		return fail.Usage("func spec requires a function")
	}

	return nil
}

func (s *FuncSpec) Generate(r *random.Random) (any, error) { return s.fn(r), nil }

func (s *FuncSpec) Hints() hints.Hints { return hints.Of(s.policy) }

func (s *FuncSpec) Capabilities() generator.Capability { return generator.CapabilityNone }
