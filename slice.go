package fixturegen

import (
	"fixturegen/gen"
	"fixturegen/internal/assign"
	"fixturegen/internal/selector"
)

// SliceBuilder creates slices of T. Every declaration of Builder applies to
// the slice root and its elements.
type SliceBuilder[T any] struct {
	*Builder[[]T]
}

// OfSlice returns a builder for []T.
func OfSlice[T any]() *SliceBuilder[T] {
	return &SliceBuilder[T]{Builder: Of[[]T]()}
}

// Size fixes the number of elements.
func (s *SliceBuilder[T]) Size(n int) *SliceBuilder[T] {
	if n < 0 {
		s.usage(selector.CallerSite(1), "OfSlice: size must not be negative, got %d", n)

		return s
	}

	s.override(assign.Action{
		Kind: assign.ActionGenerate,
		Dest: selector.Root().At(selector.CallerSite(1)),
		Spec: gen.Slice().Size(n),
	})

	return s
}
