// Package settings is the typed key/value store every generation bound is read from.
package settings

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"fixturegen/internal/match"
	"fixturegen/primitive"
)

var (
	ErrLocked     = errors.New("settings are locked")
	ErrUnknownKey = errors.New("unknown setting")
	ErrInvalid    = errors.New("invalid setting value")
)

// Settings holds explicitly set values; every other key reads its default.
// The zero value is not usable, call New.
type Settings struct {
	values   map[string]any
	order    []string
	subtypes map[reflect.Type]reflect.Type
	locked   bool
}

// New returns empty settings, equivalent to all defaults.
func New() *Settings {
	return &Settings{
		values:   make(map[string]any),
		subtypes: make(map[reflect.Type]reflect.Type),
	}
}

// Get returns the value of k in s, or its default. A nil s yields defaults.
func Get[T any](s *Settings, k Key[T]) T {
	if s != nil {
		if v, ok := s.values[k.name]; ok {
			return v.(T)
		}
	}

	return k.def
}

// Set assigns v to k, adjusting the opposite bound of a min/max pair.
func Set[T any](s *Settings, k Key[T], v T) error {
	return s.Apply(k.With(v))
}

// Apply sets entries in order.
func (s *Settings) Apply(entries ...Entry) error {
	for _, e := range entries {
		if err := s.SetValue(e.name, e.value); err != nil {
			return err
		}
	}

	return nil
}

// SetValue assigns a value by key name. Values of a different type are
// converted when the conversion is lossless.
func (s *Settings) SetValue(name string, value any) error {
	if s.locked {
		return fmt.Errorf("%w: cannot set %q", ErrLocked, name)
	}

	def, ok := definitions[name]
	if !ok {
		return unknownKey(name)
	}

	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return fmt.Errorf("%w: %s must not be nil", ErrInvalid, name)
	}

	if v.Type() != def.typ {
		converted, err := primitive.Convert(v, def.typ, primitive.CategoryExplicit|primitive.CategoryTextual)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
		}

		v = converted.Convert(def.typ)
	}

	value = v.Interface()

	if def.nonNeg && def.less != nil && def.less(value, reflect.Zero(def.typ).Interface()) {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalid, name, value)
	}

	s.put(name, value)

	if def.pair == "" {
		return nil
	}

	other := s.value(def.pair)

	if def.isMin && def.less(other, value) {
		s.put(def.pair, def.adjust(value, true))
	} else if !def.isMin && def.less(value, other) {
		s.put(def.pair, def.adjust(value, false))
	}

	return nil
}

func (s *Settings) put(name string, value any) {
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}

	s.values[name] = value
}

func (s *Settings) value(name string) any {
	if v, ok := s.values[name]; ok {
		return v
	}

	return definitions[name].def
}

// Value returns the effective value of a key by name.
func (s *Settings) Value(name string) (any, error) {
	if _, ok := definitions[name]; !ok {
		return nil, unknownKey(name)
	}

	return s.value(name), nil
}

// IsSet reports whether the key was explicitly assigned.
func (s *Settings) IsSet(name string) bool {
	_, ok := s.values[name]

	return ok
}

// MapType registers to as the concrete type generated wherever from is declared.
func (s *Settings) MapType(from, to reflect.Type) error {
	if s.locked {
		return fmt.Errorf("%w: cannot map %s", ErrLocked, from)
	}

	if from == nil || to == nil {
		return fmt.Errorf("%w: type mapping requires both types", ErrInvalid)
	}

	if !to.AssignableTo(from) {
		return fmt.Errorf("%w: %s is not assignable to %s", ErrInvalid, to, from)
	}

	s.subtypes[from] = to

	return nil
}

// Subtype returns the mapped type registered for from.
func (s *Settings) Subtype(from reflect.Type) (reflect.Type, bool) {
	if s == nil {
		return nil, false
	}

	to, ok := s.subtypes[from]

	return to, ok
}

// Merge copies every explicit value and type mapping of other into s, in the
// order they were set on other.
func (s *Settings) Merge(other *Settings) error {
	if other == nil {
		return nil
	}

	if s.locked {
		return fmt.Errorf("%w: cannot merge", ErrLocked)
	}

	for _, name := range other.order {
		s.put(name, other.values[name])
	}

	for from, to := range other.subtypes {
		s.subtypes[from] = to
	}

	return nil
}

// Lock makes s read-only and returns it.
func (s *Settings) Lock() *Settings {
	s.locked = true

	return s
}

func (s *Settings) IsLocked() bool {
	return s.locked
}

// Clone returns an unlocked copy of s.
func (s *Settings) Clone() *Settings {
	c := New()
	_ = c.Merge(s)

	return c
}

// Entries returns the effective value of every key, sorted by name.
func (s *Settings) Entries() []Entry {
	names := KeyNames()
	out := make([]Entry, 0, len(names))

	for _, name := range names {
		out = append(out, Entry{name: name, value: s.value(name)})
	}

	return out
}

// Subtypes returns the registered type mappings sorted by source type name.
func (s *Settings) Subtypes() [][2]reflect.Type {
	out := make([][2]reflect.Type, 0, len(s.subtypes))
	for from, to := range s.subtypes {
		out = append(out, [2]reflect.Type{from, to})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i][0].String() < out[j][0].String()
	})

	return out
}

func unknownKey(name string) error {
	if suggestion := suggest(name); suggestion != "" {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownKey, name, suggestion)
	}

	return fmt.Errorf("%w %q", ErrUnknownKey, name)
}

func suggest(name string) string {
	suggestion, _ := match.Suggest(name, KeyNames())

	return suggestion
}
