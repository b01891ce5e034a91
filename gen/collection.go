package gen

import (
	"fixturegen/generator"
	"fixturegen/generator/hints"
	"fixturegen/random"
	"fixturegen/settings"
)

// SliceSpec leaves element generation to the engine and only decides how
// many elements to add. It applies to slices; arrays always fill every slot.
type SliceSpec struct {
	size             *int
	minSize, maxSize *int
	nullableElements *bool
	with             []any
	unique, shuffle  bool

	lo, hi int
	count  int
	ready  bool
}

func Slice() *SliceSpec {
	return &SliceSpec{}
}

// Size fixes the number of generated elements.
func (s *SliceSpec) Size(n int) *SliceSpec {
	s.size = ptr(n)

	return s
}

func (s *SliceSpec) MinSize(n int) *SliceSpec {
	s.minSize = ptr(n)

	return s
}

func (s *SliceSpec) MaxSize(n int) *SliceSpec {
	s.maxSize = ptr(n)

	return s
}

func (s *SliceSpec) NullableElements() *SliceSpec {
	s.nullableElements = ptr(true)

	return s
}

// With adds the given elements in addition to the generated ones.
func (s *SliceSpec) With(elements ...any) *SliceSpec {
	s.with = append(s.with, elements...)

	return s
}

// Unique rejects generated elements equal to one already present.
func (s *SliceSpec) Unique() *SliceSpec {
	s.unique = true

	return s
}

// Shuffle randomizes the final order, including With elements.
func (s *SliceSpec) Shuffle() *SliceSpec {
	s.shuffle = true

	return s
}

func (s *SliceSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)

	s.lo, s.hi = resolveRange(s.minSize, s.maxSize,
		settings.Get(st, settings.CollectionMinSize), settings.Get(st, settings.CollectionMaxSize))

	if s.size != nil {
		s.lo, s.hi = *s.size, *s.size
	}

	if s.nullableElements == nil {
		s.nullableElements = ptr(settings.Get(st, settings.CollectionElementsNullable))
	}

	s.ready = true
}

func (s *SliceSpec) Validate() error {
	if err := checkNonNegative("collection size", s.size, s.minSize, s.maxSize); err != nil {
		return err
	}

	return checkRange("collection size", s.minSize, s.maxSize)
}

// Generate decides the element count and returns nil: the engine builds the
// collection from Hints.
func (s *SliceSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	s.count = int(r.IntRange(int64(max(s.lo, 0)), int64(max(s.hi, 0))))

	return nil, nil
}

func (s *SliceSpec) Hints() hints.Hints {
	return hints.Hints{
		AfterGenerate: hints.PopulateAll,
		Collection: &hints.Collection{
			GenerateElements: s.count,
			NullableElements: s.nullableElements != nil && *s.nullableElements,
			WithElements:     s.with,
			Unique:           s.unique,
			Shuffle:          s.shuffle,
		},
	}
}

func (s *SliceSpec) Capabilities() generator.Capability { return generator.CapabilitySize }

func (s *SliceSpec) ApplyMinSize(n int) { s.MinSize(n) }
func (s *SliceSpec) ApplyMaxSize(n int) { s.MaxSize(n) }

// MapSpec decides how many entries the engine adds to a map.
type MapSpec struct {
	size                         *int
	minSize, maxSize             *int
	nullableKeys, nullableValues *bool
	withKeys                     []any
	entries                      []hints.Entry

	lo, hi int
	count  int
	ready  bool
}

func Map() *MapSpec {
	return &MapSpec{}
}

func (s *MapSpec) Size(n int) *MapSpec {
	s.size = ptr(n)

	return s
}

func (s *MapSpec) MinSize(n int) *MapSpec {
	s.minSize = ptr(n)

	return s
}

func (s *MapSpec) MaxSize(n int) *MapSpec {
	s.maxSize = ptr(n)

	return s
}

func (s *MapSpec) NullableKeys() *MapSpec {
	s.nullableKeys = ptr(true)

	return s
}

func (s *MapSpec) NullableValues() *MapSpec {
	s.nullableValues = ptr(true)

	return s
}

// WithKeys uses the given keys, in order, before random ones. Each key
// takes the place of one generated entry.
func (s *MapSpec) WithKeys(keys ...any) *MapSpec {
	s.withKeys = append(s.withKeys, keys...)

	return s
}

// WithEntry adds a fixed entry in addition to the generated ones.
func (s *MapSpec) WithEntry(key, value any) *MapSpec {
	s.entries = append(s.entries, hints.Entry{Key: key, Value: value})

	return s
}

func (s *MapSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)

	s.lo, s.hi = resolveRange(s.minSize, s.maxSize,
		settings.Get(st, settings.MapMinSize), settings.Get(st, settings.MapMaxSize))

	if s.size != nil {
		s.lo, s.hi = *s.size, *s.size
	}

	if s.nullableKeys == nil {
		s.nullableKeys = ptr(settings.Get(st, settings.MapKeysNullable))
	}

	if s.nullableValues == nil {
		s.nullableValues = ptr(settings.Get(st, settings.MapValuesNullable))
	}

	s.ready = true
}

func (s *MapSpec) Validate() error {
	if err := checkNonNegative("map size", s.size, s.minSize, s.maxSize); err != nil {
		return err
	}

	return checkRange("map size", s.minSize, s.maxSize)
}

func (s *MapSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	s.count = int(r.IntRange(int64(max(s.lo, 0)), int64(max(s.hi, 0))))

	return nil, nil
}

func (s *MapSpec) Hints() hints.Hints {
	return hints.Hints{
		AfterGenerate: hints.PopulateAll,
		Map: &hints.Map{
			GenerateEntries: s.count,
			NullableKeys:    s.nullableKeys != nil && *s.nullableKeys,
			NullableValues:  s.nullableValues != nil && *s.nullableValues,
			WithKeys:        s.withKeys,
			WithEntries:     s.entries,
		},
	}
}

func (s *MapSpec) Capabilities() generator.Capability { return generator.CapabilitySize }

func (s *MapSpec) ApplyMinSize(n int) { s.MinSize(n) }
func (s *MapSpec) ApplyMaxSize(n int) { s.MaxSize(n) }
