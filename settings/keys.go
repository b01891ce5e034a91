package settings

import (
	"reflect"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"fixturegen/generator/hints"
)

// AdjustPercentage is the margin applied to the opposite bound of a min/max
// pair when a new value would invert the range.
const AdjustPercentage = 50

// Key is a typed setting with a default value.
type Key[T any] struct {
	name string
	def  T
}

// Name returns the dotted property name of the key.
func (k Key[T]) Name() string { return k.name }

// Default returns the value used when the key is not set.
func (k Key[T]) Default() T { return k.def }

// With pairs the key with a value for Settings.Apply.
func (k Key[T]) With(v T) Entry { return Entry{name: k.name, value: v} }

func (k Key[T]) String() string { return k.name }

// Entry is a key name with a value.
type Entry struct {
	name  string
	value any
}

func (e Entry) Name() string { return e.name }

func (e Entry) Value() any { return e.value }

type definition struct {
	name   string
	typ    reflect.Type
	def    any
	decode func(n *yaml.Node) (any, error)

	// range pairs only
	pair   string
	isMin  bool
	less   func(a, b any) bool
	adjust func(v any, isMin bool) any
	nonNeg bool
}

var definitions = map[string]*definition{}

func register[T any](name string, def T) (Key[T], *definition) {
	d := &definition{
		name: name,
		typ:  reflect.TypeOf(&def).Elem(),
		def:  def,
		decode: func(n *yaml.Node) (any, error) {
			var v T
			if err := n.Decode(&v); err != nil {
				return nil, err
			}

			return v, nil
		},
	}

	definitions[name] = d

	return Key[T]{name: name, def: def}, d
}

func newKey[T any](name string, def T) Key[T] {
	k, _ := register(name, def)

	return k
}

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func rangeKeys[T number](minName, maxName string, minDef, maxDef T, nonNeg bool) (Key[T], Key[T]) {
	minKey, minDefinition := register(minName, minDef)
	maxKey, maxDefinition := register(maxName, maxDef)

	less := func(a, b any) bool { return a.(T) < b.(T) }
	adjust := func(v any, isMin bool) any {
		x := v.(T)
		if isMin {
			return MarginAbove(x)
		}

		r := MarginBelow(x)
		if nonNeg && r < 0 {
			r = 0
		}

		return r
	}

	minDefinition.pair, minDefinition.isMin = maxName, true
	maxDefinition.pair = minName

	for _, d := range []*definition{minDefinition, maxDefinition} {
		d.less, d.adjust, d.nonNeg = less, adjust, nonNeg
	}

	return minKey, maxKey
}

// MarginAbove returns v increased by AdjustPercentage of its magnitude
// (at least one), saturating instead of overflowing.
func MarginAbove[T number](v T) T {
	r := v + margin(v)
	if r < v {
		return v
	}

	return r
}

// MarginBelow returns v decreased by AdjustPercentage of its magnitude
// (at least one), saturating instead of overflowing.
func MarginBelow[T number](v T) T {
	r := v - margin(v)
	if r > v {
		return v
	}

	return r
}

func margin[T number](v T) T {
	abs := v
	if abs < 0 {
		abs = -abs
	}

	m := T(float64(abs) * AdjustPercentage / 100)
	if m < 1 {
		m = 1
	}

	return m
}

// KeyNames returns every registered key name in sorted order.
func KeyNames() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Engine behaviour.
var (
	MaxDepth                = newKey("max.depth", 8)
	FailOnError             = newKey("fail.on.error", false)
	FailOnMaxDepthReached   = newKey("fail.on.max.depth.reached", false)
	Mode                    = newKey("mode", ModeStrict)
	AssignmentType          = newKey("assignment.type", AssignmentField)
	SetterUnmatched         = newKey("setter.unmatched", SetterIgnore)
	FieldsUnexported        = newKey("fields.unexported", false)
	OverwriteExistingValues = newKey("overwrite.existing.values", true)
	AfterGenerateHint       = newKey("hint.after.generate", hints.PopulateNilsAndDefaultPrimitives)
	MaxGenerationAttempts   = newKey("max.generation.attempts", 1000)
	Seed                    = newKey("seed", uint64(0))
	Verbose                 = newKey("verbose", false)

	// SetBackReferences points cyclic pointers at the nearest enclosing
	// instance of the same type instead of leaving them nil.
	SetBackReferences = newKey("set.back.references", false)
)

// Struct tag consumers.
var (
	TagsValidateEnabled = newKey("tags.validate.enabled", true)
	TagsGormEnabled     = newKey("tags.gorm.enabled", true)
)

// Strings.
var (
	StringMinLength, StringMaxLength = rangeKeys("string.min.length", "string.max.length", 3, 10, true)

	StringAllowEmpty         = newKey("string.allow.empty", false)
	StringFieldPrefixEnabled = newKey("string.field.prefix.enabled", false)
)

// Numbers.
var (
	IntMin, IntMax     = rangeKeys("int.min", "int.max", int64(1), int64(10_000), false)
	UintMin, UintMax   = rangeKeys("uint.min", "uint.max", uint64(1), uint64(10_000), true)
	FloatMin, FloatMax = rangeKeys("float.min", "float.max", 1.0, 10_000.0, false)
)

// Time.
var (
	DurationMin, DurationMax = rangeKeys("duration.min", "duration.max", time.Second, 24*time.Hour, true)

	TimeMin       = newKey("time.min", time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))
	TimeMax       = newKey("time.max", time.Date(2050, time.January, 1, 0, 0, 0, 0, time.UTC))
	TimeReference = newKey("time.reference", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
)

// Containers and nullability.
var (
	CollectionMinSize, CollectionMaxSize = rangeKeys("collection.min.size", "collection.max.size", 2, 6, true)
	MapMinSize, MapMaxSize               = rangeKeys("map.min.size", "map.max.size", 2, 6, true)

	CollectionNullable         = newKey("collection.nullable", false)
	CollectionElementsNullable = newKey("collection.elements.nullable", false)
	MapNullable                = newKey("map.nullable", false)
	MapKeysNullable            = newKey("map.keys.nullable", false)
	MapValuesNullable          = newKey("map.values.nullable", false)
	PointerNullable            = newKey("pointer.nullable", false)
	InterfaceNullable          = newKey("interface.nullable", false)
)
