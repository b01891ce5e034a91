package gen

import (
	"math"
	"reflect"

	"fixturegen/generator"
	"fixturegen/generator/hints"
	"fixturegen/internal/common"
	"fixturegen/internal/fail"
	"fixturegen/primitive"
	"fixturegen/random"
	"fixturegen/settings"
)

// IntSpec generates int64 values; the engine converts them to the signed or
// unsigned kind of the node, so ranges are clamped to that kind first.
type IntSpec struct {
	min, max *int64

	kind   primitive.KindEnum
	lo, hi int64
	ready  bool
}

func Int() *IntSpec {
	return &IntSpec{}
}

// Range sets both bounds, inclusive.
func (s *IntSpec) Range(min, max int64) *IntSpec {
	s.min, s.max = ptr(min), ptr(max)

	return s
}

func (s *IntSpec) Min(v int64) *IntSpec {
	s.min = ptr(v)

	return s
}

func (s *IntSpec) Max(v int64) *IntSpec {
	s.max = ptr(v)

	return s
}

func (s *IntSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)
	s.lo, s.hi = resolveRange(s.min, s.max, settings.Get(st, settings.IntMin), settings.Get(st, settings.IntMax))
	s.clamp()
	s.ready = true
}

func (s *IntSpec) ForType(t reflect.Type) {
	if k := primitive.Underlying(t); k.IsInteger() {
		s.kind = k
		s.clamp()
	}
}

func (s *IntSpec) clamp() {
	switch {
	case s.kind.IsSigned():
		s.lo, s.hi = primitive.ClampInt(s.lo, s.hi, s.kind)
	case s.kind.IsUnsigned():
		s.lo = max(s.lo, 0)
		if bound := primitive.UintBounds(s.kind); bound < math.MaxInt64 {
			s.hi = min(s.hi, int64(bound))
		}
	}
}

func (s *IntSpec) Validate() error {
	return checkRange("int", s.min, s.max)
}

func (s *IntSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	return r.IntRange(s.lo, s.hi), nil
}

func (s *IntSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *IntSpec) Capabilities() generator.Capability { return generator.CapabilityNumeric }

func (s *IntSpec) ApplyMin(v float64, exclusive bool) {
	n := math.Ceil(v)
	if exclusive && n == v {
		n++
	}

	s.Min(floatToInt(n))
}

func (s *IntSpec) ApplyMax(v float64, exclusive bool) {
	n := math.Floor(v)
	if exclusive && n == v {
		n--
	}

	s.Max(floatToInt(n))
}

func floatToInt(f float64) int64 {
	switch {
	case f <= math.MinInt64:
		return math.MinInt64
	case f >= math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(f)
	}
}

// UintSpec generates uint64 values.
type UintSpec struct {
	min, max *uint64

	kind   primitive.KindEnum
	lo, hi uint64
	ready  bool
}

func Uint() *UintSpec {
	return &UintSpec{}
}

func (s *UintSpec) Range(min, max uint64) *UintSpec {
	s.min, s.max = ptr(min), ptr(max)

	return s
}

func (s *UintSpec) Min(v uint64) *UintSpec {
	s.min = ptr(v)

	return s
}

func (s *UintSpec) Max(v uint64) *UintSpec {
	s.max = ptr(v)

	return s
}

func (s *UintSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)
	s.lo, s.hi = resolveRange(s.min, s.max, settings.Get(st, settings.UintMin), settings.Get(st, settings.UintMax))
	s.clamp()
	s.ready = true
}

func (s *UintSpec) ForType(t reflect.Type) {
	if k := primitive.Underlying(t); k.IsInteger() {
		s.kind = k
		s.clamp()
	}
}

func (s *UintSpec) clamp() {
	switch {
	case s.kind.IsUnsigned():
		s.lo, s.hi = primitive.ClampUint(s.lo, s.hi, s.kind)
	case s.kind.IsSigned():
		_, bound := primitive.IntBounds(s.kind)
		s.lo, s.hi = min(s.lo, uint64(bound)), min(s.hi, uint64(bound))
	}
}

func (s *UintSpec) Validate() error {
	return checkRange("uint", s.min, s.max)
}

func (s *UintSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	return r.UintRange(s.lo, s.hi), nil
}

func (s *UintSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *UintSpec) Capabilities() generator.Capability { return generator.CapabilityNumeric }

func (s *UintSpec) ApplyMin(v float64, exclusive bool) {
	n := math.Ceil(max(v, 0))
	if exclusive && n == v {
		n++
	}

	s.Min(floatToUint(n))
}

func (s *UintSpec) ApplyMax(v float64, exclusive bool) {
	n := math.Floor(max(v, 0))
	if exclusive && n == v && n > 0 {
		n--
	}

	s.Max(floatToUint(n))
}

func floatToUint(f float64) uint64 {
	if f >= math.MaxUint64 {
		return math.MaxUint64
	}

	return uint64(f)
}

// FloatSpec generates float64 values in [min, max).
type FloatSpec struct {
	min, max *float64

	lo, hi float64
	limit  float64
	ready  bool
}

func Float() *FloatSpec {
	return &FloatSpec{}
}

func (s *FloatSpec) Range(min, max float64) *FloatSpec {
	s.min, s.max = ptr(min), ptr(max)

	return s
}

func (s *FloatSpec) Min(v float64) *FloatSpec {
	s.min = ptr(v)

	return s
}

func (s *FloatSpec) Max(v float64) *FloatSpec {
	s.max = ptr(v)

	return s
}

func (s *FloatSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)
	s.lo, s.hi = resolveRange(s.min, s.max, settings.Get(st, settings.FloatMin), settings.Get(st, settings.FloatMax))
	s.clamp()
	s.ready = true
}

func (s *FloatSpec) ForType(t reflect.Type) {
	if k := primitive.Underlying(t); k.IsFloat() {
		s.limit = primitive.FloatBounds(k)
		s.clamp()
	}
}

func (s *FloatSpec) clamp() {
	if s.limit > 0 {
		s.lo, s.hi = clamp(s.lo, -s.limit, s.limit), clamp(s.hi, -s.limit, s.limit)
	}
}

func (s *FloatSpec) Validate() error {
	return checkRange("float", s.min, s.max)
}

func (s *FloatSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	return r.FloatRange(s.lo, s.hi), nil
}

func (s *FloatSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *FloatSpec) Capabilities() generator.Capability { return generator.CapabilityNumeric }

func (s *FloatSpec) ApplyMin(v float64, exclusive bool) {
	if exclusive {
		v = math.Nextafter(v, math.Inf(1))
	}

	s.Min(v)
}

func (s *FloatSpec) ApplyMax(v float64, exclusive bool) {
	if exclusive {
		v = math.Nextafter(v, math.Inf(-1))
	}

	s.Max(v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// BoolSpec generates true with the configured probability.
type BoolSpec struct {
	probability float64
}

func Bool() *BoolSpec {
	return &BoolSpec{probability: 0.5}
}

// Probability sets the chance of true, in [0, 1].
func (s *BoolSpec) Probability(p float64) *BoolSpec {
	s.probability = p

	return s
}

func (s *BoolSpec) Validate() error {
	if !common.InRange(0, s.probability, 1) {
		return fail.Usage("bool probability must be within [0, 1], got %g", s.probability)
	}

	return nil
}

func (s *BoolSpec) Generate(r *random.Random) (any, error) {
	return r.Chance(s.probability), nil
}

func (s *BoolSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *BoolSpec) Capabilities() generator.Capability { return generator.CapabilityNone }
