package gen

import (
	"math"
	"time"

	"fixturegen/generator"
	"fixturegen/generator/hints"
	"fixturegen/internal/fail"
	"fixturegen/random"
	"fixturegen/settings"
)

// TimeSpec generates UTC instants with second precision. Past and Future are
// relative to settings.TimeReference so results stay reproducible.
type TimeSpec struct {
	min, max     *time.Time
	past, future bool

	lo, hi time.Time
	ready  bool
}

func Time() *TimeSpec {
	return &TimeSpec{}
}

// Range sets both bounds, inclusive.
func (s *TimeSpec) Range(min, max time.Time) *TimeSpec {
	s.min, s.max = ptr(min), ptr(max)

	return s
}

func (s *TimeSpec) After(t time.Time) *TimeSpec {
	s.min = ptr(t)

	return s
}

func (s *TimeSpec) Before(t time.Time) *TimeSpec {
	s.max = ptr(t)

	return s
}

// Past limits values to before the reference time.
func (s *TimeSpec) Past() *TimeSpec {
	s.past = true

	return s
}

// Future limits values to after the reference time.
func (s *TimeSpec) Future() *TimeSpec {
	s.future = true

	return s
}

func (s *TimeSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)
	ref := settings.Get(st, settings.TimeReference)

	s.lo, s.hi = settings.Get(st, settings.TimeMin), settings.Get(st, settings.TimeMax)

	switch {
	case s.past:
		s.hi = ref.Add(-time.Second)
		if !s.lo.Before(s.hi) {
			s.lo = s.hi.AddDate(-1, 0, 0)
		}
	case s.future:
		s.lo = ref.Add(time.Second)
		if !s.hi.After(s.lo) {
			s.hi = s.lo.AddDate(1, 0, 0)
		}
	}

	if s.min != nil {
		s.lo = *s.min
	}

	if s.max != nil {
		s.hi = *s.max
	}

	s.ready = true
}

func (s *TimeSpec) Validate() error {
	if s.past && s.future {
		return fail.Usage("time cannot be both past and future")
	}

	if s.min != nil && s.max != nil && s.min.After(*s.max) {
		return fail.Usage("time: min %s must not be after max %s", s.min.Format(time.RFC3339), s.max.Format(time.RFC3339))
	}

	return nil
}

func (s *TimeSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	return time.Unix(r.IntRange(s.lo.Unix(), s.hi.Unix()), 0).UTC(), nil
}

func (s *TimeSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *TimeSpec) Capabilities() generator.Capability { return generator.CapabilityTemporal }

func (s *TimeSpec) ApplyPast()              { s.Past() }
func (s *TimeSpec) ApplyFuture()            { s.Future() }
func (s *TimeSpec) ApplyAfter(t time.Time)  { s.After(t) }
func (s *TimeSpec) ApplyBefore(t time.Time) { s.Before(t) }

// DurationSpec generates durations. As a numeric spec its bounds are
// expressed in nanoseconds.
type DurationSpec struct {
	min, max *time.Duration

	lo, hi time.Duration
	ready  bool
}

func Duration() *DurationSpec {
	return &DurationSpec{}
}

func (s *DurationSpec) Range(min, max time.Duration) *DurationSpec {
	s.min, s.max = ptr(min), ptr(max)

	return s
}

func (s *DurationSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)

	lo, hi := resolveRange((*int64)(s.min), (*int64)(s.max),
		int64(settings.Get(st, settings.DurationMin)), int64(settings.Get(st, settings.DurationMax)))
	s.lo, s.hi = time.Duration(lo), time.Duration(hi)
	s.ready = true
}

func (s *DurationSpec) Validate() error {
	return checkRange("duration", (*int64)(s.min), (*int64)(s.max))
}

func (s *DurationSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	return time.Duration(r.IntRange(int64(s.lo), int64(s.hi))), nil
}

func (s *DurationSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *DurationSpec) Capabilities() generator.Capability { return generator.CapabilityNumeric }

func (s *DurationSpec) ApplyMin(v float64, exclusive bool) {
	n := math.Ceil(v)
	if exclusive && n == v {
		n++
	}

	s.min = ptr(time.Duration(floatToInt(n)))
}

func (s *DurationSpec) ApplyMax(v float64, exclusive bool) {
	n := math.Floor(v)
	if exclusive && n == v {
		n--
	}

	s.max = ptr(time.Duration(floatToInt(n)))
}
