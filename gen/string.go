package gen

import (
	"strings"

	"fixturegen/generator"
	"fixturegen/generator/hints"
	"fixturegen/random"
	"fixturegen/settings"
)

// StringSpec generates strings of upper-case letters unless another
// character set is selected.
type StringSpec struct {
	minLength, maxLength *int
	allowEmpty           *bool

	prefix, suffix string
	charset        string
	upper, lower   bool

	lo, hi int
	empty  bool
	ready  bool
}

func String() *StringSpec {
	return &StringSpec{}
}

// Length fixes the length of the random part.
func (s *StringSpec) Length(n int) *StringSpec {
	s.minLength, s.maxLength = ptr(n), ptr(n)

	return s
}

func (s *StringSpec) MinLength(n int) *StringSpec {
	s.minLength = ptr(n)

	return s
}

func (s *StringSpec) MaxLength(n int) *StringSpec {
	s.maxLength = ptr(n)

	return s
}

// Prefix is prepended to the random part and does not count towards its length.
func (s *StringSpec) Prefix(p string) *StringSpec {
	s.prefix = p

	return s
}

// Suffix is appended to the random part and does not count towards its length.
func (s *StringSpec) Suffix(p string) *StringSpec {
	s.suffix = p

	return s
}

func (s *StringSpec) Alpha() *StringSpec        { return s.Charset(random.Alpha) }
func (s *StringSpec) Numeric() *StringSpec      { return s.Charset(random.Digits) }
func (s *StringSpec) AlphaNumeric() *StringSpec { return s.Charset(random.AlphaNumeric) }
func (s *StringSpec) Hex() *StringSpec          { return s.Charset(random.Hex) }

// Charset selects the characters the random part is drawn from.
func (s *StringSpec) Charset(charset string) *StringSpec {
	s.charset = charset

	return s
}

func (s *StringSpec) LowerCase() *StringSpec {
	s.lower, s.upper = true, false

	return s
}

func (s *StringSpec) UpperCase() *StringSpec {
	s.upper, s.lower = true, false

	return s
}

// AllowEmpty lets the generator return an empty string now and then.
func (s *StringSpec) AllowEmpty() *StringSpec {
	s.allowEmpty = ptr(true)

	return s
}

func (s *StringSpec) Init(ctx *generator.Context) {
	st := settingsOf(ctx)

	s.lo, s.hi = resolveRange(s.minLength, s.maxLength,
		settings.Get(st, settings.StringMinLength), settings.Get(st, settings.StringMaxLength))
	s.lo = max(s.lo, 0)

	s.empty = settings.Get(st, settings.StringAllowEmpty)
	if s.allowEmpty != nil {
		s.empty = *s.allowEmpty
	}

	s.ready = true
}

func (s *StringSpec) Validate() error {
	if err := checkNonNegative("string length", s.minLength, s.maxLength); err != nil {
		return err
	}

	return checkRange("string length", s.minLength, s.maxLength)
}

func (s *StringSpec) Generate(r *random.Random) (any, error) {
	if !s.ready {
		s.Init(nil)
	}

	if s.empty && r.DiceRoll() {
		return "", nil
	}

	charset := s.charset
	if charset == "" {
		charset = random.Upper
	}

	body := r.String(int(r.IntRange(int64(s.lo), int64(s.hi))), charset)

	switch {
	case s.upper:
		body = strings.ToUpper(body)
	case s.lower:
		body = strings.ToLower(body)
	}

	return s.prefix + body + s.suffix, nil
}

func (s *StringSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *StringSpec) Capabilities() generator.Capability {
	return generator.CapabilityLength | generator.CapabilityText
}

func (s *StringSpec) ApplyMinLength(n int) { s.MinLength(n) }
func (s *StringSpec) ApplyMaxLength(n int) { s.MaxLength(n) }

func (s *StringSpec) ApplyCharset(charset string) { s.Charset(charset) }
func (s *StringSpec) ApplyUpperCase()             { s.UpperCase() }
func (s *StringSpec) ApplyLowerCase()             { s.LowerCase() }
