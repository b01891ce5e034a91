package gen

import (
	"reflect"

	"github.com/google/uuid"

	"fixturegen/generator"
	"fixturegen/generator/hints"
	"fixturegen/internal/fail"
	"fixturegen/random"
)

// OneOfSpec picks one of a fixed set of values.
type OneOfSpec struct {
	values []any
}

func OneOf(values ...any) *OneOfSpec {
	return &OneOfSpec{values: values}
}

func (s *OneOfSpec) Values() []any { return s.values }

func (s *OneOfSpec) Validate() error {
	if len(s.values) == 0 {
		return fail.Usage("one of requires at least one value")
	}

	return nil
}

func (s *OneOfSpec) Generate(r *random.Random) (any, error) {
	return random.OneOf(r, s.values), nil
}

func (s *OneOfSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *OneOfSpec) Capabilities() generator.Capability { return generator.CapabilityNone }

var topLevelDomains = []string{"com", "org", "net", "io"}

// EmailSpec generates lower-case addresses such as "kqzme@xoplr.org".
type EmailSpec struct{}

func Email() *EmailSpec {
	return &EmailSpec{}
}

func (s *EmailSpec) Generate(r *random.Random) (any, error) {
	local := r.LowerCase(int(r.IntRange(4, 10)))
	domain := r.LowerCase(int(r.IntRange(3, 8)))

	return local + "@" + domain + "." + random.OneOf(r, topLevelDomains), nil
}

func (s *EmailSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *EmailSpec) Capabilities() generator.Capability { return generator.CapabilityNone }

// URLSpec generates https URLs under example domains.
type URLSpec struct{}

func URL() *URLSpec {
	return &URLSpec{}
}

func (s *URLSpec) Generate(r *random.Random) (any, error) {
	host := r.LowerCase(int(r.IntRange(4, 10)))
	path := r.LowerCase(int(r.IntRange(3, 8)))

	return "https://" + host + ".example.com/" + path, nil
}

func (s *URLSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *URLSpec) Capabilities() generator.Capability { return generator.CapabilityNone }

// UUIDSpec generates version 4 UUIDs drawn from the creation call's random
// source. String nodes receive the canonical textual form.
type UUIDSpec struct {
	text bool
}

func UUID() *UUIDSpec {
	return &UUIDSpec{}
}

func (s *UUIDSpec) ForType(t reflect.Type) {
	s.text = t.Kind() == reflect.String
}

func (s *UUIDSpec) Generate(r *random.Random) (any, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return nil, err
	}

	if s.text {
		return id.String(), nil
	}

	return id, nil
}

func (s *UUIDSpec) Hints() hints.Hints { return hints.Hints{} }

func (s *UUIDSpec) Capabilities() generator.Capability { return generator.CapabilityNone }
