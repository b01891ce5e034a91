package annotation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"fixturegen/gen"
	"fixturegen/generator"
	"fixturegen/primitive"
	"fixturegen/random"
)

var errMissingValue = errors.New("missing value")

// Validate reads `validate` tags in the go-playground/validator vocabulary.
type Validate struct{}

func (Validate) Key() string { return "validate" }

func (Validate) IsPrimary(d Directive) bool {
	switch d.Name {
	case "email", "uuid", "uuid4", "url", "oneof":
		return true
	default:
		return false
	}
}

func (v Validate) Consume(tags *TagMap, spec generator.Spec, target reflect.Type, _ *generator.Context) generator.Spec {
	if spec == nil {
		for _, d := range tags.ByKey(v.Key()) {
			if s := v.primary(tags, d, target); s != nil {
				return s
			}
		}

		return nil
	}

	for _, d := range tags.ByKey(v.Key()) {
		switch d.Name {
		case "min", "max", "len", "eq", "gt", "gte", "lt", "lte":
			applyBound(tags, d, spec)
		case "alpha":
			applyText(spec, func(t generator.TextConstrained) { t.ApplyCharset(random.Alpha) })
		case "alphanum":
			applyText(spec, func(t generator.TextConstrained) { t.ApplyCharset(random.AlphaNumeric) })
		case "numeric":
			applyText(spec, func(t generator.TextConstrained) { t.ApplyCharset(random.Digits) })
		case "hexadecimal":
			applyText(spec, func(t generator.TextConstrained) { t.ApplyCharset(random.Hex) })
		case "lowercase":
			applyText(spec, generator.TextConstrained.ApplyLowerCase)
		case "uppercase":
			applyText(spec, generator.TextConstrained.ApplyUpperCase)
		}
	}

	return spec
}

func (Validate) primary(tags *TagMap, d Directive, target reflect.Type) generator.Spec {
	text := target != nil && target.Kind() == reflect.String

	switch d.Name {
	case "email":
		if text {
			return gen.Email()
		}
	case "url":
		if text {
			return gen.URL()
		}
	case "uuid", "uuid4":
		if _, ok := gen.ForType(target).(*gen.UUIDSpec); ok || text {
			return gen.UUID()
		}
	case "oneof":
		return oneOf(tags, d, target)
	}

	return nil
}

// oneOf converts the space separated values of d to target. Values may be
// single quoted to contain spaces.
func oneOf(tags *TagMap, d Directive, target reflect.Type) generator.Spec {
	var values []any

	for _, raw := range splitQuoted(d.Value) {
		v, err := primitive.Convert(reflect.ValueOf(raw), target, primitive.CategoryTextual|primitive.CategoryExplicit)
		if err != nil {
			tags.Invalid(d, err)

			return nil
		}

		values = append(values, v.Interface())
	}

	if len(values) == 0 {
		tags.Invalid(d, errMissingValue)

		return nil
	}

	return gen.OneOf(values...)
}

func splitQuoted(s string) []string {
	var (
		out    []string
		quoted bool
		cur    strings.Builder
	)

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == ' ' && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}

	flush()

	return out
}

func applyBound(tags *TagMap, d Directive, spec generator.Spec) {
	if d.Value == "" {
		// gt and lt without a value compare instants with now
		if t, ok := spec.(generator.TemporalBounded); ok && generator.Supports(spec, generator.CapabilityTemporal) {
			switch d.Name {
			case "gt", "gte":
				t.ApplyFuture()
			case "lt", "lte":
				t.ApplyPast()
			}

			return
		}

		tags.Invalid(d, errMissingValue)

		return
	}

	v, err := strconv.ParseFloat(d.Value, 64)
	if err != nil {
		tags.Invalid(d, err)

		return
	}

	switch {
	case generator.Supports(spec, generator.CapabilityLength):
		b := spec.(generator.LengthBounded)
		applyCount(d.Name, int(v), b.ApplyMinLength, b.ApplyMaxLength)
	case generator.Supports(spec, generator.CapabilitySize):
		b := spec.(generator.SizeBounded)
		applyCount(d.Name, int(v), b.ApplyMinSize, b.ApplyMaxSize)
	case generator.Supports(spec, generator.CapabilityNumeric):
		applyNumeric(d.Name, v, spec.(generator.NumericBounded))
	}
}

func applyCount(name string, n int, setMin, setMax func(int)) {
	switch name {
	case "min", "gte":
		setMin(n)
	case "max", "lte":
		setMax(n)
	case "gt":
		setMin(n + 1)
	case "lt":
		setMax(n - 1)
	case "len", "eq":
		setMin(n)
		setMax(n)
	}
}

func applyNumeric(name string, v float64, b generator.NumericBounded) {
	switch name {
	case "min", "gte":
		b.ApplyMin(v, false)
	case "max", "lte":
		b.ApplyMax(v, false)
	case "gt":
		b.ApplyMin(v, true)
	case "lt":
		b.ApplyMax(v, true)
	case "len", "eq":
		b.ApplyMin(v, false)
		b.ApplyMax(v, false)
	}
}

func applyText(spec generator.Spec, fn func(generator.TextConstrained)) {
	if t, ok := spec.(generator.TextConstrained); ok && generator.Supports(spec, generator.CapabilityText) {
		fn(t)
	}
}
