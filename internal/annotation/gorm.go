package annotation

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"fixturegen/generator"
	"fixturegen/internal/common"
)

// Gorm reads column constraints from `gorm` tags.
type Gorm struct{}

func (Gorm) Key() string { return "gorm" }

func (Gorm) IsPrimary(Directive) bool { return false }

func (g Gorm) Consume(tags *TagMap, spec generator.Spec, _ reflect.Type, _ *generator.Context) generator.Spec {
	if spec == nil {
		return nil
	}

	for _, d := range tags.ByKey(g.Key()) {
		switch d.Name {
		case "size":
			n, err := strconv.Atoi(d.Value)
			if err != nil {
				tags.Invalid(d, err)

				continue
			}

			applyLength(spec, nil, &n)

		case "type":
			if err := applyColumnType(spec, d.Value); err != nil {
				tags.Invalid(d, err)
			}

		case "precision":
			p, err := strconv.Atoi(d.Value)
			if err != nil {
				tags.Invalid(d, err)

				continue
			}

			scale := 0
			if s, ok := tags.Get(g.Key(), "scale"); ok {
				scale, _ = strconv.Atoi(s.Value)
			}

			applyPrecision(spec, p, scale)
		}
	}

	return spec
}

// applyColumnType understands varchar(n), char(n) and decimal(p,s) columns.
func applyColumnType(spec generator.Spec, column string) error {
	name, args, ok := strings.Cut(strings.ToLower(column), "(")
	if !ok {
		return nil
	}

	args, ok = strings.CutSuffix(args, ")")
	if !ok {
		return fmt.Errorf("malformed column type %q", column)
	}

	parts := strings.Split(args, ",")
	nums := make([]int, len(parts))

	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("column type %q: %w", column, err)
		}

		nums[i] = n
	}

	switch strings.TrimSpace(name) {
	case "varchar", "nvarchar":
		applyLength(spec, nil, &nums[0])
	case "char", "nchar":
		applyLength(spec, &nums[0], &nums[0])
	case "decimal", "numeric":
		precision, scale := common.Pair(nums)
		applyPrecision(spec, precision, scale)
	}

	return nil
}

func applyLength(spec generator.Spec, lo, hi *int) {
	b, ok := spec.(generator.LengthBounded)
	if !ok || !generator.Supports(spec, generator.CapabilityLength) {
		return
	}

	if lo != nil {
		b.ApplyMinLength(*lo)
	}

	if hi != nil {
		b.ApplyMaxLength(*hi)
	}
}

// applyPrecision keeps values below 10^(precision-scale).
func applyPrecision(spec generator.Spec, precision, scale int) {
	b, ok := spec.(generator.NumericBounded)
	if !ok || !generator.Supports(spec, generator.CapabilityNumeric) || precision <= scale {
		return
	}

	b.ApplyMax(math.Pow10(precision-scale), true)
}
