package gen

import (
	"fixturegen/generator"
	"fixturegen/internal/fail"
	"fixturegen/settings"
)

type number interface {
	~int | ~int64 | ~uint64 | ~float64
}

// resolveRange combines configured bounds with setting defaults. A single
// configured bound that falls outside the default range moves the other one
// by the settings adjustment margin.
func resolveRange[T number](min, max *T, defMin, defMax T) (T, T) {
	switch {
	case min != nil && max != nil:
		return *min, *max
	case min != nil:
		hi := defMax
		if hi < *min {
			hi = settings.MarginAbove(*min)
		}

		return *min, hi
	case max != nil:
		lo := defMin
		if lo > *max {
			lo = settings.MarginBelow(*max)
		}

		return lo, *max
	default:
		return defMin, defMax
	}
}

func checkRange[T number](what string, min, max *T) error {
	if min != nil && max != nil && *min > *max {
		return fail.Usage("%s: min %v must not exceed max %v", what, *min, *max)
	}

	return nil
}

func checkNonNegative(what string, values ...*int) error {
	for _, v := range values {
		if v != nil && *v < 0 {
			return fail.Usage("%s must not be negative, got %d", what, *v)
		}
	}

	return nil
}

func settingsOf(ctx *generator.Context) *settings.Settings {
	if ctx == nil {
		return nil
	}

	return ctx.Settings
}

func ptr[T any](v T) *T { return &v }
