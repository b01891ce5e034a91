package primitive

import "math"

// IntBounds returns the representable range of a signed integer kind.
func IntBounds(k KindEnum) (min, max int64) {
	bits := k.Bits()
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}

	return -1 << (bits - 1), 1<<(bits-1) - 1
}

// UintBounds returns the upper bound of an unsigned integer kind.
func UintBounds(k KindEnum) uint64 {
	bits := k.Bits()
	if bits >= 64 {
		return math.MaxUint64
	}

	return 1<<bits - 1
}

// FloatBounds returns the largest finite magnitude of a float kind.
func FloatBounds(k KindEnum) float64 {
	if k == KindFloat32 {
		return math.MaxFloat32
	}

	return math.MaxFloat64
}

// FitsInt reports whether n is representable by the integer kind k.
func FitsInt(n int64, k KindEnum) bool {
	if k.IsUnsigned() {
		return n >= 0 && FitsUint(uint64(n), k)
	}

	min, max := IntBounds(k)

	return min <= n && n <= max
}

// FitsUint reports whether n is representable by the integer kind k.
func FitsUint(n uint64, k KindEnum) bool {
	if k.IsSigned() {
		_, max := IntBounds(k)

		return n <= uint64(max)
	}

	return n <= UintBounds(k)
}

// ClampInt narrows [lo, hi] to the range of the signed kind k.
func ClampInt(lo, hi int64, k KindEnum) (int64, int64) {
	min, max := IntBounds(k)

	return clamp(lo, min, max), clamp(hi, min, max)
}

// ClampUint narrows [lo, hi] to the range of the unsigned kind k.
func ClampUint(lo, hi uint64, k KindEnum) (uint64, uint64) {
	max := UintBounds(k)

	return clamp(lo, 0, max), clamp(hi, 0, max)
}

func clamp[T int64 | uint64 | float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
