package common

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// InRange reports whether lo <= v <= hi. NaN is never in range.
func InRange[T number](lo, v, hi T) bool {
	return lo <= v && v <= hi
}

// Pair returns the first two elements of s, zero-filled when s is shorter.
func Pair[S ~[]T, T any](s S) (first, second T) {
	switch len(s) {
	case 0:
	case 1:
		first = s[0]
	default:
		first, second = s[0], s[1]
	}

	return first, second
}
