// Package random provides the seeded source of randomness shared by every
// generator taking part in a single creation call.
package random

import (
	"math"
	"math/rand/v2"
	"strings"
)

const (
	Upper        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lower        = "abcdefghijklmnopqrstuvwxyz"
	Digits       = "0123456789"
	Hex          = "0123456789abcdef"
	Alpha        = Upper + Lower
	AlphaNumeric = Alpha + Digits
)

// seedStream decorrelates the second PCG word from the seed.
const seedStream = 0x9e3779b97f4a7c15

// Random wraps a PCG generator. A Random is not safe for concurrent use.
type Random struct {
	seed uint64
	rng  *rand.Rand
}

// New returns a Random seeded with seed. Equal seeds yield equal sequences.
func New(seed uint64) *Random {
	return &Random{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^seedStream)),
	}
}

// NewSeed returns a fresh non-deterministic seed.
func NewSeed() uint64 {
	return rand.Uint64()
}

// Seed returns the seed the generator was created with.
func (r *Random) Seed() uint64 {
	return r.seed
}

// IntRange returns a value in [min, max]. Bounds are swapped when reversed.
func (r *Random) IntRange(min, max int64) int64 {
	if min > max {
		min, max = max, min
	}

	span := uint64(max) - uint64(min) + 1
	if span == 0 {
		return int64(r.rng.Uint64())
	}

	return min + int64(r.rng.Uint64N(span))
}

// UintRange returns a value in [min, max]. Bounds are swapped when reversed.
func (r *Random) UintRange(min, max uint64) uint64 {
	if min > max {
		min, max = max, min
	}

	span := max - min + 1
	if span == 0 {
		return r.rng.Uint64()
	}

	return min + r.rng.Uint64N(span)
}

// FloatRange returns a value in [min, max).
func (r *Random) FloatRange(min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if min == max {
		return min
	}

	v := min + r.rng.Float64()*(max-min)
	if math.IsInf(v, 0) {
		return min/2 + r.rng.Float64()*(max/2-min/2)*2
	}

	return v
}

// Intn returns a value in [0, n). It panics when n <= 0.
func (r *Random) Intn(n int) int {
	return r.rng.IntN(n)
}

// Bool returns true with probability 1/2.
func (r *Random) Bool() bool {
	return r.rng.Uint64()&1 == 1
}

// Chance returns true with probability p.
func (r *Random) Chance(p float64) bool {
	if p <= 0 {
		return false
	}

	if p >= 1 {
		return true
	}

	return r.rng.Float64() < p
}

// DiceRoll returns true with probability 1/6, used for nullable decisions.
func (r *Random) DiceRoll() bool {
	return r.rng.IntN(6) == 0
}

// String returns n characters drawn from charset.
func (r *Random) String(n int, charset string) string {
	if n <= 0 || charset == "" {
		return ""
	}

	var b strings.Builder

	b.Grow(n)

	for range n {
		b.WriteByte(charset[r.rng.IntN(len(charset))])
	}

	return b.String()
}

// UpperCase returns n random upper-case letters.
func (r *Random) UpperCase(n int) string {
	return r.String(n, Upper)
}

// LowerCase returns n random lower-case letters.
func (r *Random) LowerCase(n int) string {
	return r.String(n, Lower)
}

// Shuffle pseudo-randomizes the order of n elements.
func (r *Random) Shuffle(n int, swap func(i, j int)) {
	r.rng.Shuffle(n, swap)
}

// Read fills p with random bytes. It always returns len(p), nil.
func (r *Random) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}

	return len(p), nil
}

// OneOf returns a random element of items. It panics when items is empty.
func OneOf[T any](r *Random, items []T) T {
	return items[r.Intn(len(items))]
}
