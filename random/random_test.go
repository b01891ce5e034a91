package random

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)

	for range 100 {
		require.Equal(t, a.IntRange(-1000, 1000), b.IntRange(-1000, 1000))
		require.Equal(t, a.String(8, AlphaNumeric), b.String(8, AlphaNumeric))
	}

	assert.Equal(t, uint64(42), a.Seed())
}

func TestRanges(t *testing.T) {
	r := New(7)

	for range 1000 {
		v := r.IntRange(3, 5)
		assert.True(t, v >= 3 && v <= 5, v)

		u := r.UintRange(10, 10)
		assert.Equal(t, uint64(10), u)

		f := r.FloatRange(1.5, 2.5)
		assert.True(t, f >= 1.5 && f < 2.5, f)
	}

	// reversed bounds are tolerated
	v := r.IntRange(5, 3)
	assert.True(t, v >= 3 && v <= 5)

	// full span must not panic
	_ = r.IntRange(math.MinInt64, math.MaxInt64)
	_ = r.UintRange(0, math.MaxUint64)
}

func TestStringAndRead(t *testing.T) {
	r := New(1)

	s := r.UpperCase(12)
	assert.Len(t, s, 12)

	for _, c := range s {
		assert.True(t, c >= 'A' && c <= 'Z')
	}

	buf := make([]byte, 13)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 13, n)

	assert.Equal(t, "", r.String(0, Alpha))
	assert.Contains(t, []string{"x", "y"}, OneOf(r, []string{"x", "y"}))
}

func TestChance(t *testing.T) {
	r := New(3)
	assert.False(t, r.Chance(0))
	assert.True(t, r.Chance(1))
}
