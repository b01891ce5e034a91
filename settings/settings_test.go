package settings

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixturegen/generator/hints"
)

type shape interface{ Area() float64 }

type square struct{ side float64 }

func (s square) Area() float64 { return s.side * s.side }

func TestDefaults(t *testing.T) {
	s := New()

	assert.Equal(t, 8, Get(s, MaxDepth))
	assert.Equal(t, 3, Get(s, StringMinLength))
	assert.Equal(t, 10, Get(s, StringMaxLength))
	assert.Equal(t, ModeStrict, Get(s, Mode))
	assert.Equal(t, hints.PopulateNilsAndDefaultPrimitives, Get(s, AfterGenerateHint))
	assert.Equal(t, 6, Get[int](nil, CollectionMaxSize))
	assert.False(t, Get(s, SetBackReferences))
}

func TestAutoAdjust(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantMin int
		wantMax int
	}{
		{"min within range", []Entry{StringMinLength.With(5)}, 5, 10},
		{"min above max raises max", []Entry{StringMinLength.With(20)}, 20, 30},
		{"max below min lowers min", []Entry{StringMaxLength.With(2)}, 1, 2},
		{"max below min clamps at zero", []Entry{StringMaxLength.With(0)}, 0, 0},
		{"both in order", []Entry{StringMaxLength.With(50), StringMinLength.With(40)}, 40, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.Apply(tt.entries...))
			assert.Equal(t, tt.wantMin, Get(s, StringMinLength))
			assert.Equal(t, tt.wantMax, Get(s, StringMaxLength))
		})
	}
}

func TestAutoAdjustSigned(t *testing.T) {
	s := New()
	require.NoError(t, Set(s, IntMax, int64(-100)))
	assert.Equal(t, int64(-150), Get(s, IntMin))

	require.NoError(t, Set(s, FloatMin, 1e6))
	assert.Equal(t, 1.5e6, Get(s, FloatMax))

	require.NoError(t, Set(s, DurationMin, 48*time.Hour))
	assert.Equal(t, 72*time.Hour, Get(s, DurationMax))
}

func TestSetValueConversion(t *testing.T) {
	s := New()

	require.NoError(t, s.SetValue("int.max", 500))
	assert.Equal(t, int64(500), Get(s, IntMax))

	require.NoError(t, s.SetValue("string.max.length", "12"))
	assert.Equal(t, 12, Get(s, StringMaxLength))

	err := s.SetValue("collection.min.size", -1)
	require.ErrorIs(t, err, ErrInvalid)

	err = s.SetValue("strng.min.length", 1)
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), `did you mean "string.min.length"`)
}

func TestLockAndMerge(t *testing.T) {
	base := New()
	require.NoError(t, Set(base, MaxDepth, 3))
	require.NoError(t, base.MapType(reflect.TypeFor[shape](), reflect.TypeFor[square]()))

	merged := New()
	require.NoError(t, merged.Merge(base))
	assert.Equal(t, 3, Get(merged, MaxDepth))

	to, ok := merged.Subtype(reflect.TypeFor[shape]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[square](), to)

	merged.Lock()
	require.ErrorIs(t, Set(merged, MaxDepth, 4), ErrLocked)

	clone := merged.Clone()
	assert.False(t, clone.IsLocked())
	require.NoError(t, Set(clone, MaxDepth, 4))

	err := base.MapType(reflect.TypeFor[shape](), reflect.TypeFor[int]())
	require.ErrorIs(t, err, ErrInvalid)
}

func TestMarginSaturates(t *testing.T) {
	assert.Equal(t, uint64(1<<63+1<<62), MarginAbove(uint64(1<<63)))
	assert.Equal(t, ^uint64(0), MarginAbove(^uint64(0)))
	assert.Equal(t, uint64(0), MarginBelow(uint64(0)))
	assert.Equal(t, 1, MarginAbove(0))
}
