package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Name", Capitalize("name"))
	assert.Equal(t, "Name", Capitalize("Name"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "_x", Capitalize("_x"))
	assert.Equal(t, "name", Decapitalize("Name"))
	assert.Equal(t, "uRL", Decapitalize("URL"))
}

func TestShortQualified(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"int", "int"},
		{"Box[int]", "Box[int]"},
		{"Box[example.com/shop/model.Item]", "Box[model.Item]"},
		{"Pair[string,*example.com/shop/model.Item]", "Pair[string,*model.Item]"},
		{"map[string]example.com/x.Y", "map[string]x.Y"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ShortQualified(tt.in), tt.in)
	}
}

func TestSlices(t *testing.T) {
	assert.True(t, IsEmpty([]int{}))
	assert.True(t, IsSingle([]int{1}))
	assert.False(t, IsSingle([]int{1, 2}))

	v, ok := Last([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = Last([]string(nil))
	assert.False(t, ok)
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(0.0, 0.0, 1.0))
	assert.True(t, InRange(1, 3, 3))
	assert.False(t, InRange(1, 4, 3))
	assert.False(t, InRange(0.0, math.NaN(), 1.0))
}

func TestPair(t *testing.T) {
	p, s := Pair([]int{10, 2, 7})
	assert.Equal(t, 10, p)
	assert.Equal(t, 2, s)

	p, s = Pair([]int{10})
	assert.Equal(t, 10, p)
	assert.Zero(t, s)

	p, s = Pair[[]int](nil)
	assert.Zero(t, p)
	assert.Zero(t, s)
}
