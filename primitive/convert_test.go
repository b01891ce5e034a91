package primitive

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) IsValid() bool { return c == "red" || c == "green" }

type level uint8

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		pair ConversionPair
		want CategoryEnum
	}{
		{ConversionPair{KindInt8, KindInt64}, CategorySafeNumber},
		{ConversionPair{KindInt64, KindInt8}, CategoryUnsafeNumber},
		{ConversionPair{KindString, KindUint16}, CategoryTextNumber},
		{ConversionPair{KindInt, KindBool}, CategoryNumericBool},
		{ConversionPair{KindString, KindBool}, CategoryTextualBool},
		{ConversionPair{KindString, KindTime}, CategoryDatetime},
		{ConversionPair{KindInt64, KindTime}, CategoryTimestamp},
		{ConversionPair{KindString, KindDuration}, CategoryDuration},
		{ConversionPair{KindInt64, KindDuration}, CategoryNanoseconds},
		{ConversionPair{KindUint64, KindDuration}, CategoryNone},
		{ConversionPair{KindFloat64, KindDuration}, CategorySeconds},
		{ConversionPair{KindString, KindPrimitiveEnum}, CategoryEnumString},
		{ConversionPair{KindBool, KindTime}, CategoryNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryOf(tt.pair), "%v", tt.pair)
	}
}

func TestConvertNumbers(t *testing.T) {
	out, err := Convert(reflect.ValueOf(5), reflect.TypeOf(int8(0)), CategoryExplicit)
	require.NoError(t, err)
	assert.Equal(t, int8(5), out.Interface())

	_, err = Convert(reflect.ValueOf(300), reflect.TypeOf(int8(0)), CategoryExplicit)
	require.ErrorIs(t, err, ErrNotConvertible)

	_, err = Convert(reflect.ValueOf(-1), reflect.TypeOf(uint(0)), CategoryExplicit)
	require.ErrorIs(t, err, ErrNotConvertible)

	out, err = Convert(reflect.ValueOf(2.0), reflect.TypeOf(int(0)), CategoryExplicit)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Interface())

	_, err = Convert(reflect.ValueOf(2.5), reflect.TypeOf(int(0)), CategoryExplicit)
	require.Error(t, err)

	_, err = Convert(reflect.ValueOf(int64(3)), reflect.TypeOf(int8(0)), CategorySafeNumber)
	require.Error(t, err, "narrowing needs the unsafe category")

	out, err = Convert(reflect.ValueOf(7), reflect.TypeOf(level(0)), CategoryExplicit)
	require.NoError(t, err)
	assert.Equal(t, level(7), out.Interface())
}

func TestConvertTextual(t *testing.T) {
	out, err := Convert(reflect.ValueOf("42"), reflect.TypeOf(uint16(0)), CategoryTextual)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), out.Interface())

	out, err = Convert(reflect.ValueOf("1h30m"), reflect.TypeOf(time.Duration(0)), CategoryTextual)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, out.Interface())

	out, err = Convert(reflect.ValueOf("yes"), reflect.TypeOf(false), CategoryTextual)
	require.NoError(t, err)
	assert.Equal(t, true, out.Interface())

	out, err = Convert(reflect.ValueOf("2024-02-03T04:05:06Z"), reflect.TypeOf(time.Time{}), CategoryTextual)
	require.NoError(t, err)
	assert.Equal(t, 2024, out.Interface().(time.Time).Year())

	out, err = Convert(reflect.ValueOf("red"), reflect.TypeOf(color("")), CategoryTextual)
	require.NoError(t, err)
	assert.Equal(t, color("red"), out.Interface())

	_, err = Convert(reflect.ValueOf("blue"), reflect.TypeOf(color("")), CategoryTextual)
	require.ErrorIs(t, err, ErrNotConvertible)
}

func TestConvertMisc(t *testing.T) {
	out, err := Convert(reflect.Value{}, reflect.TypeOf(""), CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, "", out.Interface())

	out, err = Convert(reflect.ValueOf(1.5), reflect.TypeOf(time.Duration(0)), CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, out.Interface())

	out, err = Convert(reflect.ValueOf(int64(0)), reflect.TypeOf(time.Time{}), CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Interface().(time.Time).Unix())

	_, err = Convert(reflect.ValueOf(struct{}{}), reflect.TypeOf(0), CategoryAll)
	require.Error(t, err)
}

func TestBounds(t *testing.T) {
	min, max := IntBounds(KindInt8)
	assert.Equal(t, int64(-128), min)
	assert.Equal(t, int64(127), max)
	assert.Equal(t, uint64(math.MaxUint16), UintBounds(KindUint16))
	assert.True(t, FitsInt(255, KindUint8))
	assert.False(t, FitsInt(256, KindUint8))
	assert.False(t, FitsUint(128, KindInt8))

	lo, hi := ClampInt(-1000, 1000, KindInt16)
	assert.Equal(t, int64(-1000), lo)
	assert.Equal(t, int64(1000), hi)

	lo, hi = ClampInt(-1000, 1000, KindInt8)
	assert.Equal(t, int64(-128), lo)
	assert.Equal(t, int64(127), hi)
}
