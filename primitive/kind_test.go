package primitive_test

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fixturegen/primitive"
)

func Example() {
	type IntEnum int
	type StringEnum string
	type Ratio float64
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Ratio(0))))
	fmt.Println(primitive.Underlying(reflect.TypeOf(Ratio(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	// Output:
	// KindInt
	// KindString
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindFloat64
	// KindDuration
	// KindTime
	// KindEnum(0)
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind                      primitive.KindEnum
		integer, signed, unsigned bool
		bits                      int
	}{
		{primitive.KindInt8, true, true, false, 8},
		{primitive.KindUint16, true, false, true, 16},
		{primitive.KindInt, true, true, false, strconv.IntSize},
		{primitive.KindUint, true, false, true, strconv.IntSize},
		{primitive.KindFloat32, false, false, false, 32},
		{primitive.KindFloat64, false, false, false, 64},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.True(t, tt.kind.IsNumber())
			assert.Equal(t, tt.integer, tt.kind.IsInteger())
			assert.Equal(t, !tt.integer, tt.kind.IsFloat())
			assert.Equal(t, tt.signed, tt.kind.IsSigned())
			assert.Equal(t, tt.unsigned, tt.kind.IsUnsigned())
			assert.Equal(t, tt.bits, tt.kind.Bits())
		})
	}

	assert.False(t, primitive.KindString.IsNumber())
	assert.Panics(t, func() { primitive.KindBool.Bits() })
}
