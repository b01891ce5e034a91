package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ErrNotConvertible is wrapped by every conversion failure.
var ErrNotConvertible = errors.New("value is not convertible")

type converter func(v reflect.Value, from, to KindEnum) (reflect.Value, error)

var converters = map[CategoryEnum]converter{
	CategorySafeNumber:   convertNumber,
	CategoryUnsafeNumber: convertNumber,
	CategoryTextNumber:   convertTextNumber,
	CategoryNumericBool:  convertNumericBool,
	CategoryTextualBool:  convertTextualBool,
	CategoryDatetime:     convertDatetime,
	CategoryTimestamp:    convertTimestamp,
	CategoryDuration:     convertDuration,
	CategoryNanoseconds:  convertNanoseconds,
	CategorySeconds:      convertSeconds,
}

var (
	stringerType = reflect.TypeOf((*interface{ String() string })(nil)).Elem()
	validType    = reflect.TypeOf((*interface{ IsValid() bool })(nil)).Elem()
)

// BasicType returns the unnamed reflect.Type of a kind; nil for KindPrimitiveEnum.
func BasicType(k KindEnum) reflect.Type {
	switch k {
	default:
		return nil
	case KindInt:
		return reflect.TypeOf(int(0))
	case KindInt8:
		return reflect.TypeOf(int8(0))
	case KindInt16:
		return reflect.TypeOf(int16(0))
	case KindInt32:
		return reflect.TypeOf(int32(0))
	case KindInt64:
		return reflect.TypeOf(int64(0))
	case KindUint:
		return reflect.TypeOf(uint(0))
	case KindUint8:
		return reflect.TypeOf(uint8(0))
	case KindUint16:
		return reflect.TypeOf(uint16(0))
	case KindUint32:
		return reflect.TypeOf(uint32(0))
	case KindUint64:
		return reflect.TypeOf(uint64(0))
	case KindFloat32:
		return reflect.TypeOf(float32(0))
	case KindFloat64:
		return reflect.TypeOf(float64(0))
	case KindBool:
		return reflect.TypeOf(false)
	case KindString:
		return reflect.TypeOf("")
	case KindTime:
		return timeType
	case KindDuration:
		return durationType
	}
}

// Convert returns v converted to the type to, provided a category enabled in
// allowed covers the pair of kinds. Assignable values are returned unchanged.
func Convert(v reflect.Value, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(to), nil
	}

	if v.Type().AssignableTo(to) {
		return v, nil
	}

	fail := func(reason string) error {
		return fmt.Errorf("%w: %s to %s: %s", ErrNotConvertible, v.Type(), to, reason)
	}

	src := FromReflectType(v.Type())
	dst := FromReflectType(to)

	if src == 0 || dst == 0 {
		return reflect.Value{}, fail("not a primitive type")
	}

	if src == KindPrimitiveEnum || dst == KindPrimitiveEnum {
		if allowed&CategoryEnumString != 0 {
			out, ok, err := convertEnum(v, to)
			if err != nil {
				return reflect.Value{}, fail(err.Error())
			}

			if ok {
				return out, nil
			}
		}

		// numeric enums convert through their underlying kind
		if src == KindPrimitiveEnum {
			src = FromReflectKind(v.Kind())
			v = v.Convert(BasicType(src))
		}

		if dst == KindPrimitiveEnum {
			out, err := Convert(v, BasicType(FromReflectKind(to.Kind())), allowed)
			if err != nil {
				return reflect.Value{}, err
			}

			return out.Convert(to), nil
		}
	}

	category := CategoryOf(ConversionPair{src, dst})
	if category == CategoryNone || allowed&category == 0 {
		return reflect.Value{}, fail("conversion category is not allowed")
	}

	out, err := converters[category](v, src, dst)
	if err != nil {
		return reflect.Value{}, fail(err.Error())
	}

	if out.Type() != to {
		out = out.Convert(to)
	}

	return out, nil
}

func convertEnum(v reflect.Value, to reflect.Type) (reflect.Value, bool, error) {
	src := FromReflectType(v.Type())
	dst := FromReflectType(to)

	switch {
	case src == KindPrimitiveEnum && dst == KindString:
		if v.Type().Implements(stringerType) {
			return reflect.ValueOf(v.Interface().(interface{ String() string }).String()), true, nil
		}

		if v.Kind() == reflect.String {
			return reflect.ValueOf(v.String()), true, nil
		}

	case dst == KindPrimitiveEnum && to.Kind() == reflect.String && v.Kind() == reflect.String:
		out := reflect.ValueOf(v.String()).Convert(to)
		if to.Implements(validType) && !out.Interface().(interface{ IsValid() bool }).IsValid() {
			return reflect.Value{}, false, fmt.Errorf("%q is not a valid value", v.String())
		}

		return out, true, nil

	case src == KindPrimitiveEnum && dst == KindPrimitiveEnum && v.Kind() == to.Kind():
		return v.Convert(to), true, nil
	}

	return reflect.Value{}, false, nil
}

func convertNumber(v reflect.Value, from, to KindEnum) (reflect.Value, error) {
	target := BasicType(to)

	switch {
	case from.IsSigned():
		n := v.Int()
		if to.IsFloat() {
			return reflect.ValueOf(float64(n)).Convert(target), nil
		}

		if !FitsInt(n, to) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, target)
		}

		return v.Convert(target), nil

	case from.IsUnsigned():
		n := v.Uint()
		if to.IsFloat() {
			return reflect.ValueOf(float64(n)).Convert(target), nil
		}

		if !FitsUint(n, to) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, target)
		}

		return v.Convert(target), nil

	default:
		f := v.Float()
		if to.IsFloat() {
			if to == KindFloat32 && math.Abs(f) > math.MaxFloat32 {
				return reflect.Value{}, fmt.Errorf("%g overflows float32", f)
			}

			return reflect.ValueOf(f).Convert(target), nil
		}

		if f != math.Trunc(f) {
			return reflect.Value{}, fmt.Errorf("%g is not an integer", f)
		}

		if to.IsSigned() {
			if f < math.MinInt64 || f >= math.MaxInt64 || !FitsInt(int64(f), to) {
				return reflect.Value{}, fmt.Errorf("%g overflows %s", f, target)
			}

			return reflect.ValueOf(int64(f)).Convert(target), nil
		}

		if f < 0 || f >= math.MaxUint64 || !FitsUint(uint64(f), to) {
			return reflect.Value{}, fmt.Errorf("%g overflows %s", f, target)
		}

		return reflect.ValueOf(uint64(f)).Convert(target), nil
	}
}

func convertTextNumber(v reflect.Value, from, to KindEnum) (reflect.Value, error) {
	if from.IsNumber() {
		switch {
		case from.IsSigned():
			return reflect.ValueOf(strconv.FormatInt(v.Int(), 10)), nil
		case from.IsUnsigned():
			return reflect.ValueOf(strconv.FormatUint(v.Uint(), 10)), nil
		default:
			return reflect.ValueOf(strconv.FormatFloat(v.Float(), 'g', -1, from.Bits())), nil
		}
	}

	s := strings.TrimSpace(v.String())
	target := BasicType(to)

	switch {
	case to.IsSigned():
		n, err := strconv.ParseInt(s, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(target), nil

	case to.IsUnsigned():
		n, err := strconv.ParseUint(s, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(target), nil

	default:
		f, err := strconv.ParseFloat(s, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(f).Convert(target), nil
	}
}

func convertNumericBool(v reflect.Value, from, to KindEnum) (reflect.Value, error) {
	if from == KindBool {
		n := 0
		if v.Bool() {
			n = 1
		}

		return reflect.ValueOf(n).Convert(BasicType(to)), nil
	}

	var n uint64
	if from.IsSigned() {
		if v.Int() < 0 {
			return reflect.Value{}, fmt.Errorf("%d is not a boolean", v.Int())
		}

		n = uint64(v.Int())
	} else {
		n = v.Uint()
	}

	switch n {
	case 0:
		return reflect.ValueOf(false), nil
	case 1:
		return reflect.ValueOf(true), nil
	}

	return reflect.Value{}, fmt.Errorf("%d is not a boolean", n)
}

func convertTextualBool(v reflect.Value, from, _ KindEnum) (reflect.Value, error) {
	if from == KindBool {
		return reflect.ValueOf(strconv.FormatBool(v.Bool())), nil
	}

	switch strings.ToLower(strings.TrimSpace(v.String())) {
	case "true", "yes", "on", "1":
		return reflect.ValueOf(true), nil
	case "false", "no", "off", "0":
		return reflect.ValueOf(false), nil
	}

	return reflect.Value{}, fmt.Errorf("%q is not a boolean", v.String())
}

func convertDatetime(v reflect.Value, from, _ KindEnum) (reflect.Value, error) {
	if from == KindTime {
		return reflect.ValueOf(v.Interface().(time.Time).Format(time.RFC3339Nano)), nil
	}

	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.String()))
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(t), nil
}

func convertTimestamp(v reflect.Value, from, to KindEnum) (reflect.Value, error) {
	if from == KindTime {
		sec := v.Interface().(time.Time).Unix()

		return convertNumber(reflect.ValueOf(sec), KindInt64, to)
	}

	var sec int64
	if from.IsSigned() {
		sec = v.Int()
	} else {
		if v.Uint() > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%d overflows a timestamp", v.Uint())
		}

		sec = int64(v.Uint())
	}

	return reflect.ValueOf(time.Unix(sec, 0).UTC()), nil
}

func convertDuration(v reflect.Value, from, _ KindEnum) (reflect.Value, error) {
	if from == KindDuration {
		return reflect.ValueOf(time.Duration(v.Int()).String()), nil
	}

	d, err := time.ParseDuration(strings.TrimSpace(v.String()))
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(d), nil
}

func convertNanoseconds(v reflect.Value, from, to KindEnum) (reflect.Value, error) {
	if from == KindDuration {
		return convertNumber(reflect.ValueOf(v.Int()), KindInt64, to)
	}

	if from.IsUnsigned() {
		if v.Uint() > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%d overflows a duration", v.Uint())
		}

		return reflect.ValueOf(time.Duration(v.Uint())), nil
	}

	return reflect.ValueOf(time.Duration(v.Int())), nil
}

func convertSeconds(v reflect.Value, from, to KindEnum) (reflect.Value, error) {
	if from == KindDuration {
		return reflect.ValueOf(time.Duration(v.Int()).Seconds()).Convert(BasicType(to)), nil
	}

	f := v.Float() * float64(time.Second)
	if f > math.MaxInt64 || f < math.MinInt64 {
		return reflect.Value{}, fmt.Errorf("%g seconds overflows a duration", v.Float())
	}

	return reflect.ValueOf(time.Duration(f)), nil
}
