package primitive

// CategoryEnum is a bitmask of conversion families the engine may apply when a
// user supplied value does not exactly match the type of the node it is assigned to.
type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float narrowing, checked against the target range
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string <-> enum: textual representation of an enum type (uses String/IsValid methods)

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryExplicit is applied to values given through Set and assignment actions.
	CategoryExplicit = CategorySafeNumber | CategoryUnsafeNumber | CategoryEnumString
	// CategoryTextual is applied to struct tag parameters.
	CategoryTextual = CategoryTextNumber | CategoryTextualBool | CategoryDatetime | CategoryDuration | CategoryEnumString
)

var safeNumberPairs = safeNumberConversionPairs()

// Has reports whether every category of other is enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other && other != CategoryNone
}

// CategoryOf returns the single category covering the pair, or CategoryNone.
func CategoryOf(pair ConversionPair) CategoryEnum {
	from, to := pair.From, pair.To

	switch {
	case from.IsNumber() && to.IsNumber():
		if _, ok := safeNumberPairs[pair]; ok {
			return CategorySafeNumber
		}

		return CategoryUnsafeNumber

	case from.IsNumber() && to == KindString, from == KindString && to.IsNumber():
		return CategoryTextNumber

	case from.IsInteger() && to == KindBool, from == KindBool && to.IsInteger():
		return CategoryNumericBool

	case from == KindString && to == KindBool, from == KindBool && to == KindString:
		return CategoryTextualBool

	case from == KindString && to == KindTime, from == KindTime && to == KindString:
		return CategoryDatetime

	case from.IsInteger() && to == KindTime, from == KindTime && to.IsInteger():
		return CategoryTimestamp

	case from == KindString && to == KindDuration, from == KindDuration && to == KindString:
		return CategoryDuration

	case from.IsInteger() && from != KindUint64 && to == KindDuration,
		from == KindDuration && to.IsInteger() && to != KindUint64:
		return CategoryNanoseconds

	case from.IsFloat() && to == KindDuration, from == KindDuration && to.IsFloat():
		return CategorySeconds

	case from == KindString && to == KindPrimitiveEnum,
		from == KindPrimitiveEnum && to == KindString,
		from == KindPrimitiveEnum && to == KindPrimitiveEnum:
		return CategoryEnumString
	}

	return CategoryNone
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	return map[ConversionPair]struct{}{
		{KindInt, KindInt}:   {}, // int can be any wide from 32 upto 64
		{KindInt, KindInt64}: {},

		{KindInt8, KindInt}:     {}, // int8 can be safely converted to any signed int
		{KindInt8, KindInt8}:    {},
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt16}:   {}, // int16 omitting narrowing to int8
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt32}:   {}, // int32 omitting narrowing to int8/16
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // int32 is wider than float32 mantissa

		{KindInt64, KindInt64}: {}, // int64 is the widest signed integer type

		{KindUint, KindUint}:   {}, // uint can be any wide from 32 upto 64
		{KindUint, KindUint64}: {},

		{KindUint8, KindUint}:    {}, // uint8 can be safely converted to any unsigned int
		{KindUint8, KindUint8}:   {},
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {}, // also uint8 can be converted to any wider signed int
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint16}:  {}, // uint16 omitting narrowing to uint8
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {}, // also uint16 can be converted to any wider signed int
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint32}:  {},
		{KindUint32, KindUint64}:  {}, // uint32 omitting narrowing to uint8/16
		{KindUint32, KindInt64}:   {}, // also only int64 is wide enough to hold uint32
		{KindUint32, KindFloat64}: {}, // uint32 is wider than float32 mantissa

		{KindUint64, KindUint64}: {}, // uint64 is the widest unsigned integer type

		{KindFloat32, KindFloat32}: {},
		{KindFloat32, KindFloat64}: {},

		{KindFloat64, KindFloat64}: {},
	}
}
