package mgmt

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"
)

// sliceKinds maps every supported typed slice to its array element kind.
// Slices of pointers carry the boxed kinds, slices of plain values carry
// the primitive kinds. String, BigInteger and BigDecimal have no primitive
// counterpart.
var sliceKinds = map[reflect.Type]Kind{
	reflect.TypeOf([]decimal.Decimal(nil)): KindBigDecimal,
	reflect.TypeOf([]*big.Int(nil)):        KindBigInteger,
	reflect.TypeOf([]*bool(nil)):           KindBoolean,
	reflect.TypeOf([]*int8(nil)):           KindByte,
	reflect.TypeOf([]*Char(nil)):           KindCharacter,
	reflect.TypeOf([]*float64(nil)):        KindDouble,
	reflect.TypeOf([]*float32(nil)):        KindFloat,
	reflect.TypeOf([]*int32(nil)):          KindInteger,
	reflect.TypeOf([]*int64(nil)):          KindLong,
	reflect.TypeOf([]*int16(nil)):          KindShort,
	reflect.TypeOf([]string(nil)):          KindString,

	reflect.TypeOf([]bool(nil)):    KindPrimitiveBoolean,
	reflect.TypeOf([]int8(nil)):    KindPrimitiveByte,
	reflect.TypeOf([]Char(nil)):    KindPrimitiveChar,
	reflect.TypeOf([]float64(nil)): KindPrimitiveDouble,
	reflect.TypeOf([]float32(nil)): KindPrimitiveFloat,
	reflect.TypeOf([]int32(nil)):   KindPrimitiveInt,
	reflect.TypeOf([]int64(nil)):   KindPrimitiveLong,
	reflect.TypeOf([]int16(nil)):   KindPrimitiveShort,
}

// sliceTypes is the inverse of sliceKinds, used to build decoded arrays
var sliceTypes = func() map[Kind]reflect.Type {
	m := make(map[Kind]reflect.Type, len(sliceKinds))
	for typ, k := range sliceKinds {
		m[k] = typ
	}
	return m
}()

// Classify returns the type tag of v.
//
// A Vector is classified by its first element, which must be a boxed
// scalar; an empty Vector is a Vector of String. A typed slice is
// classified by its declared element type, so empty slices classify too.
// Anything else must be exactly one of the scalar types.
func Classify(v any) (Tag, error) {
	if vec, ok := v.(Vector); ok {
		if len(vec) == 0 {
			return VectorTag(KindString), nil
		}
		k, ok := scalarKind(vec[0])
		if !ok {
			return Tag{}, &CodecError{Op: OpClassify, Text: describe(vec[0]), Err: ErrUnsupportedType}
		}
		return VectorTag(k), nil
	}

	if k, ok := scalarKind(v); ok {
		return ScalarTag(k), nil
	}

	if k, ok := sliceKinds[reflect.TypeOf(v)]; ok {
		return ArrayTag(k), nil
	}

	return Tag{}, &CodecError{Op: OpClassify, Text: describe(v), Err: ErrUnsupportedType}
}

// scalarKind returns the boxed kind of a single scalar value
func scalarKind(v any) (Kind, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return KindBigDecimal, true
	case *big.Int:
		return KindBigInteger, x != nil
	case bool:
		return KindBoolean, true
	case int8:
		return KindByte, true
	case Char:
		return KindCharacter, true
	case float64:
		return KindDouble, true
	case float32:
		return KindFloat, true
	case int32:
		return KindInteger, true
	case int64:
		return KindLong, true
	case int16:
		return KindShort, true
	case string:
		return KindString, true
	default:
		return KindInvalid, false
	}
}

func describe(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("value of type %T", v)
}
