package mgmt

import (
	"strings"
)

// Kind is the element kind of a type tag
type Kind int

const (
	// KindInvalid is the zero Kind and never appears in a valid tag
	KindInvalid Kind = iota

	// Boxed scalar kinds, usable as scalars, array elements and vector elements
	KindBigDecimal
	KindBigInteger
	KindBoolean
	KindByte
	KindCharacter
	KindDouble
	KindFloat
	KindInteger
	KindLong
	KindShort
	KindString

	// Primitive kinds, usable only as array elements
	KindPrimitiveBoolean
	KindPrimitiveByte
	KindPrimitiveChar
	KindPrimitiveDouble
	KindPrimitiveFloat
	KindPrimitiveInt
	KindPrimitiveLong
	KindPrimitiveShort
)

// Kind string constants as they appear on the wire
const (
	BigDecimal = "BigDecimal"
	BigInteger = "BigInteger"
	Boolean    = "Boolean"
	Byte       = "Byte"
	Character  = "Character"
	Double     = "Double"
	Float      = "Float"
	Integer    = "Integer"
	Long       = "Long"
	Short      = "Short"
	String     = "String"

	PBoolean = "boolean"
	PByte    = "byte"
	PChar    = "char"
	PDouble  = "double"
	PFloat   = "float"
	PInt     = "int"
	PLong    = "long"
	PShort   = "short"
)

// Compound tag prefixes. The element name follows the prefix directly.
const (
	ArrayOf  = "Array of "
	VectorOf = "Vector of "
)

var kindNames = [...]string{
	KindBigDecimal:       BigDecimal,
	KindBigInteger:       BigInteger,
	KindBoolean:          Boolean,
	KindByte:             Byte,
	KindCharacter:        Character,
	KindDouble:           Double,
	KindFloat:            Float,
	KindInteger:          Integer,
	KindLong:             Long,
	KindShort:            Short,
	KindString:           String,
	KindPrimitiveBoolean: PBoolean,
	KindPrimitiveByte:    PByte,
	KindPrimitiveChar:    PChar,
	KindPrimitiveDouble:  PDouble,
	KindPrimitiveFloat:   PFloat,
	KindPrimitiveInt:     PInt,
	KindPrimitiveLong:    PLong,
	KindPrimitiveShort:   PShort,
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if name != "" {
			m[name] = Kind(k)
		}
	}
	return m
}()

// String returns the wire name of the kind
func (k Kind) String() string {
	if k <= KindInvalid || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Kinds returns every element kind in wire vocabulary order
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindBigDecimal; int(k) < len(kindNames); k++ {
		out = append(out, k)
	}
	return out
}

// Boxed reports whether k is one of the eleven boxed scalar kinds
func (k Kind) Boxed() bool {
	return k >= KindBigDecimal && k <= KindString
}

// Primitive reports whether k is one of the primitive array element kinds
func (k Kind) Primitive() bool {
	return k >= KindPrimitiveBoolean && k <= KindPrimitiveShort
}

// scalar maps a primitive kind to the boxed kind sharing its parser.
// Boxed kinds map to themselves.
func (k Kind) scalar() Kind {
	switch k {
	case KindPrimitiveBoolean:
		return KindBoolean
	case KindPrimitiveByte:
		return KindByte
	case KindPrimitiveChar:
		return KindCharacter
	case KindPrimitiveDouble:
		return KindDouble
	case KindPrimitiveFloat:
		return KindFloat
	case KindPrimitiveInt:
		return KindInteger
	case KindPrimitiveLong:
		return KindLong
	case KindPrimitiveShort:
		return KindShort
	default:
		return k
	}
}

// Shape is the outer structure of a tagged value
type Shape int

const (
	// ShapeScalar is a single value
	ShapeScalar Shape = iota
	// ShapeArray is a typed slice with a statically known element kind
	ShapeArray
	// ShapeVector is a dynamically sized Vector classified by its first element
	ShapeVector
)

// String returns the string representation of the shape
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeVector:
		return "vector"
	default:
		return "unknown"
	}
}

// Tag identifies the encoding rule for a value. The zero Tag is invalid.
type Tag struct {
	Shape Shape
	Elem  Kind
}

// ScalarTag returns the tag of a single boxed value
func ScalarTag(k Kind) Tag { return Tag{Shape: ShapeScalar, Elem: k} }

// ArrayTag returns the tag of a typed slice of k
func ArrayTag(k Kind) Tag { return Tag{Shape: ShapeArray, Elem: k} }

// VectorTag returns the tag of a Vector of k
func VectorTag(k Kind) Tag { return Tag{Shape: ShapeVector, Elem: k} }

// Valid reports whether the tag is part of the vocabulary
func (t Tag) Valid() bool {
	switch t.Shape {
	case ShapeScalar, ShapeVector:
		return t.Elem.Boxed()
	case ShapeArray:
		return t.Elem.Boxed() || t.Elem.Primitive()
	default:
		return false
	}
}

// String returns the wire form of the tag, e.g. "Integer" or "Array of int"
func (t Tag) String() string {
	switch t.Shape {
	case ShapeArray:
		return ArrayOf + t.Elem.String()
	case ShapeVector:
		return VectorOf + t.Elem.String()
	default:
		return t.Elem.String()
	}
}

// IsString reports whether the tag's elements are strings
func (t Tag) IsString() bool {
	return t.Elem == KindString
}

// ParseTag parses the wire form of a type tag
func ParseTag(s string) (Tag, error) {
	shape := ShapeScalar
	name := s
	switch {
	case strings.HasPrefix(s, ArrayOf):
		shape, name = ShapeArray, s[len(ArrayOf):]
	case strings.HasPrefix(s, VectorOf):
		shape, name = ShapeVector, s[len(VectorOf):]
	}

	k, ok := kindsByName[name]
	if !ok {
		return Tag{}, &CodecError{Op: OpParseTag, Text: s, Err: ErrUnsupportedType}
	}

	t := Tag{Shape: shape, Elem: k}
	if !t.Valid() {
		return Tag{}, &CodecError{Op: OpParseTag, Text: s, Err: ErrUnsupportedType}
	}
	return t, nil
}

// MustParseTag is like ParseTag but panics on error
func MustParseTag(s string) Tag {
	t, err := ParseTag(s)
	if err != nil {
		panic(err)
	}
	return t
}
