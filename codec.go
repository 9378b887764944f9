package mgmt

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Separator joins the elements of an encoded array or vector
const Separator = ","

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Encode returns the string form of v under its classified tag.
//
// Non-string scalars use their canonical locale-independent form. Strings
// are trimmed, have backslashes and double quotes escaped, and are wrapped
// in double quotes. Arrays and vectors encode each element by the scalar
// rule and join them with a comma; an empty collection encodes to "".
// Every vector element must have the kind of the first, and a character
// collection cannot hold a comma.
func Encode(v any) (string, error) {
	t, err := Classify(v)
	if err != nil {
		return "", err
	}

	switch t.Shape {
	case ShapeVector:
		vec := v.(Vector)
		parts := make([]string, len(vec))
		for i, elem := range vec {
			if k, ok := scalarKind(elem); !ok || k != t.Elem {
				return "", &CodecError{Op: OpEncode, Tag: t.String(), Text: describe(elem), Err: ErrUnsupportedType}
			}
			s, err := formatElement(elem, t)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, Separator), nil

	case ShapeArray:
		rv := reflect.ValueOf(v)
		parts := make([]string, rv.Len())
		for i := range parts {
			elem := rv.Index(i)
			if elem.Kind() == reflect.Pointer {
				if elem.IsNil() {
					return "", &CodecError{Op: OpEncode, Tag: t.String(), Text: fmt.Sprintf("nil element %d", i), Err: ErrUnsupportedType}
				}
				if t.Elem != KindBigInteger {
					elem = elem.Elem()
				}
			}
			s, err := formatElement(elem.Interface(), t)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, Separator), nil

	default:
		s, ok := formatScalar(v)
		if !ok {
			return "", &CodecError{Op: OpEncode, Tag: t.String(), Text: describe(v), Err: ErrUnsupportedType}
		}
		return encodeText(s, t.IsString()), nil
	}
}

// formatElement encodes one element of a collection tagged t. A comma
// character has no representation inside a collection.
func formatElement(elem any, t Tag) (string, error) {
	s, ok := formatScalar(elem)
	if !ok || (t.Elem == KindCharacter || t.Elem == KindPrimitiveChar) && s == Separator {
		return "", &CodecError{Op: OpEncode, Tag: t.String(), Text: describe(elem), Err: ErrUnsupportedType}
	}
	return encodeText(s, t.IsString()), nil
}

// MustEncode is like Encode but panics on error
func MustEncode(v any) string {
	s, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return s
}

func encodeText(s string, quote bool) string {
	if !quote {
		return s
	}
	return `"` + escaper.Replace(strings.TrimSpace(s)) + `"`
}

// formatScalar returns the canonical text of a scalar value, without quoting
func formatScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case Char:
		return x.String(), utf8.ValidRune(rune(x))
	case *big.Int:
		if x == nil {
			return "", false
		}
		return x.String(), true
	case decimal.Decimal:
		return x.String(), true
	default:
		return "", false
	}
}

// DecodeString parses tagName and decodes text under the resulting tag
func DecodeString(text, tagName string) (any, error) {
	t, err := ParseTag(tagName)
	if err != nil {
		return nil, err
	}
	return Decode(text, t)
}

// Decode is the inverse of Encode.
//
// Arrays decode to the typed slice Classify maps to the tag, vectors decode
// to a Vector. Collection text is split on commas; for string elements a
// comma inside a quoted element is not a delimiter. An empty text decodes
// to an empty collection.
func Decode(text string, t Tag) (any, error) {
	if !t.Valid() {
		return nil, &CodecError{Op: OpDecode, Tag: t.String(), Text: text, Err: ErrUnsupportedType}
	}

	switch t.Shape {
	case ShapeVector:
		parts := splitElements(text, t.IsString())
		vec := make(Vector, len(parts))
		for i, p := range parts {
			v, err := decodeScalar(p, t)
			if err != nil {
				return nil, err
			}
			vec[i] = v
		}
		return vec, nil

	case ShapeArray:
		parts := splitElements(text, t.IsString())
		typ := sliceTypes[t.Elem]
		arr := reflect.MakeSlice(typ, len(parts), len(parts))
		boxed := typ.Elem().Kind() == reflect.Pointer && t.Elem != KindBigInteger
		for i, p := range parts {
			v, err := decodeScalar(p, t)
			if err != nil {
				return nil, err
			}
			rv := reflect.ValueOf(v)
			if boxed {
				ptr := reflect.New(typ.Elem().Elem())
				ptr.Elem().Set(rv)
				rv = ptr
			}
			arr.Index(i).Set(rv)
		}
		return arr.Interface(), nil

	default:
		return decodeScalar(text, t)
	}
}

// decodeScalar decodes a single element of t
func decodeScalar(text string, t Tag) (any, error) {
	fail := func(err error) error {
		return &CodecError{Op: OpDecode, Tag: t.String(), Text: text, Err: fmt.Errorf("%w: %v", ErrDeserialization, err)}
	}

	switch t.Elem.scalar() {
	case KindBigDecimal:
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, fail(err)
		}
		return d, nil
	case KindBigInteger:
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fail(fmt.Errorf("invalid integer"))
		}
		return n, nil
	case KindBoolean:
		switch {
		case strings.EqualFold(text, "true"):
			return true, nil
		case strings.EqualFold(text, "false"):
			return false, nil
		}
		return nil, fail(fmt.Errorf("invalid boolean"))
	case KindByte:
		n, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			return nil, fail(err)
		}
		return int8(n), nil
	case KindCharacter:
		r, size := utf8.DecodeRuneInString(text)
		if size == 0 || r == utf8.RuneError && size == 1 {
			return nil, fail(fmt.Errorf("no character"))
		}
		return Char(r), nil
	case KindDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fail(err)
		}
		return f, nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fail(err)
		}
		return float32(f), nil
	case KindInteger:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fail(err)
		}
		return int32(n), nil
	case KindLong:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fail(err)
		}
		return n, nil
	case KindShort:
		n, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return nil, fail(err)
		}
		return int16(n), nil
	case KindString:
		return unquote(text), nil
	default:
		return nil, &CodecError{Op: OpDecode, Tag: t.String(), Text: text, Err: ErrUnsupportedType}
	}
}

// unquote strips one layer of matching double or single quotes and then
// collapses \\, \" and \' in a single left-to-right pass.
func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			s = s[1 : len(s)-1]
		}
	}
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch next := s[i+1]; next {
			case '\\', '"', '\'':
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// splitElements splits collection text on commas. When quoted is set, a
// comma inside an element that opens with a quote is part of the element.
func splitElements(text string, quoted bool) []string {
	if text == "" {
		return nil
	}
	if !quoted {
		return strings.Split(text, Separator)
	}

	var parts []string
	start := 0
	var open byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case open != 0:
			if c == '\\' {
				i++
			} else if c == open {
				open = 0
			}
		case (c == '"' || c == '\'') && i == start:
			open = c
		case c == ',':
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}
