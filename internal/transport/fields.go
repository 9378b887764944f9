package transport

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	mgmt "github.com/axondata/go-mgmtbridge"
)

// errBadRequest marks a request whose fields have the wrong shape
var errBadRequest = errors.New("transport: bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// list returns the list under key; a missing or null field is an empty list
func list(s *structpb.Struct, key string) ([]*structpb.Value, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_ListValue:
		return k.ListValue.GetValues(), nil
	default:
		return nil, badRequest("%s must be a list", key)
	}
}

func int64s(s *structpb.Struct, key string) ([]int64, error) {
	vals, err := list(s, key)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(vals))
	for i, v := range vals {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue != math.Trunc(n.NumberValue) ||
			n.NumberValue < math.MinInt64 || n.NumberValue >= math.MaxInt64 {
			return nil, badRequest("%s[%d] must be an integer", key, i)
		}
		out[i] = int64(n.NumberValue)
	}
	return out, nil
}

func int32s(s *structpb.Struct, key string) ([]int32, error) {
	wide, err := int64s(s, key)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(wide))
	for i, n := range wide {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, badRequest("%s[%d] out of range", key, i)
		}
		out[i] = int32(n)
	}
	return out, nil
}

func strs(s *structpb.Struct, key string) ([]string, error) {
	vals, err := list(s, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		str, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, badRequest("%s[%d] must be a string", key, i)
		}
		out[i] = str.StringValue
	}
	return out, nil
}

func str(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", badRequest("%s must be a string", key)
	}
	return v.StringValue, nil
}

// propertyRows reads a property table sent as a list of Key/Type/Value structs
func propertyRows(s *structpb.Struct, key string) ([]mgmt.Property, error) {
	vals, err := list(s, key)
	if err != nil {
		return nil, err
	}
	rows := make([]mgmt.Property, len(vals))
	for i, v := range vals {
		row := v.GetStructValue()
		if row == nil {
			return nil, badRequest("%s[%d] must be a struct", key, i)
		}
		var p mgmt.Property
		if p.Key, err = str(row, FieldKey); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		if p.Type, err = str(row, FieldType); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		if p.Value, err = str(row, FieldValue); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		rows[i] = p
	}
	return rows, nil
}

// PropertyList renders rows in the form propertyRows reads
func PropertyList(rows []mgmt.Property) []any {
	out := make([]any, len(rows))
	for i, p := range rows {
		out[i] = map[string]any{
			FieldKey:   p.Key,
			FieldType:  p.Type,
			FieldValue: p.Value,
		}
	}
	return out
}

// Rows is the inverse of PropertyList for a decoded response
func Rows(s *structpb.Struct) ([]mgmt.Property, error) {
	return propertyRows(s, FieldProperties)
}
