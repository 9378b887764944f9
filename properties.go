package mgmt

import (
	"sort"
)

// Property is one row of a serialized property table
type Property struct {
	// Key is the property name
	Key string `cbor:"key" json:"key"`
	// Type is the wire form of the value's tag
	Type string `cbor:"type" json:"type"`
	// Value is the encoded value
	Value string `cbor:"value" json:"value"`
}

// NewProperty classifies and encodes v into a property row
func NewProperty(key string, v any) (Property, error) {
	t, err := Classify(v)
	if err != nil {
		return Property{}, err
	}
	s, err := Encode(v)
	if err != nil {
		return Property{}, err
	}
	return Property{Key: key, Type: t.String(), Value: s}, nil
}

// Decode returns the typed value held by the row
func (p Property) Decode() (any, error) {
	return DecodeString(p.Value, p.Type)
}

// RowPolicy selects how DecodeProperties treats rows that fail to decode
type RowPolicy int

const (
	// RowStrict fails on the first row that does not decode
	RowStrict RowPolicy = iota
	// RowSkipInvalid drops rows that do not decode and keeps the rest
	RowSkipInvalid
)

// EncodeProperties converts a property map to rows sorted by key
func EncodeProperties(props map[string]any) ([]Property, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Property, 0, len(keys))
	for _, k := range keys {
		p, err := NewProperty(k, props[k])
		if err != nil {
			return nil, err
		}
		rows = append(rows, p)
	}
	return rows, nil
}

// DecodeProperties converts rows back to a property map. With RowStrict
// the first undecodable row is returned as an error; with RowSkipInvalid
// such rows are left out and the error is always nil.
func DecodeProperties(rows []Property, policy RowPolicy) (map[string]any, error) {
	props := make(map[string]any, len(rows))
	for _, row := range rows {
		v, err := row.Decode()
		if err != nil {
			if policy == RowSkipInvalid {
				continue
			}
			return nil, err
		}
		props[row.Key] = v
	}
	return props, nil
}
