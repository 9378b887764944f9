package mgmt

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeProperties(t *testing.T) {
	rows, err := EncodeProperties(map[string]any{
		"service.ranking": int32(10),
		"objectClass":     []string{"org.example.Greeter"},
		"enabled":         true,
		"weights":         Vector{float64(0.5), float64(1)},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []Property{
		{Key: "enabled", Type: Boolean, Value: "true"},
		{Key: "objectClass", Type: ArrayOf + String, Value: `"org.example.Greeter"`},
		{Key: "service.ranking", Type: Integer, Value: "10"},
		{Key: "weights", Type: VectorOf + Double, Value: "0.5,1"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("EncodeProperties() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodePropertiesUnsupported(t *testing.T) {
	_, err := EncodeProperties(map[string]any{"bad": struct{}{}})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("EncodeProperties() error = %v, want ErrUnsupportedType", err)
	}
}

func TestEncodePropertiesEmpty(t *testing.T) {
	rows, err := EncodeProperties(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestDecodePropertiesRoundTrip(t *testing.T) {
	props := map[string]any{
		"count": int64(3),
		"name":  "greeter",
		"big":   big.NewInt(123456789),
		"ids":   []int64{1, 2, 3},
	}
	rows, err := EncodeProperties(props)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeProperties(rows, RowStrict)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(props, got, valueComparers); diff != "" {
		t.Errorf("DecodeProperties() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePropertiesPolicy(t *testing.T) {
	rows := []Property{
		{Key: "good", Type: Integer, Value: "1"},
		{Key: "bad value", Type: Integer, Value: "one"},
		{Key: "bad type", Type: "Object", Value: "1"},
		{Key: "also good", Type: String, Value: `"x"`},
	}

	t.Run("strict", func(t *testing.T) {
		_, err := DecodeProperties(rows, RowStrict)
		if !errors.Is(err, ErrDeserialization) {
			t.Errorf("DecodeProperties() error = %v, want ErrDeserialization", err)
		}
	})

	t.Run("skip invalid", func(t *testing.T) {
		got, err := DecodeProperties(rows, RowSkipInvalid)
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]any{"good": int32(1), "also good": "x"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DecodeProperties() mismatch (-want +got):\n%s", diff)
		}
	})
}
