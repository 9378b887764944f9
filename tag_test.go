package mgmt

import (
	"errors"
	"testing"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Tag
		wantErr bool
	}{
		{name: "boxed scalar", in: "Integer", want: ScalarTag(KindInteger)},
		{name: "string scalar", in: "String", want: ScalarTag(KindString)},
		{name: "big decimal", in: "BigDecimal", want: ScalarTag(KindBigDecimal)},
		{name: "boxed array", in: "Array of Long", want: ArrayTag(KindLong)},
		{name: "primitive array", in: "Array of char", want: ArrayTag(KindPrimitiveChar)},
		{name: "vector", in: "Vector of Double", want: VectorTag(KindDouble)},
		{name: "primitive scalar", in: "int", wantErr: true},
		{name: "primitive vector", in: "Vector of int", wantErr: true},
		{name: "nested", in: "Array of Array of int", wantErr: true},
		{name: "unknown", in: "Object", wantErr: true},
		{name: "unknown element", in: "Vector of Object", wantErr: true},
		{name: "missing space", in: "Array ofInteger", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTag(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Errorf("ParseTag(%q) error = %v, want ErrUnsupportedType", tt.in, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseTag(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagStringRoundTrip(t *testing.T) {
	for k := KindBigDecimal; k <= KindPrimitiveShort; k++ {
		for _, shape := range []Shape{ShapeScalar, ShapeArray, ShapeVector} {
			tag := Tag{Shape: shape, Elem: k}
			if !tag.Valid() {
				continue
			}
			got, err := ParseTag(tag.String())
			if err != nil {
				t.Errorf("ParseTag(%q): %v", tag.String(), err)
				continue
			}
			if got != tag {
				t.Errorf("ParseTag(%q) = %v, want %v", tag.String(), got, tag)
			}
		}
	}
}

func TestTagValid(t *testing.T) {
	if (Tag{}).Valid() {
		t.Error("zero Tag should be invalid")
	}
	if ScalarTag(KindPrimitiveInt).Valid() {
		t.Error("primitive scalar should be invalid")
	}
	if VectorTag(KindPrimitiveBoolean).Valid() {
		t.Error("primitive vector should be invalid")
	}
	if !ArrayTag(KindPrimitiveBoolean).Valid() {
		t.Error("primitive array should be valid")
	}
}

func TestTagPrefixes(t *testing.T) {
	if got := ArrayTag(KindString).String(); got != "Array of String" {
		t.Errorf("ArrayTag(String) = %q", got)
	}
	if got := VectorTag(KindBigInteger).String(); got != "Vector of BigInteger" {
		t.Errorf("VectorTag(BigInteger) = %q", got)
	}
	if got := ArrayTag(KindPrimitiveShort).String(); got != "Array of short" {
		t.Errorf("ArrayTag(short) = %q", got)
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 19 {
		t.Fatalf("Kinds() returned %d kinds, want 19", len(kinds))
	}
	boxed := 0
	for _, k := range kinds {
		if k.Boxed() {
			boxed++
		} else if !k.Primitive() {
			t.Errorf("kind %v is neither boxed nor primitive", k)
		}
	}
	if boxed != 11 {
		t.Errorf("got %d boxed kinds, want 11", boxed)
	}
}
