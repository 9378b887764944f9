package mgmt

import (
	"errors"
	"testing"
)

// BenchmarkEncodeArray measures encoding of a primitive array
func BenchmarkEncodeArray(b *testing.B) {
	v := make([]int64, 64)
	for i := range v {
		v[i] = int64(i) * 1000
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Encode(v); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecodeStringVector measures decoding of a quoted string vector
func BenchmarkDecodeStringVector(b *testing.B) {
	text := MustEncode(NewVector("alpha", "beta, gamma", `delta "quoted"`, "epsilon"))
	tag := VectorTag(KindString)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Decode(text, tag); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecodeParallel measures parallel decode performance
func BenchmarkDecodeParallel(b *testing.B) {
	text := "1,2,3,4,5,6,7,8"
	tag := ArrayTag(KindPrimitiveInt)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Decode(text, tag); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkExecute measures the batch loop over successful actions
func BenchmarkExecute(b *testing.B) {
	targets := make([]int64, 256)
	for i := range targets {
		targets[i] = int64(i)
	}
	fail := errors.New("fail")
	action := func(id int64) error {
		if id == 200 {
			return fail
		}
		return nil
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = Execute(targets, action).Record(FieldBundleInError)
	}
}
