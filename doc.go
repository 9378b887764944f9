// Package mgmt provides the two mechanisms shared by every endpoint of a
// framework management bridge: a typed value codec for string-only tabular
// transports, and a first-failure-stops batch executor.
//
// The codec maps a closed vocabulary of Go values to self-describing
// strings and back:
//
//	tag, _ := mgmt.Classify([]int32{1, 2})   // Array of int
//	text, _ := mgmt.Encode([]int32{1, 2})    // "1,2"
//	v, _ := mgmt.Decode(text, tag)           // []int32{1, 2}
//
// Scalars are decimal.Decimal, *big.Int, bool, int8, Char, float64,
// float32, int32, int64, int16 and string. Typed slices of pointers to
// those are arrays of the boxed kinds ("Array of Integer"), typed slices of
// plain values are arrays of the primitive kinds ("Array of int"). A Vector
// is a dynamically sized sequence classified by its first element.
//
// Property tables pair each key with its tag and encoded value:
//
//	rows, _ := mgmt.EncodeProperties(map[string]any{"port": int32(8080)})
//	props, _ := mgmt.DecodeProperties(rows, mgmt.RowStrict)
//
// # Batch Operations
//
// Execute drives targets through a single-target action in order, stops
// at the first failure and reports completed, failing and remaining
// targets:
//
//	res := mgmt.Execute([]int64{1, 2, 3}, func(id int64) error {
//	    return runtime.Start(id)
//	})
//	rec := res.Record(mgmt.FieldBundleInError)
//
// Actions run strictly one after another. Remaining means "not yet
// attempted", which has no meaning under concurrent execution. Callers
// that need timeouts implement them inside the action.
package mgmt
