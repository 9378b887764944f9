package mgmt

// Batch result record field names
const (
	FieldRemaining       = "Remaining"
	FieldCompleted       = "Completed"
	FieldBundleInError   = "BundleInError"
	FieldLocationInError = "LocationInError"
	FieldError           = "Error"
	FieldSuccess         = "Success"
)

// Record is a transport-neutral structured value. Lists are []any so a
// Record can be handed to structpb.NewStruct as is.
type Record map[string]any

// Record renders the result under the stable field names. errorField is
// FieldBundleInError for operations on bundle IDs and FieldLocationInError
// for operations on locations. Error is nil when the batch succeeded.
func (r BatchResult[T]) Record(errorField string) Record {
	rec := Record{
		FieldRemaining: List(r.Remaining),
		FieldCompleted: List(r.Completed),
		errorField:     any(r.ErrorTarget),
		FieldError:     nil,
		FieldSuccess:   r.Success,
	}
	if !r.Success {
		rec[FieldError] = r.ErrorDetail
	}
	return rec
}

// List converts a typed slice to a list of values; nil becomes an empty list
func List[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
