package mgmt

import (
	"errors"
	"fmt"
)

// Common errors returned by codec and batch operations
var (
	// ErrUnsupportedType indicates a value or type tag outside the supported vocabulary
	ErrUnsupportedType = errors.New("mgmt: unsupported type")

	// ErrDeserialization indicates a well-formed tag with a malformed textual payload
	ErrDeserialization = errors.New("mgmt: deserialization")

	// ErrPrecondition indicates a caller bug such as mismatched paired inputs
	ErrPrecondition = errors.New("mgmt: precondition violated")
)

// CodecOp identifies the codec operation that produced an error
type CodecOp int

const (
	// OpClassify is type classification of a runtime value
	OpClassify CodecOp = iota
	// OpEncode is serialization of a value to text
	OpEncode
	// OpDecode is deserialization of text to a value
	OpDecode
	// OpParseTag is parsing a type tag string
	OpParseTag
)

// CodecOp string constants
const (
	opClassifyStr = "classify"
	opEncodeStr   = "encode"
	opDecodeStr   = "decode"
	opParseTagStr = "parse tag"
)

// String returns the string representation of the operation
func (o CodecOp) String() string {
	switch o {
	case OpClassify:
		return opClassifyStr
	case OpEncode:
		return opEncodeStr
	case OpDecode:
		return opDecodeStr
	case OpParseTag:
		return opParseTagStr
	default:
		return "unknown"
	}
}

// CodecError represents an error from a codec operation
type CodecError struct {
	// Op is the operation that failed
	Op CodecOp
	// Tag is the type tag involved, if known
	Tag string
	// Text is the offending payload or a description of the offending value
	Text string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *CodecError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("mgmt %s %q: %v", e.Op, e.Text, e.Err)
	}
	return fmt.Sprintf("mgmt %s %q as %s: %v", e.Op, e.Text, e.Tag, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *CodecError) Unwrap() error {
	return e.Err
}

// IsInvalidArgument reports whether err is a caller-side failure: an
// unsupported type, a malformed payload or a violated precondition.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrDeserialization) ||
		errors.Is(err, ErrPrecondition)
}

// MultiError aggregates multiple independent errors
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
