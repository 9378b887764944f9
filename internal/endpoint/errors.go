package endpoint

import (
	"errors"

	mgmt "github.com/axondata/go-mgmtbridge"
	"github.com/axondata/go-mgmtbridge/internal/framework"
	"github.com/axondata/go-mgmtbridge/internal/store"
)

// Class is the transport-independent category of an endpoint error
type Class int

const (
	// ClassInternal is any failure of the runtime or the store itself
	ClassInternal Class = iota
	// ClassInvalidArgument is a caller-side failure such as a bad payload
	ClassInvalidArgument
	// ClassNotFound is a reference to a bundle or configuration that does not exist
	ClassNotFound
)

// String returns the string representation of the class
func (c Class) String() string {
	switch c {
	case ClassInvalidArgument:
		return "invalid argument"
	case ClassNotFound:
		return "not found"
	default:
		return "internal"
	}
}

// Classify reports which category err falls into
func Classify(err error) Class {
	switch {
	case mgmt.IsInvalidArgument(err),
		errors.Is(err, store.ErrInvalidPID),
		errors.Is(err, framework.ErrInvalidLocation),
		errors.Is(err, framework.ErrInvalidStartLevel):
		return ClassInvalidArgument
	case errors.Is(err, framework.ErrUnknownBundle),
		errors.Is(err, store.ErrNotFound):
		return ClassNotFound
	default:
		return ClassInternal
	}
}
