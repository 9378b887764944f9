// Package framework models the module runtime the management endpoints act
// on: bundles installed from locations, started, stopped, updated and
// uninstalled by numeric ID.
package framework

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by runtimes
var (
	// ErrUnknownBundle indicates no bundle is installed under the given ID
	ErrUnknownBundle = errors.New("framework: unknown bundle")

	// ErrInvalidLocation indicates a location that cannot be installed from
	ErrInvalidLocation = errors.New("framework: invalid location")

	// ErrSystemBundle indicates an operation that is not allowed on the system bundle
	ErrSystemBundle = errors.New("framework: operation not allowed on system bundle")

	// ErrInvalidStartLevel indicates a start level below 1
	ErrInvalidStartLevel = errors.New("framework: invalid start level")
)

// SystemBundleID is the ID of the bundle representing the runtime itself
const SystemBundleID int64 = 0

// State represents the lifecycle state of a bundle
type State int

const (
	// StateUnknown indicates the state could not be determined
	StateUnknown State = iota
	// StateInstalled indicates the bundle is installed but not resolved
	StateInstalled
	// StateResolved indicates the bundle is resolved and may be started
	StateResolved
	// StateStarting indicates the bundle is being started
	StateStarting
	// StateActive indicates the bundle is running
	StateActive
	// StateStopping indicates the bundle is being stopped
	StateStopping
	// StateUninstalled indicates the bundle has been removed
	StateUninstalled
)

// State string constants
const (
	stateUnknownStr     = "unknown"
	stateInstalledStr   = "installed"
	stateResolvedStr    = "resolved"
	stateStartingStr    = "starting"
	stateActiveStr      = "active"
	stateStoppingStr    = "stopping"
	stateUninstalledStr = "uninstalled"
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateInstalled:
		return stateInstalledStr
	case StateResolved:
		return stateResolvedStr
	case StateStarting:
		return stateStartingStr
	case StateActive:
		return stateActiveStr
	case StateStopping:
		return stateStoppingStr
	case StateUninstalled:
		return stateUninstalledStr
	default:
		return stateUnknownStr
	}
}

// Bundle is a snapshot of an installed bundle
type Bundle struct {
	// ID is the numeric bundle identifier
	ID int64
	// Location is where the bundle was installed from
	Location string
	// State is the lifecycle state at snapshot time
	State State
	// StartLevel is the bundle's start level
	StartLevel int32
	// Revision counts updates applied since install
	Revision int
}

// Runtime is the set of per-target actions the management endpoints batch over
type Runtime interface {
	// Install installs a bundle from location and returns its ID.
	// Installing an already installed location returns the existing ID.
	Install(ctx context.Context, location string) (int64, error)
	// InstallFrom installs a bundle recorded under location whose content is read from url
	InstallFrom(ctx context.Context, location, url string) (int64, error)
	// Start starts the bundle
	Start(ctx context.Context, id int64) error
	// Stop stops the bundle
	Stop(ctx context.Context, id int64) error
	// Update re-reads the bundle from its location
	Update(ctx context.Context, id int64) error
	// UpdateFrom re-reads the bundle from url
	UpdateFrom(ctx context.Context, id int64, url string) error
	// Uninstall removes the bundle
	Uninstall(ctx context.Context, id int64) error
	// SetStartLevel changes the bundle's start level
	SetStartLevel(ctx context.Context, id int64, level int32) error
	// Refresh re-resolves the given bundles, or all bundles when ids is empty
	Refresh(ctx context.Context, ids []int64) error
	// Resolve resolves the given bundles, or all bundles when ids is empty,
	// and reports whether every one of them ended up resolved
	Resolve(ctx context.Context, ids []int64) (bool, error)
	// Bundles returns a snapshot of all installed bundles ordered by ID
	Bundles(ctx context.Context) ([]Bundle, error)
}

// BundleError represents an error from a runtime operation on one bundle
type BundleError struct {
	// Op is the operation that failed
	Op string
	// ID is the bundle involved, or -1 when the operation is by location
	ID int64
	// Location is the location involved, if any
	Location string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *BundleError) Error() string {
	if e.ID < 0 {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Err)
	}
	return fmt.Sprintf("%s bundle %d: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *BundleError) Unwrap() error {
	return e.Err
}
