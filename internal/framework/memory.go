package framework

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

const systemBundleLocation = "System Bundle"

// Memory is an in-process Runtime. Bundle content is never fetched; a
// location is installable when it parses as an absolute URL.
type Memory struct {
	// InitialStartLevel is given to newly installed bundles
	InitialStartLevel int32

	mu      sync.Mutex
	nextID  int64
	bundles map[int64]*Bundle
	byLoc   map[string]int64
}

// MemoryOption configures a Memory runtime
type MemoryOption func(*Memory)

// WithInitialStartLevel sets the start level given to newly installed bundles
func WithInitialStartLevel(level int32) MemoryOption {
	return func(m *Memory) {
		m.InitialStartLevel = level
	}
}

// NewMemory creates a runtime holding only the active system bundle
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		InitialStartLevel: 1,
		nextID:            SystemBundleID + 1,
		bundles:           make(map[int64]*Bundle),
		byLoc:             make(map[string]int64),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.InitialStartLevel < 1 {
		m.InitialStartLevel = 1
	}

	m.bundles[SystemBundleID] = &Bundle{
		ID:         SystemBundleID,
		Location:   systemBundleLocation,
		State:      StateActive,
		StartLevel: 0,
	}
	m.byLoc[systemBundleLocation] = SystemBundleID
	return m
}

// Install installs a bundle from location
func (m *Memory) Install(ctx context.Context, location string) (int64, error) {
	return m.install(ctx, "install", location, location)
}

// InstallFrom installs a bundle recorded under location with content from url
func (m *Memory) InstallFrom(ctx context.Context, location, url string) (int64, error) {
	return m.install(ctx, "install", location, url)
}

func (m *Memory) install(ctx context.Context, op, location, source string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := checkLocation(location); err != nil {
		return 0, &BundleError{Op: op, ID: -1, Location: location, Err: err}
	}
	if err := checkLocation(source); err != nil {
		return 0, &BundleError{Op: op, ID: -1, Location: source, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byLoc[location]; ok {
		return id, nil
	}

	id := m.nextID
	m.nextID++
	m.bundles[id] = &Bundle{
		ID:         id,
		Location:   location,
		State:      StateInstalled,
		StartLevel: m.InitialStartLevel,
	}
	m.byLoc[location] = id
	return id, nil
}

// Start resolves the bundle if needed and makes it active
func (m *Memory) Start(ctx context.Context, id int64) error {
	return m.with(ctx, "start", id, func(b *Bundle) error {
		b.State = StateActive
		return nil
	})
}

// Stop makes an active bundle resolved
func (m *Memory) Stop(ctx context.Context, id int64) error {
	return m.with(ctx, "stop", id, func(b *Bundle) error {
		if b.ID == SystemBundleID {
			return ErrSystemBundle
		}
		if b.State == StateActive {
			b.State = StateResolved
		}
		return nil
	})
}

// Update bumps the bundle revision, keeping its state
func (m *Memory) Update(ctx context.Context, id int64) error {
	return m.with(ctx, "update", id, func(b *Bundle) error {
		if b.ID == SystemBundleID {
			return ErrSystemBundle
		}
		b.Revision++
		return nil
	})
}

// UpdateFrom bumps the bundle revision after checking url
func (m *Memory) UpdateFrom(ctx context.Context, id int64, url string) error {
	return m.with(ctx, "update", id, func(b *Bundle) error {
		if b.ID == SystemBundleID {
			return ErrSystemBundle
		}
		if err := checkLocation(url); err != nil {
			return err
		}
		b.Revision++
		return nil
	})
}

// Uninstall removes the bundle
func (m *Memory) Uninstall(ctx context.Context, id int64) error {
	return m.with(ctx, "uninstall", id, func(b *Bundle) error {
		if b.ID == SystemBundleID {
			return ErrSystemBundle
		}
		b.State = StateUninstalled
		delete(m.bundles, b.ID)
		delete(m.byLoc, b.Location)
		return nil
	})
}

// SetStartLevel changes the bundle's start level
func (m *Memory) SetStartLevel(ctx context.Context, id int64, level int32) error {
	return m.with(ctx, "set start level", id, func(b *Bundle) error {
		if b.ID == SystemBundleID {
			return ErrSystemBundle
		}
		if level < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidStartLevel, level)
		}
		b.StartLevel = level
		return nil
	})
}

// Refresh re-resolves the given bundles, or all bundles when ids is empty
func (m *Memory) Refresh(ctx context.Context, ids []int64) error {
	_, err := m.resolve(ctx, "refresh", ids)
	return err
}

// Resolve resolves the given bundles, or all bundles when ids is empty
func (m *Memory) Resolve(ctx context.Context, ids []int64) (bool, error) {
	return m.resolve(ctx, "resolve", ids)
}

func (m *Memory) resolve(ctx context.Context, op string, ids []int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	targets := make([]*Bundle, 0, len(ids))
	if len(ids) == 0 {
		for _, b := range m.bundles {
			targets = append(targets, b)
		}
	}
	for _, id := range ids {
		b, ok := m.bundles[id]
		if !ok {
			return false, &BundleError{Op: op, ID: id, Err: ErrUnknownBundle}
		}
		targets = append(targets, b)
	}

	for _, b := range targets {
		if b.State == StateInstalled {
			b.State = StateResolved
		}
	}
	return true, nil
}

// Bundles returns a snapshot of all installed bundles ordered by ID
func (m *Memory) Bundles(ctx context.Context) ([]Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Bundle, 0, len(m.bundles))
	for _, b := range m.bundles {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) with(ctx context.Context, op string, id int64, fn func(*Bundle) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bundles[id]
	if !ok {
		return &BundleError{Op: op, ID: id, Err: ErrUnknownBundle}
	}
	if err := fn(b); err != nil {
		return &BundleError{Op: op, ID: id, Err: err}
	}
	return nil
}

func checkLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidLocation)
	}
	u, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if u.Scheme == "" || (u.Opaque == "" && u.Path == "" && u.Host == "") {
		return fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidLocation, location)
	}
	return nil
}

var _ Runtime = (*Memory)(nil)
