// Package store persists configuration property tables, one CBOR file per
// configuration PID.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	mgmt "github.com/axondata/go-mgmtbridge"
)

// FileExt is the extension of configuration files
const FileExt = ".cbor"

// Common errors returned by the store
var (
	// ErrNotFound indicates no configuration exists under the PID
	ErrNotFound = errors.New("store: configuration not found")

	// ErrInvalidPID indicates a PID that cannot name a configuration file
	ErrInvalidPID = errors.New("store: invalid pid")
)

var pidPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// document is the on-disk form of one configuration
type document struct {
	PID        string          `cbor:"pid"`
	Properties []mgmt.Property `cbor:"properties"`
}

// Store is a directory of configurations with an in-memory cache
type Store struct {
	dir string
	log *zap.Logger
	enc cbor.EncMode
	dec cbor.DecMode

	mu    sync.RWMutex
	cache map[string][]mgmt.Property
}

// Open creates dir if needed and loads every configuration in it. A
// configuration file that fails to load is reported in the returned
// error but does not prevent the store from opening.
func Open(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor enc mode: %w", err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor dec mode: %w", err)
	}

	s := &Store{
		dir:   dir,
		log:   log,
		enc:   enc,
		dec:   dec,
		cache: make(map[string][]mgmt.Property),
	}
	return s, s.Reload()
}

// Dir returns the directory backing the store
func (s *Store) Dir() string {
	return s.dir
}

// Get returns a copy of the rows stored under pid
func (s *Store) Get(pid string) ([]mgmt.Property, error) {
	if err := ValidatePID(pid); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.cache[pid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, pid)
	}
	return append([]mgmt.Property(nil), rows...), nil
}

// Put atomically replaces the configuration stored under pid
func (s *Store) Put(pid string, rows []mgmt.Property) error {
	if err := ValidatePID(pid); err != nil {
		return err
	}

	rows = append([]mgmt.Property{}, rows...)
	data, err := s.enc.Marshal(document{PID: pid, Properties: rows})
	if err != nil {
		return fmt.Errorf("encode %s: %w", pid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := renameio.WriteFile(s.path(pid), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", pid, err)
	}
	s.cache[pid] = rows
	return nil
}

// Delete removes the configuration stored under pid
func (s *Store) Delete(pid string) error {
	if err := ValidatePID(pid); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[pid]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, pid)
	}
	if err := os.Remove(s.path(pid)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", pid, err)
	}
	delete(s.cache, pid)
	return nil
}

// List returns the stored PIDs in sorted order
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pids := make([]string, 0, len(s.cache))
	for pid := range s.cache {
		pids = append(pids, pid)
	}
	sort.Strings(pids)
	return pids
}

// Reload replaces the cache with the configurations found on disk.
// Files that fail to load are skipped and reported together.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read store dir: %w", err)
	}

	merr := &mgmt.MultiError{}
	cache := make(map[string][]mgmt.Property, len(entries))
	for _, entry := range entries {
		pid, ok := pidOf(entry.Name())
		if !ok || entry.IsDir() {
			continue
		}
		rows, err := s.load(pid)
		if err != nil {
			s.log.Warn("skipping configuration", zap.String("pid", pid), zap.Error(err))
			merr.Add(err)
			continue
		}
		cache[pid] = rows
	}

	s.cache = cache
	return merr.Err()
}

// refresh reloads a single PID from disk and reports whether the cached
// rows changed and whether the configuration still exists. The file is
// read under the lock so a concurrent Put is never overwritten.
func (s *Store) refresh(pid string) (changed, exists bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.load(pid)
	if errors.Is(err, fs.ErrNotExist) {
		_, had := s.cache[pid]
		delete(s.cache, pid)
		return had, false, nil
	}
	if err != nil {
		return false, false, err
	}

	old, had := s.cache[pid]
	s.cache[pid] = rows
	return !had || !equalRows(old, rows), true, nil
}

func (s *Store) load(pid string) ([]mgmt.Property, error) {
	data, err := os.ReadFile(s.path(pid))
	if err != nil {
		return nil, err
	}

	var doc document
	if err := s.dec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", pid, err)
	}
	if doc.PID != pid {
		return nil, fmt.Errorf("decode %s: file holds pid %q", pid, doc.PID)
	}
	if doc.Properties == nil {
		doc.Properties = []mgmt.Property{}
	}
	return doc.Properties, nil
}

func (s *Store) path(pid string) string {
	return filepath.Join(s.dir, pid+FileExt)
}

// ValidatePID checks that pid can name a configuration file
func ValidatePID(pid string) error {
	if !pidPattern.MatchString(pid) {
		return fmt.Errorf("%w: %q", ErrInvalidPID, pid)
	}
	return nil
}

func pidOf(name string) (string, bool) {
	pid, ok := strings.CutSuffix(name, FileExt)
	if !ok || ValidatePID(pid) != nil {
		return "", false
	}
	return pid, true
}

func equalRows(a, b []mgmt.Property) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
