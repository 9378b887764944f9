package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"vawter.tech/stopper"
)

// debounce coalesces the burst of events a single atomic write produces
const debounce = 20 * time.Millisecond

// EventOp describes what happened to a configuration on disk
type EventOp int

const (
	// EventChanged indicates the configuration was created or its rows changed
	EventChanged EventOp = iota
	// EventRemoved indicates the configuration file was removed
	EventRemoved
)

// String returns the string representation of the operation
func (o EventOp) String() string {
	switch o {
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event reports an on-disk configuration change picked up by Watch
type Event struct {
	// PID is the configuration affected
	PID string
	// Op is what happened to it
	Op EventOp
	// Err is set when the change could not be loaded
	Err error
}

// CleanupFunc stops a watch and waits for it to finish
type CleanupFunc func() error

// Watch follows changes other processes make to the store directory and
// keeps the cache current. Writes made through this Store are already
// cached and produce no event. The channel is closed after cleanup or
// when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan Event, CleanupFunc, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, nil, err
	}

	ch := make(chan Event, 16)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	send := func(sctx *stopper.Context, ev Event) {
		select {
		case ch <- ev:
		case <-sctx.Stopping():
		}
	}

	flush := func(sctx *stopper.Context, pending map[string]struct{}) {
		for pid := range pending {
			delete(pending, pid)
			changed, exists, err := s.refresh(pid)
			switch {
			case err != nil:
				s.log.Warn("reload configuration failed", zap.String("pid", pid), zap.Error(err))
				send(sctx, Event{PID: pid, Op: EventChanged, Err: err})
			case !changed:
			case exists:
				s.log.Debug("configuration changed on disk", zap.String("pid", pid))
				send(sctx, Event{PID: pid, Op: EventChanged})
			default:
				s.log.Debug("configuration removed on disk", zap.String("pid", pid))
				send(sctx, Event{PID: pid, Op: EventRemoved})
			}
		}
	}

	sctx.Go(func(sctx *stopper.Context) error {
		pending := make(map[string]struct{})
		timer := time.NewTimer(debounce)
		timer.Stop()
		sctx.Defer(func() { timer.Stop() })

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				pid, ok := pidOf(filepath.Base(event.Name))
				if !ok {
					continue
				}
				pending[pid] = struct{}{}
				timer.Reset(debounce)

			case <-timer.C:
				flush(sctx, pending)

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					send(sctx, Event{Err: err})
				}
			}
		}
		return nil
	})

	return ch, cleanup, nil
}
