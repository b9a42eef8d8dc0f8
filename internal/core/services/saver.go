package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/logger"
)

// saveFailureInterval limits how often repeated store failures are reported.
const saveFailureInterval = 30 * time.Second

// Saver is a coalescing write queue in front of a NoteStore.
//
// Schedule replaces the pending snapshot and restarts the delay, so a burst
// of edits becomes one write of the latest state. Writes never overlap.
//
// Every snapshot carries the version of the collection it was taken from.
// A snapshot older than one already written or pending is never written.
type Saver struct {
	store driven.NoteStore
	delay time.Duration

	mu      sync.Mutex
	pending    []domain.Note
	pendingVer uint64
	dirty      bool
	written    uint64
	timer   *time.Timer
	closed  bool

	// writeMu serialises writes to the store.
	writeMu sync.Mutex
	warn    rate.Sometimes
}

// NewSaver creates a saver that waits delay after the last Schedule call
// before writing.
func NewSaver(store driven.NoteStore, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = domain.DefaultSaveDelay
	}
	return &Saver{
		store: store,
		delay: delay,
		warn:  rate.Sometimes{First: 1, Interval: saveFailureInterval},
	}
}

// Delay returns the debounce window.
func (s *Saver) Delay() time.Duration {
	return s.delay
}

// Schedule queues notes at version to be written once the delay elapses
// without another call. The caller must not modify notes afterwards.
func (s *Saver) Schedule(version uint64, notes []domain.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || version <= s.written || (s.dirty && version < s.pendingVer) {
		return
	}
	s.pending = notes
	s.pendingVer = version
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		_ = s.Flush(context.Background())
	})
}

// Pending reports whether a scheduled write has not happened yet.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush writes the pending snapshot now, if there is one.
func (s *Saver) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	version, notes := s.take()
	s.mu.Unlock()

	return s.write(ctx, version, notes)
}

// SaveNow writes notes at version immediately, replacing any older pending
// snapshot. When a newer snapshot is pending it is written instead.
func (s *Saver) SaveNow(ctx context.Context, version uint64, notes []domain.Note) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.dirty {
		if s.pendingVer > version {
			version, notes = s.take()
		} else {
			s.take()
		}
	}
	stale := version <= s.written
	s.mu.Unlock()

	if stale {
		logger.Debug("skipping save of version %d", version)
		return nil
	}
	return s.write(ctx, version, notes)
}

// Close flushes any pending snapshot and rejects later schedules.
func (s *Saver) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

// take clears the pending state and returns the snapshot. Caller holds mu.
func (s *Saver) take() (uint64, []domain.Note) {
	version, notes := s.pendingVer, s.pending
	s.pending = nil
	s.dirty = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return version, notes
}

func (s *Saver) write(ctx context.Context, version uint64, notes []domain.Note) error {
	if notes == nil {
		notes = []domain.Note{}
	}
	if err := s.store.Save(ctx, notes); err != nil {
		logger.Debug("save %d notes: %v", len(notes), err)
		s.warn.Do(func() {
			logger.Error("notes could not be saved: %v", err)
		})
		return fmt.Errorf("save notes: %w", err)
	}
	s.mu.Lock()
	if version > s.written {
		s.written = version
	}
	s.mu.Unlock()
	logger.Debug("saved %d notes", len(notes))
	return nil
}
