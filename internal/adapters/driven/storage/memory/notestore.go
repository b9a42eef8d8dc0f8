package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// Ensure NoteStore implements the interfaces.
var (
	_ driven.NoteStore = (*NoteStore)(nil)
	_ driven.Watchable = (*NoteStore)(nil)
)

// NoteStore is an in-memory implementation of driven.NoteStore.
// Several sessions can share one store and watch each other's saves.
type NoteStore struct {
	mu       sync.Mutex
	notes    []domain.Note
	saves    int
	loadErr  error
	saveErr  error
	watchers map[chan struct{}]struct{}
}

// NewNoteStore creates a store holding a copy of notes.
func NewNoteStore(notes ...domain.Note) *NoteStore {
	return &NoteStore{
		notes:    append([]domain.Note{}, notes...),
		watchers: make(map[chan struct{}]struct{}),
	}
}

// Load returns a copy of the stored collection.
func (s *NoteStore) Load(_ context.Context) ([]domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.Note{}, s.notes...), nil
}

// Save replaces the stored collection with a copy of notes.
func (s *NoteStore) Save(_ context.Context, notes []domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	s.notes = append([]domain.Note{}, notes...)
	s.saves++
	for ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Watch notifies on every successful Save until ctx is cancelled.
func (s *NoteStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	out := make(chan struct{})
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.watchers, ch)
			s.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Saves returns the number of successful saves.
func (s *NoteStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Snapshot returns what the store currently holds.
func (s *NoteStore) Snapshot() []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Note{}, s.notes...)
}

// FailLoad makes subsequent loads return err. Pass nil to recover.
func (s *NoteStore) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSave makes subsequent saves return err. Pass nil to recover.
func (s *NoteStore) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
