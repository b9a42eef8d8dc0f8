// Package jsonfile provides a driven.NoteStore that keeps the note
// collection in a single JSON file, written atomically.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/quill/internal/adapters/driven/atomicfile"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.NoteStore = (*Store)(nil)
	_ driven.Watchable = (*Store)(nil)
)

// FileName is the collection file inside the data directory.
const FileName = domain.StorageKey + ".json"

// watchSettle coalesces the burst of events one atomic write produces.
const watchSettle = 50 * time.Millisecond

// Store keeps the note collection in <dataDir>/notes_app_v1.json.
type Store struct {
	path string

	mu          sync.Mutex
	lastWritten []byte
}

// NewStore creates a store in dataDir, creating the directory if needed.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, FileName)}, nil
}

// Path returns the collection file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the collection. A missing file is an empty collection.
func (s *Store) Load(_ context.Context) ([]domain.Note, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.lastWritten = data
	s.mu.Unlock()

	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Note{}, nil
	}
	var notes []domain.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("decoding %s: %w: %v", s.path, domain.ErrStoreCorrupt, err)
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	return notes, nil
}

// Save replaces the collection file.
func (s *Store) Save(_ context.Context, notes []domain.Note) error {
	if notes == nil {
		notes = []domain.Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding notes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicfile.Write(s.path, data, 0600); err != nil {
		return err
	}
	s.lastWritten = data
	return nil
}

// Watch reports changes to the collection file made by other processes.
// Writes made through this Store are not reported.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// The directory is watched because atomic writes replace the file.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	out := make(chan struct{}, 1)
	go s.watchLoop(ctx, watcher, out)
	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer watcher.Close()

	settle := time.NewTimer(watchSettle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) || atomicfile.IsTemp(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				settle.Reset(watchSettle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watching %s: %v", s.path, err)
		case <-settle.C:
			if !s.changedExternally() {
				continue
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// changedExternally reports whether the file differs from what this
// store last read or wrote.
func (s *Store) changedExternally() bool {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(data, s.lastWritten) {
		return false
	}
	s.lastWritten = data
	return true
}
