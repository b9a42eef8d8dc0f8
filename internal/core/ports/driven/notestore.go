package driven

import (
	"context"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// NoteStore persists the note collection as a single blob under a fixed key.
//
// The store is a passive sink. It owns no notes; the session hands it a
// complete snapshot on every save and reads the whole collection on load.
type NoteStore interface {
	// Load returns the persisted collection.
	// A missing store yields an empty collection and no error.
	// A store that cannot be decoded returns an error wrapping
	// domain.ErrStoreCorrupt; callers treat it as empty.
	Load(ctx context.Context) ([]domain.Note, error)

	// Save replaces the persisted collection with notes.
	Save(ctx context.Context, notes []domain.Note) error
}

// Watchable is implemented by stores that can report modification
// by another process.
type Watchable interface {
	// Watch sends on the returned channel each time the underlying
	// store changes. The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
