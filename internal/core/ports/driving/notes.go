package driving

import (
	"context"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// NoteService is the interactive note session: the collection, the
// selection, the search query and dictation into the selected note.
type NoteService interface {
	// Open loads the collection and selects the first visible note.
	Open(ctx context.Context) error

	// Close stops dictation and flushes pending writes.
	Close(ctx context.Context) error

	// Reload re-reads the collection from the store, keeping the
	// selection when the selected note still exists.
	Reload(ctx context.Context) error

	// Notes returns a copy of the collection in storage order.
	Notes() []domain.Note

	// Visible returns the projection for the current search query.
	Visible() []domain.Note

	// Search returns the projection for query without changing the session query.
	Search(query string) []domain.Note

	// SetQuery changes the current search query.
	SetQuery(query string)

	// Query returns the current search query.
	Query() string

	// Get returns the note with the given id.
	Get(id string) (domain.Note, error)

	// Create adds a new note, selects it and saves immediately.
	Create(ctx context.Context) (domain.Note, error)

	// CreateNote adds a note with the given title and body and saves
	// immediately without touching the selection.
	CreateNote(ctx context.Context, title, body string) (domain.Note, error)

	// AppendTo appends text to note id without touching the selection
	// and returns the updated note.
	AppendTo(id, text string) (domain.Note, error)

	// Select makes id the selected note, stopping dictation first.
	Select(id string) error

	// Deselect clears the selection, stopping dictation first.
	Deselect()

	// Selected returns the selected note, if any.
	Selected() (domain.Note, bool)

	// SetTitle replaces the selected note's title and schedules a save.
	SetTitle(title string) error

	// SetBody replaces the selected note's body and schedules a save.
	SetBody(body string) error

	// AppendBody appends text to the selected note's body and schedules a save.
	AppendBody(text string) error

	// TogglePin flips the selected note's pin state and saves immediately.
	TogglePin(ctx context.Context) (bool, error)

	// Delete removes the selected note, clears the selection and saves immediately.
	Delete(ctx context.Context) error

	// StartRecording starts dictation into the selected note.
	StartRecording(ctx context.Context) error

	// StopRecording requests the engine to stop.
	StopRecording() error

	// ToggleRecording starts or stops dictation.
	ToggleRecording(ctx context.Context) error

	// HandleRecognition applies one engine event to the session.
	HandleRecognition(ev domain.RecognitionEvent)

	// RecordingStatus returns the dictation status for display.
	RecordingStatus() domain.RecordingStatus

	// RecognitionEvents returns the engine's event channel, or nil when
	// dictation is unsupported.
	RecognitionEvents() <-chan domain.RecognitionEvent

	// Flush writes any pending debounced save.
	Flush(ctx context.Context) error
}
