package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoNoteSelected indicates an operation needs a selected note.
	ErrNoNoteSelected = errors.New("no note selected")

	// ErrSpeechUnsupported indicates no recognition engine is configured.
	ErrSpeechUnsupported = errors.New("speech recognition unsupported")

	// ErrStoreCorrupt indicates the persisted collection could not be decoded.
	// The session recovers by starting from an empty collection.
	ErrStoreCorrupt = errors.New("note store corrupt")

	// ErrSessionClosed indicates the session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrEngineRunning indicates the recognition engine is already started.
	// Engines suppress it; it never reaches the user.
	ErrEngineRunning = errors.New("recognition engine already running")
)

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoNoteSelected):
		return "Select a note first"
	case errors.Is(err, ErrSpeechUnsupported):
		return "Speech not supported"
	case errors.Is(err, ErrNotFound):
		return "Note not found"
	case errors.Is(err, ErrSessionClosed):
		return "Session closed"
	default:
		return err.Error()
	}
}
