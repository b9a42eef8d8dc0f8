package driven

import (
	"context"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// Recogniser is a continuous speech-to-text engine with interim results.
//
// Engines report their lifecycle through Events: a start event once
// listening begins, result events as speech is transcribed, an error event
// on failure and an end event when the session finishes for any reason.
type Recogniser interface {
	// Start begins a recognition session.
	// Calling Start while a session is running is a no-op.
	Start(ctx context.Context) error

	// Stop ends the current session. The engine emits an end event
	// once it has stopped. Stop on an idle engine is a no-op.
	Stop() error

	// Events returns the channel on which the engine delivers events.
	// The same channel is returned for the lifetime of the engine.
	Events() <-chan domain.RecognitionEvent

	// Close stops any session and releases resources.
	Close() error
}
