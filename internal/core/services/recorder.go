package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/logger"
)

// Recorder is the dictation state machine wrapped around a TranscriptMerger.
//
// It binds each recording session to one note. After a stop request it
// discards engine events until the engine's end signal arrives, so late
// results from a stopped session never reach the next one.
//
// Recorder is not safe for concurrent use; Session serialises access.
type Recorder struct {
	engine driven.Recogniser
	merger TranscriptMerger

	state   domain.RecordingState
	message string
	noteID  string

	// draining counts stop requests whose end signal has not arrived yet.
	draining int
}

// NewRecorder creates a recorder around engine. A nil engine means
// dictation is unsupported.
func NewRecorder(engine driven.Recogniser) *Recorder {
	return &Recorder{
		engine:  engine,
		state:   domain.RecordingIdle,
		message: domain.StatusIdle,
	}
}

// Available reports whether a recognition engine is configured.
func (r *Recorder) Available() bool {
	return r.engine != nil
}

// Status returns the state and message for display.
func (r *Recorder) Status() domain.RecordingStatus {
	return domain.RecordingStatus{State: r.state, Message: r.message, NoteID: r.noteID}
}

// State returns the current state.
func (r *Recorder) State() domain.RecordingState {
	return r.state
}

// NoteID returns the note the current session is bound to.
func (r *Recorder) NoteID() string {
	return r.noteID
}

// Listening reports whether dictation is active for noteID.
func (r *Recorder) Listening(noteID string) bool {
	return r.state == domain.RecordingListening && r.noteID == noteID
}

// Accepting reports whether result events should be applied.
func (r *Recorder) Accepting() bool {
	return r.state == domain.RecordingListening && r.draining == 0
}

// Start begins dictation into noteID.
func (r *Recorder) Start(ctx context.Context, noteID string) error {
	if noteID == "" {
		r.fail(domain.ErrNoNoteSelected)
		return domain.ErrNoNoteSelected
	}
	if r.engine == nil {
		r.fail(domain.ErrSpeechUnsupported)
		return domain.ErrSpeechUnsupported
	}
	if r.state == domain.RecordingListening {
		if r.noteID == noteID {
			return nil
		}
		if err := r.Stop(); err != nil {
			logger.Debug("stop before restart: %v", err)
		}
	}

	r.merger.Reset()
	r.noteID = noteID
	if err := r.engine.Start(ctx); err != nil && !errors.Is(err, domain.ErrEngineRunning) {
		r.noteID = ""
		r.state = domain.RecordingError
		r.message = domain.ErrorStatus(err.Error()).Message
		return err
	}
	r.state = domain.RecordingListening
	r.message = domain.StatusListening
	logger.Debug("dictation started for note %s", noteID)
	return nil
}

// Stop ends dictation. It is a no-op unless listening.
func (r *Recorder) Stop() error {
	if r.state != domain.RecordingListening {
		return nil
	}
	r.toIdle()
	r.draining++
	logger.Debug("dictation stop requested")
	return r.engine.Stop()
}

// Merge applies a result event's changed entries to body.
func (r *Recorder) Merge(body string, entries []domain.ResultEntry) string {
	return r.merger.Merge(body, entries)
}

// DiscardInterim strips the last provisional guess from body.
func (r *Recorder) DiscardInterim(body string) string {
	return r.merger.Discard(body)
}

// Handle applies a lifecycle event (start, end or error).
// It reports whether the session ended as a result.
func (r *Recorder) Handle(ev domain.RecognitionEvent) bool {
	switch ev.Type {
	case domain.RecognitionStart:
		if r.state == domain.RecordingListening && r.draining == 0 {
			r.message = domain.StatusListening
		}
	case domain.RecognitionEnd:
		if r.draining > 0 {
			r.draining--
			return false
		}
		if r.state == domain.RecordingListening {
			r.toIdle()
			logger.Debug("dictation ended by engine")
			return true
		}
	case domain.RecognitionError:
		if r.draining > 0 {
			return false
		}
		reason := ev.Reason
		if reason == "" {
			reason = "unknown"
		}
		if r.state == domain.RecordingListening {
			// The failed session may keep producing results; its end
			// event is drained like any stopped session.
			r.draining++
			if err := r.engine.Stop(); err != nil {
				logger.Debug("stop after error: %v", err)
			}
		}
		r.state = domain.RecordingError
		r.message = domain.ErrorStatus(reason).Message
		r.noteID = ""
		r.merger.Reset()
		logger.Warn("dictation error: %s", reason)
		return true
	}
	return false
}

// ForceIdle abandons the session without waiting for the engine.
// Used when the bound note disappears.
func (r *Recorder) ForceIdle() error {
	if r.state != domain.RecordingListening {
		r.toIdle()
		return nil
	}
	return r.Stop()
}

func (r *Recorder) toIdle() {
	r.state = domain.RecordingIdle
	r.message = domain.StatusIdle
	r.noteID = ""
	r.merger.Reset()
}

func (r *Recorder) fail(err error) {
	if r.state == domain.RecordingListening {
		if stopErr := r.Stop(); stopErr != nil {
			logger.Debug("stop on failure: %v", stopErr)
		}
	}
	r.state = domain.RecordingError
	r.message = domain.UserMessage(err)
}
