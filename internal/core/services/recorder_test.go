package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
)

func TestRecorder_StartWithoutNote(t *testing.T) {
	r := NewRecorder(newMockRecogniser())

	err := r.Start(context.Background(), "")

	require.ErrorIs(t, err, domain.ErrNoNoteSelected)
	assert.Equal(t, domain.RecordingError, r.State())
	assert.Equal(t, "Select a note first", r.Status().Message)
}

func TestRecorder_StartWithoutEngine(t *testing.T) {
	r := NewRecorder(nil)

	err := r.Start(context.Background(), "n1")

	require.ErrorIs(t, err, domain.ErrSpeechUnsupported)
	assert.False(t, r.Available())
	assert.Equal(t, "Speech not supported", r.Status().Message)
}

func TestRecorder_Lifecycle(t *testing.T) {
	engine := newMockRecogniser()
	r := NewRecorder(engine)

	require.NoError(t, r.Start(context.Background(), "n1"))
	assert.True(t, r.Listening("n1"))
	assert.True(t, r.Accepting())
	assert.Equal(t, domain.StatusListening, r.Status().Message)
	assert.Equal(t, "n1", r.Status().NoteID)

	// Starting again for the same note is a no-op.
	require.NoError(t, r.Start(context.Background(), "n1"))
	starts, _ := engine.counts()
	assert.Equal(t, 1, starts)

	ended := r.Handle(evEnd)
	assert.True(t, ended)
	assert.Equal(t, domain.RecordingIdle, r.State())
	assert.Empty(t, r.NoteID())
	assert.Equal(t, domain.StatusIdle, r.Status().Message)
}

func TestRecorder_StopDrainsLateEvents(t *testing.T) {
	engine := newMockRecogniser()
	r := NewRecorder(engine)
	require.NoError(t, r.Start(context.Background(), "n1"))

	require.NoError(t, r.Stop())
	assert.Equal(t, domain.RecordingIdle, r.State())
	_, stops := engine.counts()
	assert.Equal(t, 1, stops)

	// Restart before the old session's end arrives.
	require.NoError(t, r.Start(context.Background(), "n2"))
	assert.False(t, r.Accepting(), "late events of the stopped session are discarded")

	// An error from the stopped session is ignored.
	assert.False(t, r.Handle(domain.RecognitionEvent{Type: domain.RecognitionError, Reason: "aborted"}))
	assert.Equal(t, domain.RecordingListening, r.State())

	// The old end only drains.
	assert.False(t, r.Handle(evEnd))
	assert.True(t, r.Accepting())
	assert.True(t, r.Listening("n2"))
}

func TestRecorder_SwitchNoteStopsFirst(t *testing.T) {
	engine := newMockRecogniser()
	r := NewRecorder(engine)
	require.NoError(t, r.Start(context.Background(), "n1"))

	require.NoError(t, r.Start(context.Background(), "n2"))

	starts, stops := engine.counts()
	assert.Equal(t, 2, starts)
	assert.Equal(t, 1, stops)
	assert.True(t, r.Listening("n2"))
}

func TestRecorder_EngineError(t *testing.T) {
	engine := newMockRecogniser()
	r := NewRecorder(engine)
	require.NoError(t, r.Start(context.Background(), "n1"))

	assert.True(t, r.Handle(domain.RecognitionEvent{Type: domain.RecognitionError, Reason: "network"}))
	assert.Equal(t, domain.RecordingError, r.State())
	assert.Equal(t, "Error: network", r.Status().Message)
	assert.False(t, r.Accepting())
	assert.Empty(t, r.NoteID())
	_, stops := engine.counts()
	assert.Equal(t, 1, stops, "the failed session is stopped")

	// The engine's end after an error keeps the error visible.
	r.Handle(evEnd)
	assert.Equal(t, domain.RecordingError, r.State())

	// A new start recovers.
	require.NoError(t, r.Start(context.Background(), "n1"))
	assert.Equal(t, domain.RecordingListening, r.State())
}

func TestRecorder_ErrorDrainsFailedSession(t *testing.T) {
	engine := newMockRecogniser()
	r := NewRecorder(engine)
	require.NoError(t, r.Start(context.Background(), "n1"))
	r.Handle(domain.RecognitionEvent{Type: domain.RecognitionError, Reason: "no-speech"})

	// Repeated errors from the same session are not reported twice.
	assert.False(t, r.Handle(domain.RecognitionEvent{Type: domain.RecognitionError, Reason: "again"}))
	assert.Equal(t, "Error: no-speech", r.Status().Message)

	require.NoError(t, r.Start(context.Background(), "n2"))
	assert.True(t, r.Listening("n2"))
	assert.False(t, r.Accepting(), "old session has not ended yet")

	r.Handle(evEnd)
	assert.True(t, r.Accepting())
	assert.True(t, r.Listening("n2"))
	starts, _ := engine.counts()
	assert.Equal(t, 2, starts)
}

func TestRecorder_ErrorWithoutReason(t *testing.T) {
	r := NewRecorder(newMockRecogniser())
	require.NoError(t, r.Start(context.Background(), "n1"))

	r.Handle(domain.RecognitionEvent{Type: domain.RecognitionError})

	assert.Equal(t, "Error: unknown", r.Status().Message)
}

func TestRecorder_EngineStartFailure(t *testing.T) {
	engine := newMockRecogniser()
	engine.startErr = errors.New("microphone busy")
	r := NewRecorder(engine)

	err := r.Start(context.Background(), "n1")

	require.Error(t, err)
	assert.Equal(t, domain.RecordingError, r.State())
	assert.Equal(t, "Error: microphone busy", r.Status().Message)
	assert.Empty(t, r.NoteID())
}

func TestRecorder_EngineAlreadyRunningIsIgnored(t *testing.T) {
	engine := newMockRecogniser()
	engine.startErr = domain.ErrEngineRunning
	r := NewRecorder(engine)

	require.NoError(t, r.Start(context.Background(), "n1"))
	assert.True(t, r.Listening("n1"))
}

func TestRecorder_ForceIdle(t *testing.T) {
	engine := newMockRecogniser()
	r := NewRecorder(engine)
	require.NoError(t, r.Start(context.Background(), "n1"))

	require.NoError(t, r.ForceIdle())

	assert.Equal(t, domain.RecordingIdle, r.State())
	_, stops := engine.counts()
	assert.Equal(t, 1, stops)
}

func TestRecordingState_String(t *testing.T) {
	tests := []struct {
		state domain.RecordingState
		want  string
	}{
		{domain.RecordingIdle, "idle"},
		{domain.RecordingListening, "listening"},
		{domain.RecordingError, "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
