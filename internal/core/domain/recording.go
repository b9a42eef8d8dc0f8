package domain

// RecordingState is the dictation session state.
type RecordingState int

// Recording states.
const (
	RecordingIdle RecordingState = iota
	RecordingListening
	RecordingError
)

// String returns the string representation.
func (s RecordingState) String() string {
	switch s {
	case RecordingIdle:
		return "idle"
	case RecordingListening:
		return "listening"
	case RecordingError:
		return "error"
	default:
		return unknownDescription
	}
}

// Status messages shown alongside the recording state.
const (
	StatusIdle      = "Idle"
	StatusListening = "Listening…"
)

// RecordingStatus is what the user sees next to the record control.
type RecordingStatus struct {
	State   RecordingState
	Message string
	// NoteID is the note dictation is bound to. Empty when idle.
	NoteID string
}

// IdleStatus returns the resting status.
func IdleStatus() RecordingStatus {
	return RecordingStatus{State: RecordingIdle, Message: StatusIdle}
}

// ErrorStatus returns an error status with the given reason.
func ErrorStatus(reason string) RecordingStatus {
	return RecordingStatus{State: RecordingError, Message: "Error: " + reason}
}
