package services

import (
	"strings"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// TranscriptMerger folds streaming recognition results into a text buffer.
//
// Final fragments are committed once and never removed. The interim guess
// injected by the previous event is stripped before the next guess is
// appended, so the buffer holds at most one provisional guess.
type TranscriptMerger struct {
	accumulatedFinal string
	lastInterim      string
}

// Reset clears the merger state. Called when a recording session starts or ends.
func (m *TranscriptMerger) Reset() {
	m.accumulatedFinal = ""
	m.lastInterim = ""
}

// AccumulatedFinal returns every final fragment committed this session.
func (m *TranscriptMerger) AccumulatedFinal() string {
	return m.accumulatedFinal
}

// LastInterim returns the provisional text injected by the latest event.
func (m *TranscriptMerger) LastInterim() string {
	return m.lastInterim
}

// Merge applies one result event to buffer and returns the new buffer.
// entries are the event's results from its resume index onward.
func (m *TranscriptMerger) Merge(buffer string, entries []domain.ResultEntry) string {
	var committed, interim strings.Builder
	for _, e := range entries {
		if e.IsFinal {
			committed.WriteString(e.Transcript)
		} else {
			interim.WriteString(e.Transcript)
		}
	}

	m.accumulatedFinal += committed.String()
	out := StripInterim(buffer, m.lastInterim) + committed.String() + interim.String()
	m.lastInterim = interim.String()
	return out
}

// Discard removes the last provisional guess from buffer and forgets it.
func (m *TranscriptMerger) Discard(buffer string) string {
	out := StripInterim(buffer, m.lastInterim)
	m.lastInterim = ""
	return out
}

// StripInterim removes interim from the end of buffer. When the buffer no
// longer ends with it, for example after the user typed during dictation,
// the most recent occurrence is removed instead.
func StripInterim(buffer, interim string) string {
	if interim == "" {
		return buffer
	}
	if strings.HasSuffix(buffer, interim) {
		return buffer[:len(buffer)-len(interim)]
	}
	if i := strings.LastIndex(buffer, interim); i >= 0 {
		return buffer[:i] + buffer[i+len(interim):]
	}
	return buffer
}
