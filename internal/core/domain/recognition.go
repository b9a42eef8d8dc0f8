package domain

// RecognitionEventType identifies which engine callback an event represents.
type RecognitionEventType string

// Recognition engine callbacks.
const (
	RecognitionStart  RecognitionEventType = "start"
	RecognitionEnd    RecognitionEventType = "end"
	RecognitionError  RecognitionEventType = "error"
	RecognitionResult RecognitionEventType = "result"
)

// IsValid returns true if the event type is recognised.
func (t RecognitionEventType) IsValid() bool {
	switch t {
	case RecognitionStart, RecognitionEnd, RecognitionError, RecognitionResult:
		return true
	default:
		return false
	}
}

// ResultEntry is one transcript fragment reported by the engine.
// Fragments are assumed to carry their own spacing.
type ResultEntry struct {
	Transcript string `json:"transcript" yaml:"transcript"`
	IsFinal    bool   `json:"isFinal" yaml:"final"`
}

// RecognitionEvent is a single callback from a speech recognition engine.
//
// For result events, Results holds every entry of the utterance list and
// ResultIndex is the first entry that changed since the previous event.
// For error events, Reason carries the engine-provided reason string.
type RecognitionEvent struct {
	Type        RecognitionEventType `json:"type"`
	Results     []ResultEntry        `json:"results,omitempty"`
	ResultIndex int                  `json:"resultIndex,omitempty"`
	Reason      string               `json:"error,omitempty"`
}

// Changed returns the entries from ResultIndex onwards.
// Out of range indexes are clamped.
func (e RecognitionEvent) Changed() []ResultEntry {
	i := e.ResultIndex
	if i < 0 {
		i = 0
	}
	if i > len(e.Results) {
		i = len(e.Results)
	}
	return e.Results[i:]
}
