package domain

import "time"

const unknownDescription = "Unknown"

// StorageBackend selects where the note collection is persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageJSON keeps the collection in a single JSON file.
	StorageJSON StorageBackend = "json"

	// StorageSQLite keeps the collection in a SQLite key/value table.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps the collection in process memory only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageJSON, StorageSQLite, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageJSON:
		return "JSON file"
	case StorageSQLite:
		return "SQLite database"
	case StorageMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// SpeechEngine selects the recognition engine used for dictation.
type SpeechEngine string

// Available speech engines.
const (
	// SpeechNone disables dictation.
	SpeechNone SpeechEngine = "none"

	// SpeechScript replays a YAML transcript script.
	SpeechScript SpeechEngine = "script"

	// SpeechCommand runs an external recogniser that prints JSON events.
	SpeechCommand SpeechEngine = "command"
)

// IsValid returns true if the engine is recognised.
func (e SpeechEngine) IsValid() bool {
	switch e {
	case SpeechNone, SpeechScript, SpeechCommand:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (e SpeechEngine) String() string {
	return string(e)
}

// Description returns a human-readable description of the engine.
func (e SpeechEngine) Description() string {
	switch e {
	case SpeechNone:
		return "None (dictation disabled)"
	case SpeechScript:
		return "Transcript script"
	case SpeechCommand:
		return "External recogniser"
	default:
		return unknownDescription
	}
}

// StorageSettings configures note persistence.
type StorageSettings struct {
	Backend StorageBackend
	// DataDir holds the note store. Empty means the default under the config dir.
	DataDir string
}

// EditorSettings configures editing behaviour.
type EditorSettings struct {
	// SaveDelay is the debounce window for coalescing edits into one write.
	SaveDelay time.Duration
}

// DictationSettings configures the speech recognition engine.
type DictationSettings struct {
	Engine   SpeechEngine
	Language string
	// Command is the argv of an external recogniser.
	Command []string
	// Script is the path of a YAML transcript script.
	Script string
	// DiscardInterimOnStop drops the provisional guess when dictation stops.
	DiscardInterimOnStop bool
}

// IsConfigured returns true if the engine has what it needs to start.
func (d DictationSettings) IsConfigured() bool {
	switch d.Engine {
	case SpeechScript:
		return d.Script != ""
	case SpeechCommand:
		return len(d.Command) > 0
	default:
		return false
	}
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Storage   StorageSettings
	Editor    EditorSettings
	Dictation DictationSettings
}

// DefaultSaveDelay is the default debounce window for saves.
const DefaultSaveDelay = 250 * time.Millisecond

// DefaultLanguage is the default recognition language tag.
const DefaultLanguage = "en-US"

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend: StorageJSON,
		},
		Editor: EditorSettings{
			SaveDelay: DefaultSaveDelay,
		},
		Dictation: DictationSettings{
			Engine:   SpeechNone,
			Language: DefaultLanguage,
		},
	}
}
