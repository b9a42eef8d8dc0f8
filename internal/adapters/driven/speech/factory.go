package speech

import (
	"fmt"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// New creates the engine selected by settings.
// It returns nil and no error when dictation is disabled.
func New(settings domain.DictationSettings) (driven.Recogniser, error) {
	switch settings.Engine {
	case domain.SpeechNone, "":
		return nil, nil
	case domain.SpeechScript:
		if settings.Script == "" {
			return nil, fmt.Errorf("%w: dictation.script is not set", domain.ErrInvalidInput)
		}
		script, err := LoadScript(settings.Script)
		if err != nil {
			return nil, err
		}
		return script, nil
	case domain.SpeechCommand:
		cmd, err := NewCommand(settings.Command, settings.Language)
		if err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("%w: dictation engine %q", domain.ErrInvalidInput, settings.Engine)
	}
}
