package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// Ensure Script implements the interface.
var _ driven.Recogniser = (*Script)(nil)

// ScriptStep is one scripted engine callback.
type ScriptStep struct {
	// Delay is waited before the step is delivered.
	Delay time.Duration `yaml:"delay"`
	// Index is the resume index of a result step.
	Index int `yaml:"index"`
	// Results are the transcript entries of a result step.
	Results []domain.ResultEntry `yaml:"results"`
	// Error, when set, ends the session with this reason.
	Error string `yaml:"error"`
}

// ScriptFile is the YAML document read by LoadScript.
//
//	language: en-US
//	events:
//	  - results: [{transcript: "hello ", final: true}]
//	  - delay: 300ms
//	    results: [{transcript: "wor"}]
type ScriptFile struct {
	Language string       `yaml:"language"`
	Steps    []ScriptStep `yaml:"events"`
}

// Script is a recogniser that replays scripted events on every session.
type Script struct {
	*engine
	file ScriptFile
}

// NewScript creates a script engine from steps.
func NewScript(file ScriptFile) *Script {
	s := &Script{file: file}
	s.engine = newEngine("script", s.play)
	return s
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	file, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewScript(file), nil
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (ScriptFile, error) {
	var file ScriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ScriptFile{}, fmt.Errorf("parsing script: %w", err)
	}
	for i, step := range file.Steps {
		if step.Error == "" && len(step.Results) == 0 {
			return ScriptFile{}, fmt.Errorf("%w: step %d has neither results nor error", domain.ErrInvalidInput, i+1)
		}
		if step.Delay < 0 || step.Index < 0 {
			return ScriptFile{}, fmt.Errorf("%w: step %d has a negative delay or index", domain.ErrInvalidInput, i+1)
		}
	}
	return file, nil
}

// Language returns the script's language tag.
func (s *Script) Language() string {
	return s.file.Language
}

func (s *Script) play(ctx context.Context, emit emitFunc) error {
	for _, step := range s.file.Steps {
		if step.Delay > 0 {
			t := time.NewTimer(step.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}

		if step.Error != "" {
			return errors.New(step.Error)
		}
		ev := domain.RecognitionEvent{
			Type:        domain.RecognitionResult,
			Results:     step.Results,
			ResultIndex: step.Index,
		}
		if !emit(ev) {
			return nil
		}
	}
	return nil
}
