// Package tui provides an interactive terminal user interface for quill.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// Ports aggregates the interfaces the TUI depends on.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Notes is the opened note session.
	Notes driving.NoteService

	// Watcher reports edits made by other processes. Optional.
	Watcher driven.Watchable
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(notes driving.NoteService, watcher driven.Watchable) *Ports {
	return &Ports{
		Notes:   notes,
		Watcher: watcher,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Notes == nil {
		return ErrMissingNoteService
	}
	return nil
}
