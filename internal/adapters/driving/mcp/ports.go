package mcp

import (
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Notes is the note session the server reads and writes.
	Notes driving.NoteService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Notes == nil {
		return ErrMissingNoteService
	}
	return nil
}
