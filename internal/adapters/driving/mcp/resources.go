package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// uriScheme is the custom URI scheme for quill resources.
const uriScheme = "quill://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "notes",
		Name:        "notes",
		Description: "All notes, pinned first then most recently edited",
		MIMEType:    "application/json",
	}, s.handleNotesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "notes/{noteId}",
		Name:        "note-body",
		Description: "Body of a specific note",
		MIMEType:    "text/plain",
	}, s.handleNoteResource)
}

// handleNotesResource returns the projected note list.
func (s *Server) handleNotesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	notes := s.ports.Notes.Search("")

	type noteInfo struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Pinned bool   `json:"pinned"`
		URI    string `json:"uri"`
	}

	infos := make([]noteInfo, len(notes))
	for i := range notes {
		infos[i] = noteInfo{
			ID:     notes[i].ID,
			Title:  notes[i].DisplayTitle(),
			Pinned: notes[i].Pinned,
			URI:    uriScheme + "notes/" + notes[i].ID,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling notes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleNoteResource returns the body of one note.
func (s *Server) handleNoteResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractNoteID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	note, err := s.ports.Notes.Get(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting note: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     note.Body,
		}},
	}, nil
}

// extractNoteID extracts the note ID from a URI like quill://notes/{noteId}.
func extractNoteID(uri string) string {
	const prefix = uriScheme + "notes/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
