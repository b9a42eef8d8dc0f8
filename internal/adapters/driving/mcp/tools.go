package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// defaultSearchLimit caps search_notes results when no limit is given.
const defaultSearchLimit = 20

// SearchNotesInput is the input schema for the search_notes tool.
type SearchNotesInput struct {
	Query string `json:"query" jsonschema:"text to look for in note titles and bodies, case-insensitive; empty lists every note"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of notes to return (default 20)"`
}

// SearchNotesOutput is the output schema for the search_notes tool.
type SearchNotesOutput struct {
	Notes []NoteSummary `json:"notes"`
	Count int           `json:"count"`
	Total int           `json:"total"`
}

// NoteSummary is a note without its full body.
type NoteSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	Pinned    bool      `json:"pinned"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetNoteInput is the input schema for the get_note tool.
type GetNoteInput struct {
	ID string `json:"id" jsonschema:"the note id"`
}

// NoteOutput is a complete note.
type NoteOutput struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateNoteInput is the input schema for the create_note tool.
type CreateNoteInput struct {
	Title string `json:"title,omitempty" jsonschema:"note title (default \"New note\")"`
	Body  string `json:"body,omitempty" jsonschema:"note body"`
}

// AppendNoteInput is the input schema for the append_note tool.
type AppendNoteInput struct {
	ID   string `json:"id" jsonschema:"the note id"`
	Text string `json:"text" jsonschema:"text appended verbatim to the end of the body"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Search the user's notes. Pinned notes come first, then the most recently edited.",
	}, s.handleSearchNotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_note",
		Description: "Read a note in full",
	}, s.handleGetNote)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_note",
		Description: "Create a note",
	}, s.handleCreateNote)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "append_note",
		Description: "Append text to the end of an existing note",
	}, s.handleAppendNote)
}

func (s *Server) handleSearchNotes(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SearchNotesInput,
) (*mcp.CallToolResult, SearchNotesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	notes := s.ports.Notes.Search(input.Query)
	output := SearchNotesOutput{
		Notes: make([]NoteSummary, 0, min(limit, len(notes))),
		Total: len(notes),
	}
	for i := range notes {
		if len(output.Notes) == limit {
			break
		}
		output.Notes = append(output.Notes, NoteSummary{
			ID:        notes[i].ID,
			Title:     notes[i].DisplayTitle(),
			Preview:   notes[i].Preview(),
			Pinned:    notes[i].Pinned,
			UpdatedAt: notes[i].UpdatedAt,
		})
	}
	output.Count = len(output.Notes)

	return nil, output, nil
}

func (s *Server) handleGetNote(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetNoteInput,
) (*mcp.CallToolResult, NoteOutput, error) {
	note, err := s.ports.Notes.Get(input.ID)
	if err != nil {
		return nil, NoteOutput{}, err
	}
	return nil, toNoteOutput(note), nil
}

func (s *Server) handleCreateNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateNoteInput,
) (*mcp.CallToolResult, NoteOutput, error) {
	note, err := s.ports.Notes.CreateNote(ctx, input.Title, input.Body)
	if err != nil {
		return nil, NoteOutput{}, fmt.Errorf("creating note: %w", err)
	}
	return nil, toNoteOutput(note), nil
}

func (s *Server) handleAppendNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AppendNoteInput,
) (*mcp.CallToolResult, NoteOutput, error) {
	if input.Text == "" {
		return nil, NoteOutput{}, errors.New("text must not be empty")
	}
	note, err := s.ports.Notes.AppendTo(input.ID, input.Text)
	if err != nil {
		return nil, NoteOutput{}, err
	}
	if err := s.ports.Notes.Flush(ctx); err != nil {
		return nil, NoteOutput{}, fmt.Errorf("saving note: %w", err)
	}
	return nil, toNoteOutput(note), nil
}

func toNoteOutput(n domain.Note) NoteOutput {
	return NoteOutput{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Pinned:    n.Pinned,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
