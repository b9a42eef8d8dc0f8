// Package editor provides the note editing pane for the TUI.
package editor

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quill/internal/core/domain"
)

// dateLayout formats the "Last edited:" line.
const dateLayout = "2006-01-02 15:04"

// Field identifies an editable field.
type Field int

const (
	// FieldNone means neither field has focus.
	FieldNone Field = iota
	// FieldTitle is the title input.
	FieldTitle
	// FieldBody is the body textarea.
	FieldBody
)

// Change reports which fields an update modified.
type Change struct {
	Title bool
	Body  bool
}

// Editor shows the selected note with a title input and a body textarea.
type Editor struct {
	title textinput.Model
	body  textarea.Model

	styles    *styles.Styles
	noteID    string
	pinned    bool
	updatedAt time.Time
	recording bool
	width     int
	height    int
}

// New creates an empty editor.
func New(s *styles.Styles) *Editor {
	if s == nil {
		s = styles.DefaultStyles()
	}

	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""
	title.CharLimit = 200

	body := textarea.New()
	body.Placeholder = "Start typing…"
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.MaxHeight = 0
	body.Prompt = ""

	e := &Editor{
		title:  title,
		body:   body,
		styles: s,
	}
	e.SetDimensions(60, 20)
	return e
}

// Init initialises the editor.
func (e *Editor) Init() tea.Cmd {
	return textarea.Blink
}

// Update forwards input to the focused field and reports what changed.
func (e *Editor) Update(msg tea.Msg) (*Editor, tea.Cmd, Change) {
	var change Change
	if e.noteID == "" {
		return e, nil, change
	}

	var cmd tea.Cmd
	switch {
	case e.title.Focused():
		before := e.title.Value()
		e.title, cmd = e.title.Update(msg)
		change.Title = e.title.Value() != before
	case e.body.Focused():
		before := e.body.Value()
		e.body, cmd = e.body.Update(msg)
		change.Body = e.body.Value() != before
	}
	return e, cmd, change
}

// View renders the editor pane.
func (e *Editor) View() string {
	if e.noteID == "" {
		return e.styles.Muted.Render("Select a note or press ctrl+n to create one.")
	}

	pin := "📌 Pin"
	if e.pinned {
		pin = "📌 Unpin"
	}
	record := "🎙️ Record"
	if e.recording {
		record = "⏹ Stop"
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		e.styles.Button.Render("["+pin+"]"),
		e.styles.Button.Render("["+record+"]"),
	)

	meta := e.styles.Muted.Render("Last edited: " + e.lastEdited())

	return strings.Join([]string{
		e.styles.Title.Render(e.title.View()),
		meta,
		buttons,
		"",
		e.body.View(),
	}, "\n")
}

func (e *Editor) lastEdited() string {
	if e.updatedAt.IsZero() {
		return "never"
	}
	return e.updatedAt.Local().Format(dateLayout)
}

// Load shows note, replacing any field contents. A different note resets
// the cursor; the same note keeps focus.
func (e *Editor) Load(note domain.Note) {
	e.noteID = note.ID
	e.title.SetValue(note.Title)
	e.title.CursorEnd()
	e.body.SetValue(note.Body)
	e.pinned = note.Pinned
	e.updatedAt = note.UpdatedAt
}

// Sync refreshes the editor from note without disturbing fields that
// already hold the note's text.
func (e *Editor) Sync(note domain.Note) {
	if note.ID != e.noteID {
		e.Load(note)
		return
	}
	if e.title.Value() != note.Title {
		e.title.SetValue(note.Title)
	}
	if e.body.Value() != note.Body {
		e.body.SetValue(note.Body)
	}
	e.pinned = note.Pinned
	e.updatedAt = note.UpdatedAt
}

// Clear empties the editor.
func (e *Editor) Clear() {
	e.noteID = ""
	e.title.SetValue("")
	e.body.SetValue("")
	e.pinned = false
	e.updatedAt = time.Time{}
	e.Blur()
}

// Focus focuses field.
func (e *Editor) Focus(field Field) tea.Cmd {
	e.Blur()
	if e.noteID == "" {
		return nil
	}
	switch field {
	case FieldTitle:
		return e.title.Focus()
	case FieldBody:
		return e.body.Focus()
	case FieldNone:
	}
	return nil
}

// Blur removes focus from both fields.
func (e *Editor) Blur() {
	e.title.Blur()
	e.body.Blur()
}

// Focused returns the focused field.
func (e *Editor) Focused() Field {
	switch {
	case e.title.Focused():
		return FieldTitle
	case e.body.Focused():
		return FieldBody
	default:
		return FieldNone
	}
}

// SetRecording switches the record button label.
func (e *Editor) SetRecording(recording bool) {
	e.recording = recording
}

// NoteID returns the id of the shown note, or "".
func (e *Editor) NoteID() string {
	return e.noteID
}

// Title returns the title field value.
func (e *Editor) Title() string {
	return e.title.Value()
}

// Body returns the body field value.
func (e *Editor) Body() string {
	return e.body.Value()
}

// SetDimensions sets the pane size.
func (e *Editor) SetDimensions(width, height int) {
	e.width = width
	e.height = height
	e.title.Width = max(width-2, 10)
	e.body.SetWidth(max(width, 10))
	// title, meta, buttons and a gap
	e.body.SetHeight(max(height-4, 3))
}
