// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quill/internal/core/domain"
)

// linesPerNote is the rendered height of one entry including the gap.
const linesPerNote = 4

// dateLayout formats the "Updated:" line.
const dateLayout = "2006-01-02 15:04"

// NoteList displays the projected notes and tracks the cursor.
type NoteList struct {
	notes    []domain.Note
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewNoteList creates a new note list component.
func NewNoteList(s *styles.Styles) *NoteList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &NoteList{
		selected: -1,
		styles:   s,
		width:    30,
		height:   20,
	}
}

// Init initialises the note list.
func (l *NoteList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *NoteList) Update(msg tea.Msg) (*NoteList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the note list.
func (l *NoteList) View() string {
	header := l.styles.Subtitle.Render(fmt.Sprintf("Notes (%d)", len(l.notes)))
	if len(l.notes) == 0 {
		return header + "\n\n" + l.styles.Muted.Render("No notes found.")
	}

	visible := (l.height - 2) / linesPerNote
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.notes))

	lines := make([]string, 0, 2+(end-start)*linesPerNote)
	lines = append(lines, header, "")
	for i := start; i < end; i++ {
		lines = append(lines, l.renderNote(i, &l.notes[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *NoteList) renderNote(index int, n *domain.Note) string {
	inner := l.width - 2
	if inner < 10 {
		inner = 10
	}

	title := truncate(n.DisplayTitle(), inner-3)
	if n.Pinned {
		title = "📌 " + title
	}

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render("> " + title)
	} else {
		titleLine = l.styles.Normal.Render("  " + title)
	}

	preview := l.styles.Muted.Render("  " + truncate(n.Preview(), inner))
	updated := l.styles.Muted.Render("  Updated: " + formatTime(n))

	return lipgloss.JoinVertical(lipgloss.Left, titleLine, preview, updated, "")
}

// SetNotes replaces the list and places the cursor on selectedID,
// or nowhere when it is not listed.
func (l *NoteList) SetNotes(notes []domain.Note, selectedID string) {
	l.notes = notes
	l.selected = -1
	for i := range notes {
		if notes[i].ID == selectedID {
			l.selected = i
			break
		}
	}
}

// Notes returns the listed notes.
func (l *NoteList) Notes() []domain.Note {
	return l.notes
}

// Selected returns the cursor index, or -1.
func (l *NoteList) Selected() int {
	return l.selected
}

// SelectedNote returns the note under the cursor, or nil if none.
func (l *NoteList) SelectedNote() *domain.Note {
	if l.selected < 0 || l.selected >= len(l.notes) {
		return nil
	}
	return &l.notes[l.selected]
}

// MoveUp moves the cursor up. With no cursor it lands on the first note.
func (l *NoteList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	} else if l.selected < 0 && len(l.notes) > 0 {
		l.selected = 0
	}
}

// MoveDown moves the cursor down. With no cursor it lands on the first note.
func (l *NoteList) MoveDown() {
	if l.selected < len(l.notes)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *NoteList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of listed notes.
func (l *NoteList) Count() int {
	return len(l.notes)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit < 2 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func formatTime(n *domain.Note) string {
	if n.UpdatedAt.IsZero() {
		return "never"
	}
	return n.UpdatedAt.Local().Format(dateLayout)
}
