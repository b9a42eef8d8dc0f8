// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quill/internal/core/domain"
)

// Bar displays the dictation status, a transient message and key hints.
type Bar struct {
	styles    *styles.Styles
	recording domain.RecordingStatus
	message   string
	isError   bool
	hints     []key.Binding
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Bar{
		styles:    s,
		recording: domain.IdleStatus(),
		width:     80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var rec string
	switch s.recording.State {
	case domain.RecordingListening:
		rec = s.styles.Recording.Render("● " + s.recording.Message)
	case domain.RecordingError:
		rec = s.styles.Error.Render(s.recording.Message)
	default:
		rec = s.styles.Muted.Render(s.recording.Message)
	}

	if s.message == "" {
		return rec
	}
	msg := s.styles.Normal.Render(s.message)
	if s.isError {
		msg = s.styles.Error.Render(s.message)
	}
	return rec + s.styles.Muted.Render(" · ") + msg
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.hints))
	for _, b := range s.hints {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetRecording sets the dictation status.
func (s *Bar) SetRecording(status domain.RecordingStatus) {
	s.recording = status
}

// Recording returns the dictation status.
func (s *Bar) Recording() domain.RecordingStatus {
	return s.recording
}

// SetMessage sets a transient message.
func (s *Bar) SetMessage(message string) {
	s.message = message
	s.isError = false
}

// SetError sets a transient error message.
func (s *Bar) SetError(message string) {
	s.message = message
	s.isError = true
}

// Message returns the transient message.
func (s *Bar) Message() string {
	return s.message
}

// SetHints sets the keybinding hints shown on the right.
func (s *Bar) SetHints(hints []key.Binding) {
	s.hints = hints
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear removes the transient message.
func (s *Bar) Clear() {
	s.message = ""
	s.isError = false
}
