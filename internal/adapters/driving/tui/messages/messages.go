// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/quill/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewNotes is the list and editor.
	ViewNotes ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewNotes:
		return "notes"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// RecognitionReceived carries one event from the speech engine.
type RecognitionReceived struct {
	Event domain.RecognitionEvent
}

// RecognitionClosed signals the engine's event channel was closed.
type RecognitionClosed struct{}

// WatchStarted carries the store's change notifications.
type WatchStarted struct {
	Changes <-chan struct{}
	Err     error
}

// NotesChanged signals another process modified the store.
type NotesChanged struct{}

// StatusExpired clears a transient status message. Seq identifies the
// message it belongs to so a newer message is not cleared early.
type StatusExpired struct {
	Seq int
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
