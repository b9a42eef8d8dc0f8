package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// statusTTL is how long a transient status message stays visible.
const statusTTL = 3 * time.Second

// waitForRecognition delivers the next engine event as a message.
func waitForRecognition(ch <-chan domain.RecognitionEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return messages.RecognitionClosed{}
		}
		return messages.RecognitionReceived{Event: ev}
	}
}

func startWatch(ctx context.Context, w driven.Watchable) tea.Cmd {
	return func() tea.Msg {
		changes, err := w.Watch(ctx)
		return messages.WatchStarted{Changes: changes, Err: err}
	}
}

// waitForChange blocks until the store reports an external edit.
// A closed channel ends the watch.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.NotesChanged{}
	}
}

func expireStatus(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return messages.StatusExpired{Seq: seq}
	})
}
