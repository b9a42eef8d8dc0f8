package editor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
)

func sampleNote() domain.Note {
	return domain.Note{
		ID:        "n1",
		Title:     "Groceries",
		Body:      "milk",
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func typeRunes(e *Editor, s string) Change {
	var total Change
	for _, r := range s {
		var c Change
		e, _, c = e.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		total.Title = total.Title || c.Title
		total.Body = total.Body || c.Body
	}
	return total
}

func TestNew_Empty(t *testing.T) {
	e := New(nil)

	require.NotNil(t, e)
	assert.Empty(t, e.NoteID())
	assert.Contains(t, e.View(), "ctrl+n")
	assert.Nil(t, e.Focus(FieldBody), "nothing to focus without a note")
	assert.Equal(t, FieldNone, e.Focused())
}

func TestEditor_LoadAndView(t *testing.T) {
	e := New(nil)
	e.Load(sampleNote())

	view := e.View()

	assert.Equal(t, "n1", e.NoteID())
	assert.Equal(t, "Groceries", e.Title())
	assert.Equal(t, "milk", e.Body())
	assert.Contains(t, view, "Last edited: ")
	assert.Contains(t, view, "📌 Pin")
	assert.Contains(t, view, "🎙️ Record")
}

func TestEditor_ButtonLabels(t *testing.T) {
	e := New(nil)
	n := sampleNote()
	n.Pinned = true
	e.Load(n)
	e.SetRecording(true)

	view := e.View()

	assert.Contains(t, view, "📌 Unpin")
	assert.Contains(t, view, "⏹ Stop")
}

func TestEditor_TypingReportsChanges(t *testing.T) {
	e := New(nil)
	e.Load(sampleNote())

	e.Focus(FieldTitle)
	assert.Equal(t, FieldTitle, e.Focused())
	c := typeRunes(e, "!")
	assert.True(t, c.Title)
	assert.False(t, c.Body)
	assert.Equal(t, "Groceries!", e.Title())

	e.Focus(FieldBody)
	assert.Equal(t, FieldBody, e.Focused())
	c = typeRunes(e, "x")
	assert.True(t, c.Body)
	assert.Contains(t, e.Body(), "x")
}

func TestEditor_UnfocusedIgnoresInput(t *testing.T) {
	e := New(nil)
	e.Load(sampleNote())

	c := typeRunes(e, "abc")

	assert.False(t, c.Title)
	assert.False(t, c.Body)
	assert.Equal(t, "milk", e.Body())
}

func TestEditor_SyncKeepsFocusForSameNote(t *testing.T) {
	e := New(nil)
	e.Load(sampleNote())
	e.Focus(FieldBody)

	n := sampleNote()
	n.Body = "milk and eggs"
	e.Sync(n)

	assert.Equal(t, "milk and eggs", e.Body())
	assert.Equal(t, FieldBody, e.Focused())
}

func TestEditor_SyncLoadsOtherNote(t *testing.T) {
	e := New(nil)
	e.Load(sampleNote())

	e.Sync(domain.Note{ID: "n2", Title: "Other"})

	assert.Equal(t, "n2", e.NoteID())
	assert.Equal(t, "Other", e.Title())
	assert.Empty(t, e.Body())
}

func TestEditor_Clear(t *testing.T) {
	e := New(nil)
	e.Load(sampleNote())
	e.Focus(FieldTitle)

	e.Clear()

	assert.Empty(t, e.NoteID())
	assert.Empty(t, e.Title())
	assert.Equal(t, FieldNone, e.Focused())
}
