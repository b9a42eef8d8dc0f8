package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
)

func TestNewCmd_CreatesNote(t *testing.T) {
	env := setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "new")

	require.NoError(t, err)
	stored := env.store.Snapshot()
	require.Len(t, stored, 4)
	assert.Equal(t, stored[0].ID, strings.TrimSpace(out))
	assert.Equal(t, domain.DefaultNoteTitle, stored[0].Title)
	assert.Empty(t, stored[0].Body)
}

func TestNewCmd_WithTitleAndBody(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "new", "--title", "Shopping", "-b", "bread")

	require.NoError(t, err)
	n := env.note(t, strings.TrimSpace(out))
	assert.Equal(t, "Shopping", n.Title)
	assert.Equal(t, "bread", n.Body)
	assert.True(t, n.UpdatedAt.After(n.CreatedAt) || n.UpdatedAt.Equal(n.CreatedAt))
}

func TestNewCmd_RejectsArgs(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "new", "extra")

	assert.Error(t, err)
}

func TestShowCmd(t *testing.T) {
	setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "show", "n2")

	require.NoError(t, err)
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Last edited: ")
	assert.Contains(t, out, "Pinned: yes")
	assert.Contains(t, out, "blocked on review")
}

func TestShowCmd_EmptyBody(t *testing.T) {
	setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "show", "n3")

	require.NoError(t, err)
	assert.Contains(t, out, "No content yet…")
	assert.NotContains(t, out, "Pinned")
}

func TestShowCmd_NotFound(t *testing.T) {
	setupTestServices(t, sampleNotes()...)

	_, err := execute(t, "show", "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "Note not found")
}

func TestEditCmd(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		stdin     string
		wantTitle string
		wantBody  string
	}{
		{
			name:      "title",
			args:      []string{"--title", "Errands"},
			wantTitle: "Errands",
			wantBody:  "milk",
		},
		{
			name:      "body",
			args:      []string{"--body", "eggs"},
			wantTitle: "Groceries",
			wantBody:  "eggs",
		},
		{
			name:      "append",
			args:      []string{"--body", ", eggs", "--append"},
			wantTitle: "Groceries",
			wantBody:  "milk, eggs",
		},
		{
			name:      "stdin",
			args:      []string{"-b", "-"},
			stdin:     "from a pipe\n",
			wantTitle: "Groceries",
			wantBody:  "from a pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t, sampleNotes()...)
			rootCmd.SetIn(strings.NewReader(tt.stdin))

			out, err := execute(t, append([]string{"edit", "n1"}, tt.args...)...)

			require.NoError(t, err)
			assert.Contains(t, out, "Updated "+tt.wantTitle)
			n := env.note(t, "n1")
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantBody, n.Body)
			assert.True(t, n.UpdatedAt.After(testTime.Add(2*time.Minute)))
		})
	}
}

func TestEditCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "nothing to change", args: []string{"edit", "n1"}, want: "nothing to change"},
		{name: "append without body", args: []string{"edit", "n1", "--append", "--title", "x"}, want: "--append needs --body"},
		{name: "unknown note", args: []string{"edit", "nope", "--title", "x"}, want: "Note not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t, sampleNotes()...)

			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Zero(t, env.store.Saves())
		})
	}
}

func TestPinCmd_Toggles(t *testing.T) {
	env := setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "pin", "n1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pinned Groceries")
	assert.True(t, env.note(t, "n1").Pinned)

	resetFlags(rootCmd)
	out, err = execute(t, "pin", "n1")
	require.NoError(t, err)
	assert.Contains(t, out, "Unpinned Groceries")
	assert.False(t, env.note(t, "n1").Pinned)
}

func TestDeleteCmd(t *testing.T) {
	env := setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "delete", "n1")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Groceries")
	for _, n := range env.store.Snapshot() {
		assert.NotEqual(t, "n1", n.ID)
	}
	assert.Len(t, env.store.Snapshot(), 2)
}

func TestDeleteCmd_NotFound(t *testing.T) {
	env := setupTestServices(t, sampleNotes()...)

	_, err := execute(t, "delete", "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, env.store.Saves())
}

func TestReadPiped(t *testing.T) {
	got, err := readPiped(strings.NewReader("line one\nline two\n"))

	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "never", formatTime(domain.Note{}))
	assert.Equal(t, testTime.Local().Format(dateLayout), formatTime(domain.Note{UpdatedAt: testTime}))
}
