package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
)

func TestListCmd_Table(t *testing.T) {
	setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "📌 Standup")
	assert.Contains(t, out, "No content yet…")
	assert.Contains(t, out, "Updated: ")
	assert.Contains(t, out, "3 notes")

	standup := strings.Index(out, "Standup")
	groceries := strings.Index(out, "Groceries")
	ideas := strings.Index(out, "Ideas")
	assert.Less(t, standup, groceries, "pinned first")
	assert.Less(t, groceries, ideas, "then most recently edited")
}

func TestListCmd_Query(t *testing.T) {
	setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "ls", "  MILK ")

	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Standup")
	assert.Contains(t, out, "1 note")
}

func TestListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No notes found.")
}

func TestListCmd_NoMatch(t *testing.T) {
	setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "list", "zebra")

	require.NoError(t, err)
	assert.Contains(t, out, "No notes found.")
}

func TestListCmd_JSON(t *testing.T) {
	setupTestServices(t, sampleNotes()...)

	out, err := execute(t, "list", "--json")

	require.NoError(t, err)
	var notes []domain.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	require.Len(t, notes, 3)
	assert.Equal(t, "n2", notes[0].ID)
	assert.Contains(t, out, `"updatedAt"`)
}

func TestListCmd_TooManyArgs(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "list", "a", "b")

	assert.Error(t, err)
}

// syncBuffer is a bytes.Buffer safe to read while a command writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestListCmd_Watch(t *testing.T) {
	env := setupTestServices(t, sampleNotes()...)

	buf := &syncBuffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"list", "--watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "3 notes")
	}, time.Second, 10*time.Millisecond)

	// The watch starts after the first listing; keep saving until it is seen.
	extra := domain.Note{ID: "n4", Title: "From elsewhere", CreatedAt: testTime, UpdatedAt: testTime.Add(time.Hour)}
	require.Eventually(t, func() bool {
		_ = env.store.Save(context.Background(), append(sampleNotes(), extra))
		return strings.Contains(buf.String(), "4 notes")
	}, time.Second, 20*time.Millisecond)
	assert.Contains(t, buf.String(), "From elsewhere")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("list --watch did not stop after cancel")
	}
}
