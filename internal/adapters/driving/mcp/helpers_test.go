package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/services"
)

var testTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestServer returns a server over a session backed by an in-memory
// store seeded with notes.
func newTestServer(t *testing.T, notes ...domain.Note) (*Server, *memory.NoteStore) {
	t.Helper()
	store := memory.NewNoteStore(notes...)
	session := services.NewSession(store,
		services.WithClock(func() time.Time { return testTime }),
		services.WithSaveDelay(time.Hour),
	)
	require.NoError(t, session.Open(context.Background()))

	server, err := NewServer(&Ports{Notes: session})
	require.NoError(t, err)
	return server, store
}

func sampleNotes() []domain.Note {
	return []domain.Note{
		{ID: "n1", Title: "Groceries", Body: "milk, eggs", UpdatedAt: testTime.Add(-time.Hour)},
		{ID: "n2", Title: "Standup", Body: "ship the release", Pinned: true, UpdatedAt: testTime.Add(-2 * time.Hour)},
		{ID: "n3", Title: "", Body: "", UpdatedAt: testTime.Add(-3 * time.Hour)},
	}
}
