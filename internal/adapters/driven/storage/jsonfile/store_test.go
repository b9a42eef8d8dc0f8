package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return store
}

func TestStore_LoadMissingFile(t *testing.T) {
	notes, err := newStore(t).Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	at := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)

	in := []domain.Note{
		{ID: "1", Title: "Ideas", Body: "ship it", Pinned: true, CreatedAt: at, UpdatedAt: at},
		{ID: "2", Title: "Todo", CreatedAt: at, UpdatedAt: at.Add(time.Hour)},
	}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "notes_app_v1.json", filepath.Base(store.Path()))
}

func TestStore_LoadsBrowserExport(t *testing.T) {
	store := newStore(t)
	raw := `[{"id":"9f1c","title":"From the browser","body":"hello","pinned":false,` +
		`"createdAt":"2024-01-01T10:00:00.000Z","updatedAt":"2024-01-01T10:05:00.000Z"}]`
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0600))

	notes, err := store.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "From the browser", notes[0].Title)
	assert.Equal(t, 5*time.Minute, notes[0].UpdatedAt.Sub(notes[0].CreatedAt))
}

func TestStore_CorruptFile(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{broken"), 0600))

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreCorrupt)
}

func TestStore_EmptyFile(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("  \n"), 0600))

	notes, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestStore_JSONNull(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("null"), 0600))

	notes, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, notes)
}

func TestStore_WatchReportsExternalWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	ours, err := NewStore(dir)
	require.NoError(t, err)
	theirs, err := NewStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := ours.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, theirs.Save(context.Background(), []domain.Note{{ID: "ext"}}))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestStore_WatchIgnoresOwnWrites(t *testing.T) {
	store := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), []domain.Note{{ID: "own"}}))

	select {
	case <-changes:
		t.Fatal("own write should not be reported")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestStore_WatchClosesOnCancel(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := store.Watch(ctx)
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
