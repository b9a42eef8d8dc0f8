package domain

import (
	"strings"
	"time"
)

// StorageKey is the fixed key under which the note collection is persisted.
const StorageKey = "notes_app_v1"

// DefaultNoteTitle is the title given to freshly created notes.
const DefaultNoteTitle = "New note"

const (
	untitled       = "Untitled"
	emptyPreview   = "No content yet…"
	previewMaxRune = 120
)

// Note is a single user document.
// The JSON shape matches the persisted collection format.
type Note struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	// Title may be empty; DisplayTitle substitutes a placeholder.
	Title string `json:"title"`

	// Body is free text. Dictation appends to it.
	Body string `json:"body"`

	// Pinned notes sort ahead of unpinned ones.
	Pinned bool `json:"pinned"`

	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every title, body or pin change.
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayTitle returns the trimmed title, or "Untitled" when it is blank.
func (n *Note) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return untitled
}

// Preview returns a single-line excerpt of the body for list rendering.
func (n *Note) Preview() string {
	body := strings.TrimSpace(n.Body)
	if body == "" {
		return emptyPreview
	}
	body = strings.Join(strings.Fields(body), " ")
	if r := []rune(body); len(r) > previewMaxRune {
		return string(r[:previewMaxRune-1]) + "…"
	}
	return body
}

// Matches reports whether the note's title or body contains the
// already-normalised query.
func (n *Note) Matches(normalised string) bool {
	return strings.Contains(strings.ToLower(n.Title), normalised) ||
		strings.Contains(strings.ToLower(n.Body), normalised)
}

// NormaliseQuery trims and case-folds a search query.
func NormaliseQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
