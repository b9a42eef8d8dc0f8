package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/custodia-labs/quill/internal/core/domain"
)

var base = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func ids(notes []domain.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestProject_Ordering(t *testing.T) {
	notes := []domain.Note{
		{ID: "old", UpdatedAt: at(1)},
		{ID: "pinned-old", Pinned: true, UpdatedAt: at(2)},
		{ID: "new", UpdatedAt: at(5)},
		{ID: "pinned-new", Pinned: true, UpdatedAt: at(4)},
	}

	got := Project(notes, "")

	assert.Equal(t, []string{"pinned-new", "pinned-old", "new", "old"}, ids(got))
}

func TestProject_TiesKeepCollectionOrder(t *testing.T) {
	notes := []domain.Note{
		{ID: "a", UpdatedAt: at(1)},
		{ID: "b", UpdatedAt: at(1)},
		{ID: "c", UpdatedAt: at(1)},
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Project(notes, "")))
}

func TestProject_Filter(t *testing.T) {
	notes := []domain.Note{
		{ID: "1", Title: "Groceries", Body: "Milk and EGGS", UpdatedAt: at(1)},
		{ID: "2", Title: "Meeting", Body: "eggs benedict at brunch", UpdatedAt: at(2)},
		{ID: "3", Title: "", Body: "", UpdatedAt: at(3)},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query", "", []string{"3", "2", "1"}},
		{"whitespace only", "   \t", []string{"3", "2", "1"}},
		{"title match", "groc", []string{"1"}},
		{"case folded body", "  EGGS ", []string{"2", "1"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(notes, tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	notes := []domain.Note{
		{ID: "a", UpdatedAt: at(1)},
		{ID: "b", UpdatedAt: at(2), Pinned: true},
	}
	before := append([]domain.Note(nil), notes...)

	_ = Project(notes, "")
	_ = Project(notes, "a")

	assert.Equal(t, before, notes)
}

func TestProject_Nil(t *testing.T) {
	got := Project(nil, "anything")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// noteGen draws notes with a small alphabet so queries often match and
// timestamps often collide.
func noteGen(i int) *rapid.Generator[domain.Note] {
	return rapid.Custom(func(t *rapid.T) domain.Note {
		return domain.Note{
			ID:        string(rune('a'+i%26)) + strings.Repeat("x", i/26),
			Title:     rapid.StringMatching(`[abAB ]{0,6}`).Draw(t, "title"),
			Body:      rapid.StringMatching(`[abcABC ]{0,10}`).Draw(t, "body"),
			Pinned:    rapid.Bool().Draw(t, "pinned"),
			UpdatedAt: at(rapid.IntRange(0, 5).Draw(t, "updated")),
		}
	})
}

func drawNotes(t *rapid.T) []domain.Note {
	n := rapid.IntRange(0, 20).Draw(t, "n")
	notes := make([]domain.Note, n)
	for i := range notes {
		notes[i] = noteGen(i).Draw(t, "note")
	}
	return notes
}

func TestProject_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		notes := drawNotes(t)
		query := rapid.StringMatching(`[ aAbB]{0,3}`).Draw(t, "query")
		before := append([]domain.Note(nil), notes...)

		all := Project(notes, "")
		got := Project(notes, query)

		// Input is untouched and repeated calls agree.
		if !assert.ObjectsAreEqual(before, notes) {
			t.Fatalf("input mutated")
		}
		if !assert.ObjectsAreEqual(got, Project(notes, query)) {
			t.Fatalf("projection not deterministic")
		}

		// Empty query keeps every note exactly once.
		if len(all) != len(notes) {
			t.Fatalf("empty query returned %d of %d notes", len(all), len(notes))
		}
		seen := map[string]int{}
		for _, n := range all {
			seen[n.ID]++
		}
		for _, n := range notes {
			if seen[n.ID] != 1 {
				t.Fatalf("note %s appears %d times", n.ID, seen[n.ID])
			}
		}

		// Pinned first, then newest first.
		for i := 1; i < len(all); i++ {
			prev, cur := all[i-1], all[i]
			if !prev.Pinned && cur.Pinned {
				t.Fatalf("unpinned %s before pinned %s", prev.ID, cur.ID)
			}
			if prev.Pinned == cur.Pinned && prev.UpdatedAt.Before(cur.UpdatedAt) {
				t.Fatalf("%s older than following %s", prev.ID, cur.ID)
			}
		}

		// Every result contains the normalised query.
		q := strings.ToLower(strings.TrimSpace(query))
		for _, n := range got {
			if !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Body), q) {
				t.Fatalf("note %s does not contain %q", n.ID, q)
			}
		}
	})
}
