package services

import (
	"sort"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// Project returns the notes to display for query.
//
// Pinned notes come first, then notes ordered by UpdatedAt, newest first.
// Equal keys keep their collection order. A blank query returns every
// note; otherwise only notes whose title or body contains the trimmed,
// case-folded query are kept. The input slice is never modified.
func Project(notes []domain.Note, query string) []domain.Note {
	sorted := make([]domain.Note, len(notes))
	copy(sorted, notes)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})

	q := domain.NormaliseQuery(query)
	if q == "" {
		return sorted
	}

	out := sorted[:0]
	for i := range sorted {
		if sorted[i].Matches(q) {
			out = append(out, sorted[i])
		}
	}
	return out
}
