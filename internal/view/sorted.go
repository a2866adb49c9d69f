// Package view derives the display and export ordering of feedback records.
package view

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"student-feedback/internal/models"
)

// IdentifierComparer orders student ids the way a person reads them:
// case and accents are ignored and digit runs compare by numeric value,
// so "student2" sorts before "student10".
type IdentifierComparer struct {
	collator *collate.Collator
}

// NewIdentifierComparer returns a comparer for the root locale. A Collator
// keeps internal buffers, so a comparer must not be shared between goroutines.
func NewIdentifierComparer() *IdentifierComparer {
	return &IdentifierComparer{
		collator: collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics, collate.Numeric),
	}
}

// Compare returns -1, 0 or +1. Zero only for byte-identical ids.
func (c *IdentifierComparer) Compare(a, b string) int {
	if r := c.collator.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Derive returns a new slice ordered for mode; records is left untouched.
// Unknown modes fall back to the default ordering.
func Derive(records []models.FeedbackRecord, mode models.SortMode) []models.FeedbackRecord {
	out := slices.Clone(records)
	if len(out) < 2 {
		return out
	}

	cmp := NewIdentifierComparer()
	byIdentifier := func(a, b models.FeedbackRecord) int {
		if r := cmp.Compare(a.StudentID, b.StudentID); r != 0 {
			return r
		}
		// only reachable with duplicate student ids, which the store never produces
		return strings.Compare(a.ID, b.ID)
	}

	switch mode {
	case models.SortByRating:
		slices.SortFunc(out, func(a, b models.FeedbackRecord) int {
			if a.Rating != b.Rating {
				return b.Rating - a.Rating
			}
			return byIdentifier(a, b)
		})
	default:
		slices.SortFunc(out, byIdentifier)
	}
	return out
}
