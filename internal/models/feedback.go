package models

import (
	"time"

	apperrors "student-feedback/pkg/errors"
)

const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackRecord is one student's current rating. StudentID is unique across the collection.
type FeedbackRecord struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

type SortMode string

const (
	SortByIdentifier SortMode = "byIdentifier"
	SortByRating     SortMode = "byRating"

	DefaultSortMode = SortByIdentifier
)

// ParseSortMode accepts the canonical literals plus the older "studentId" / "rating" values.
func ParseSortMode(s string) (SortMode, error) {
	switch s {
	case string(SortByIdentifier), "studentId":
		return SortByIdentifier, nil
	case string(SortByRating), "rating":
		return SortByRating, nil
	}
	return "", apperrors.NewValidationError("sortMode", s, apperrors.ErrUnknownSortMode)
}

func (m SortMode) Valid() bool {
	return m == SortByIdentifier || m == SortByRating
}
