package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"student-feedback/internal/database"
	"student-feedback/internal/models"
	"student-feedback/internal/view"
	apperrors "student-feedback/pkg/errors"
)

// ResponseStore owns the feedback collection and keeps it in step with the gateway.
// Every mutation is persisted before it returns; a failed write restores the previous state.
type ResponseStore struct {
	gateway database.Gateway
	log     *zap.Logger
	newID   func() string

	mu       sync.RWMutex
	records  []models.FeedbackRecord
	sortMode models.SortMode
}

func NewResponseStore(gateway database.Gateway, log *zap.Logger) *ResponseStore {
	return &ResponseStore{
		gateway:  gateway,
		log:      log,
		newID:    uuid.NewString,
		sortMode: models.DefaultSortMode,
	}
}

// Initialize replaces in-memory state with what the gateway holds. Missing or
// unreadable entries leave the empty collection and default sort mode in place.
func (s *ResponseStore) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.sortMode = models.DefaultSortMode

	if records, err := s.loadRecords(ctx); err != nil {
		s.logLoadFailure(err, database.RecordsKey)
	} else {
		s.records = records
	}

	if mode, err := s.loadSortMode(ctx); err != nil {
		s.logLoadFailure(err, database.SortModeKey)
	} else {
		s.sortMode = mode
	}

	s.log.Info("feedback state loaded",
		zap.Int("records", len(s.records)),
		zap.String("sort_mode", string(s.sortMode)))
}

func (s *ResponseStore) logLoadFailure(err error, key string) {
	if apperrors.IsMalformedState(err) {
		s.log.Warn("discarding malformed persisted state", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Error("failed to read persisted state, starting with empty state",
		zap.String("key", key), zap.Error(err))
}

func (s *ResponseStore) loadRecords(ctx context.Context) ([]models.FeedbackRecord, error) {
	raw, ok, err := s.gateway.Get(ctx, database.RecordsKey)
	if err != nil {
		return nil, apperrors.NewPersistenceError("get", database.RecordsKey, err)
	}
	if !ok {
		return nil, nil
	}
	records, err := decodeRecords(raw)
	if err != nil {
		return nil, apperrors.NewMalformedStateError(database.RecordsKey, err)
	}
	return records, nil
}

func (s *ResponseStore) loadSortMode(ctx context.Context) (models.SortMode, error) {
	raw, ok, err := s.gateway.Get(ctx, database.SortModeKey)
	if err != nil {
		return "", apperrors.NewPersistenceError("get", database.SortModeKey, err)
	}
	if !ok || raw == "" {
		return models.DefaultSortMode, nil
	}
	mode, err := models.ParseSortMode(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.NewMalformedStateError(database.SortModeKey, err)
	}
	return mode, nil
}

// Upsert records rating for studentID, creating the record on first submission
// and re-stamping it with now on every later one.
func (s *ResponseStore) Upsert(ctx context.Context, studentID string, rating int, now time.Time) (models.FeedbackRecord, error) {
	trimmed := strings.TrimSpace(studentID)
	if trimmed == "" {
		return models.FeedbackRecord{}, apperrors.NewValidationError("studentId", studentID, apperrors.ErrEmptyStudentID)
	}
	if !models.ValidRating(rating) {
		return models.FeedbackRecord{}, apperrors.NewValidationError("rating", rating, apperrors.ErrRatingOutOfRange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := slices.Clone(s.records)

	idx := slices.IndexFunc(s.records, func(r models.FeedbackRecord) bool {
		return r.StudentID == trimmed
	})
	if idx >= 0 {
		s.records[idx].Rating = rating
		s.records[idx].Timestamp = now
	} else {
		s.records = append(s.records, models.FeedbackRecord{
			ID:        s.newID(),
			StudentID: trimmed,
			Rating:    rating,
			Timestamp: now,
		})
		idx = len(s.records) - 1
	}

	if err := s.saveRecords(ctx); err != nil {
		s.records = previous
		return models.FeedbackRecord{}, err
	}

	s.log.Debug("rating saved",
		zap.String("student_id", trimmed),
		zap.Int("rating", rating),
		zap.Bool("created", len(s.records) > len(previous)))
	return s.records[idx], nil
}

// ClearAll permanently discards every record. It returns how many were removed;
// an empty collection is left alone and nothing is written.
func (s *ResponseStore) ClearAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return 0, nil
	}

	previous := s.records
	s.records = nil
	if err := s.saveRecords(ctx); err != nil {
		s.records = previous
		return 0, err
	}

	s.log.Info("all feedback cleared", zap.Int("records", len(previous)))
	return len(previous), nil
}

func (s *ResponseStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of the collection in insertion order.
func (s *ResponseStore) Records() []models.FeedbackRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

func (s *ResponseStore) SortMode() models.SortMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortMode
}

// SetSortMode persists mode as the display preference.
func (s *ResponseStore) SetSortMode(ctx context.Context, mode models.SortMode) error {
	if !mode.Valid() {
		return apperrors.NewValidationError("sortMode", mode, apperrors.ErrUnknownSortMode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gateway.Set(ctx, database.SortModeKey, string(mode)); err != nil {
		return apperrors.NewPersistenceError("set", database.SortModeKey, err)
	}
	s.sortMode = mode
	return nil
}

// Sorted derives the collection in the current sort mode.
func (s *ResponseStore) Sorted() []models.FeedbackRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.Derive(s.records, s.sortMode)
}

// saveRecords writes the whole collection; callers hold mu
func (s *ResponseStore) saveRecords(ctx context.Context) error {
	payload, err := encodeRecords(s.records)
	if err != nil {
		return apperrors.NewPersistenceError("encode", database.RecordsKey, err)
	}
	if err := s.gateway.Set(ctx, database.RecordsKey, payload); err != nil {
		return apperrors.NewPersistenceError("set", database.RecordsKey, err)
	}
	return nil
}
