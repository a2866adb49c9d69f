package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"student-feedback/internal/models"
)

// schemaVersion tags the persisted records entry. Bump it when a field changes meaning.
const schemaVersion = 1

type recordsEnvelope struct {
	Version int            `json:"version"`
	Records []storedRecord `json:"records"`
}

type storedRecord struct {
	ID        string     `json:"id"`
	StudentID string     `json:"studentId"`
	Rating    int        `json:"rating"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	// Date is the timestamp field of the unversioned array format.
	Date *time.Time `json:"date,omitempty"`
}

func encodeRecords(records []models.FeedbackRecord) (string, error) {
	env := recordsEnvelope{
		Version: schemaVersion,
		Records: make([]storedRecord, 0, len(records)),
	}
	for _, r := range records {
		ts := r.Timestamp
		env.Records = append(env.Records, storedRecord{
			ID:        r.ID,
			StudentID: r.StudentID,
			Rating:    r.Rating,
			Timestamp: &ts,
		})
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeRecords accepts the versioned envelope and the older bare array.
func decodeRecords(raw string) ([]models.FeedbackRecord, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	var stored []storedRecord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil, err
		}
	} else {
		var env recordsEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		if env.Version != schemaVersion {
			return nil, fmt.Errorf("unsupported schema version %d", env.Version)
		}
		stored = env.Records
	}

	records := make([]models.FeedbackRecord, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for i, s := range stored {
		ts := s.Timestamp
		if ts == nil {
			ts = s.Date
		}
		switch {
		case s.ID == "":
			return nil, fmt.Errorf("record %d: missing id", i)
		case strings.TrimSpace(s.StudentID) == "":
			return nil, fmt.Errorf("record %d: missing studentId", i)
		case !models.ValidRating(s.Rating):
			return nil, fmt.Errorf("record %d: rating %d out of range", i, s.Rating)
		case ts == nil:
			return nil, fmt.Errorf("record %d: missing timestamp", i)
		}
		studentID := strings.TrimSpace(s.StudentID)
		if seen[studentID] {
			return nil, fmt.Errorf("record %d: duplicate studentId %q", i, studentID)
		}
		seen[studentID] = true

		records = append(records, models.FeedbackRecord{
			ID:        s.ID,
			StudentID: studentID,
			Rating:    s.Rating,
			Timestamp: *ts,
		})
	}
	return records, nil
}
