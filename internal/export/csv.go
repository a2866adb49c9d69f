package export

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"student-feedback/internal/models"
	apperrors "student-feedback/pkg/errors"
)

const (
	FileName    = "Feedback.csv"
	ContentType = "text/csv;charset=utf-8"

	Header          = "UserId,rating,date"
	TimestampLayout = "2006-01-02T15:04:05-07:00"
)

type Dialect int

const (
	// Legacy writes fields verbatim. A studentId containing a comma shifts the columns.
	Legacy Dialect = iota
	// Quoted applies RFC 4180 quoting.
	Quoted
)

// FormatTimestamp renders t as local civil time in loc with a ±HH:MM offset.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}

// Serialize renders records, already in display order, as legacy CSV.
// loc is the zone at serialization time; production passes time.Local.
func Serialize(records []models.FeedbackRecord, loc *time.Location) (string, error) {
	return SerializeDialect(records, loc, Legacy)
}

func SerializeDialect(records []models.FeedbackRecord, loc *time.Location, dialect Dialect) (string, error) {
	if len(records) == 0 {
		return "", apperrors.ErrEmptyInput
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	if dialect == Quoted {
		w := csv.NewWriter(&b)
		_ = w.Write(strings.Split(Header, ","))
		for _, r := range records {
			_ = w.Write([]string{r.StudentID, strconv.Itoa(r.Rating), FormatTimestamp(r.Timestamp, loc)})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", err
		}
		return b.String(), nil
	}

	b.WriteString(Header)
	b.WriteByte('\n')
	for _, r := range records {
		b.WriteString(r.StudentID)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r.Rating))
		b.WriteByte(',')
		b.WriteString(FormatTimestamp(r.Timestamp, loc))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
