package export

import (
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-feedback/internal/models"
	"student-feedback/internal/view"
	apperrors "student-feedback/pkg/errors"
)

var created = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func TestSerialize_Layout(t *testing.T) {
	records := []models.FeedbackRecord{
		{ID: "1", StudentID: "s1", Rating: 5, Timestamp: created},
		{ID: "2", StudentID: "s2", Rating: 3, Timestamp: created.Add(time.Hour)},
	}

	got, err := Serialize(records, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "UserId,rating,date\n"+
		"s1,5,2024-03-09T14:05:07+00:00\n"+
		"s2,3,2024-03-09T15:05:07+00:00\n", got)
}

func TestSerialize_OffsetSign(t *testing.T) {
	records := []models.FeedbackRecord{{ID: "1", StudentID: "s1", Rating: 4, Timestamp: created}}

	east := time.FixedZone("IST", 5*3600+30*60)
	got, err := Serialize(records, east)
	require.NoError(t, err)
	assert.Contains(t, got, "s1,4,2024-03-09T19:35:07+05:30\n")

	west := time.FixedZone("NST", -(3*3600 + 30*60))
	got, err = Serialize(records, west)
	require.NoError(t, err)
	assert.Contains(t, got, "s1,4,2024-03-09T10:35:07-03:30\n")
}

func TestSerialize_UsesZoneAtExportTime(t *testing.T) {
	// stored in one zone, exported in another
	stamped := created.In(time.FixedZone("X", -8*3600))
	records := []models.FeedbackRecord{{ID: "1", StudentID: "s1", Rating: 1, Timestamp: stamped}}

	got, err := Serialize(records, time.FixedZone("Y", 2*3600))
	require.NoError(t, err)
	assert.Contains(t, got, "2024-03-09T16:05:07+02:00")
}

func TestSerialize_EmptyInput(t *testing.T) {
	_, err := Serialize(nil, time.UTC)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)

	_, err = SerializeDialect([]models.FeedbackRecord{}, time.UTC, Quoted)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestSerialize_LegacyDoesNotQuote(t *testing.T) {
	records := []models.FeedbackRecord{{ID: "1", StudentID: "doe, jane", Rating: 2, Timestamp: created}}

	got, err := Serialize(records, time.UTC)
	require.NoError(t, err)
	assert.Contains(t, got, "\ndoe, jane,2,")
}

func TestSerialize_QuotedDialect(t *testing.T) {
	records := []models.FeedbackRecord{{ID: "1", StudentID: "doe, jane", Rating: 2, Timestamp: created}}

	got, err := SerializeDialect(records, time.UTC, Quoted)
	require.NoError(t, err)
	assert.Equal(t, "UserId,rating,date\n\"doe, jane\",2,2024-03-09T14:05:07+00:00\n", got)
}

func TestDeriveSerializeRoundTrip(t *testing.T) {
	records := []models.FeedbackRecord{
		{ID: "1", StudentID: "student10", Rating: 2, Timestamp: created},
		{ID: "2", StudentID: "student2", Rating: 5, Timestamp: created},
		{ID: "3", StudentID: "Student1", Rating: 5, Timestamp: created},
	}

	for _, mode := range []models.SortMode{models.SortByIdentifier, models.SortByRating} {
		ordered := view.Derive(records, mode)
		text, err := Serialize(ordered, time.UTC)
		require.NoError(t, err)

		rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, len(records)+1)
		assert.Equal(t, []string{"UserId", "rating", "date"}, rows[0])

		for i, r := range ordered {
			assert.Equal(t, r.StudentID, rows[i+1][0])
			assert.Equal(t, strconv.Itoa(r.Rating), rows[i+1][1])
		}
	}
}
