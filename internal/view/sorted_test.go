package view

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"student-feedback/internal/models"
)

func rec(id string, rating int) models.FeedbackRecord {
	return models.FeedbackRecord{ID: "id-" + id, StudentID: id, Rating: rating}
}

func ids(records []models.FeedbackRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.StudentID
	}
	return out
}

func TestDerive_ByRating(t *testing.T) {
	in := []models.FeedbackRecord{rec("b", 3), rec("a", 5), rec("a2", 5)}

	got := Derive(in, models.SortByRating)

	assert.Equal(t, []string{"a", "a2", "b"}, ids(got))
	assert.Equal(t, []int{5, 5, 3}, []int{got[0].Rating, got[1].Rating, got[2].Rating})
}

func TestDerive_ByIdentifierIsNumericAware(t *testing.T) {
	in := []models.FeedbackRecord{rec("student10", 1), rec("student2", 1)}

	got := Derive(in, models.SortByIdentifier)

	assert.Equal(t, []string{"student2", "student10"}, ids(got))
}

func TestDerive_CaseInsensitive(t *testing.T) {
	in := []models.FeedbackRecord{rec("bob", 1), rec("Carol", 1), rec("alice", 1)}

	got := Derive(in, models.SortByIdentifier)

	assert.Equal(t, []string{"alice", "bob", "Carol"}, ids(got))
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	in := []models.FeedbackRecord{rec("c", 1), rec("a", 2), rec("b", 3)}
	before := append([]models.FeedbackRecord(nil), in...)

	_ = Derive(in, models.SortByRating)
	_ = Derive(in, models.SortByIdentifier)

	assert.Equal(t, before, in)
}

func TestDerive_IndependentOfInsertionOrder(t *testing.T) {
	base := []models.FeedbackRecord{
		rec("s1", 4), rec("S1x", 4), rec("s10", 2), rec("s2", 4),
		rec("Émile", 3), rec("emile", 3), rec("zed", 5), rec("s02", 4),
	}
	want := Derive(base, models.SortByRating)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.FeedbackRecord(nil), base...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, want, Derive(shuffled, models.SortByRating))
		assert.Equal(t, Derive(base, models.SortByIdentifier), Derive(shuffled, models.SortByIdentifier))
	}
}

func TestDerive_UnknownModeUsesDefault(t *testing.T) {
	in := []models.FeedbackRecord{rec("b", 5), rec("a", 1)}

	assert.Equal(t, []string{"a", "b"}, ids(Derive(in, models.SortMode("bogus"))))
}

func TestDerive_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, Derive(nil, models.SortByRating))
	assert.Equal(t, []string{"only"}, ids(Derive([]models.FeedbackRecord{rec("only", 2)}, models.SortByIdentifier)))
}

func TestIdentifierComparer(t *testing.T) {
	c := NewIdentifierComparer()

	assert.Negative(t, c.Compare("student2", "student10"))
	assert.Positive(t, c.Compare("b", "A"))
	assert.NotZero(t, c.Compare("alice", "Alice"), "distinct ids never compare equal")
	assert.Zero(t, c.Compare("alice", "alice"))
}
