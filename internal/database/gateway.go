package database

import "context"

// Keys under which the form's state lives in the durable store.
const (
	RecordsKey  = "student_feedback_responses"
	SortModeKey = "student_feedback_sort_mode"
)

// Gateway is a string key-value store. Set on a single key is atomic; nothing else is.
// Get reports ok=false with a nil error when the key is absent.
type Gateway interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
