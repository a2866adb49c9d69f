package notify

import "context"

const (
	MsgRatingSaved = "Rating saved."
	MsgAllDeleted  = "All entries deleted."
	MsgCSVSaved    = "CSV saved successfully."
)

// Notifier tells the person at the form what just happened.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}
