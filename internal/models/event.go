package models

// Activity event types published to the message broker.
const (
	EventActivityCreated = "activity.created"
	EventActivityUpdated = "activity.updated"
	EventActivityDeleted = "activity.deleted"
)

// ActivityEvent describes a change to a library entry.
type ActivityEvent struct {
	EventID    string `json:"event_id"`    // Unique event identifier
	Type       string `json:"type"`        // One of the activity.* event types
	Timestamp  int64  `json:"timestamp"`   // Unix timestamp in seconds
	ActivityID int64  `json:"activity_id"` // Affected activity
	UserID     int64  `json:"user_id,omitempty"`
	BookID     int64  `json:"book_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Progress   int    `json:"progress"`
	IsFavorite bool   `json:"is_favorite"`
}
