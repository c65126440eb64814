package systemevent

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemEvent is one immutable audit-trail record. Events are only ever
// appended; nothing in normal operation mutates or deletes them.
type SystemEvent struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Action          string              `json:"action" bson:"action"`
	PerformedBy     *primitive.ObjectID `json:"performed_by,omitempty" bson:"performed_by,omitempty"` // nil for system jobs
	PerformedByName string              `json:"performed_by_name" bson:"performed_by_name"`
	Timestamp       time.Time           `json:"timestamp" bson:"timestamp"`
}

// EventPage is one page of the newest-first event listing.
type EventPage struct {
	Events      []SystemEvent `json:"events"`
	CurrentPage int64         `json:"currentPage"`
	TotalPages  int64         `json:"totalPages"`
	TotalEvents int64         `json:"totalEvents"`
}
