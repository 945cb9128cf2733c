package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the outbox_events table.
// Rule-change events sit here until the relay publishes them to consumers
// (quote caches, admin audit feeds).
type Data struct {
	EventID      string
	EventType    string
	AggregateID  string
	Payload      spanner.NullJSON // JSON column
	Status       string
	CreatedAt    time.Time
	ProcessedAt  spanner.NullTime
	RetryCount   int64
	ErrorMessage spanner.NullString
}
