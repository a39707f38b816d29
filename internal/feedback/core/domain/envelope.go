package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TimestampField is added to every delivered body.
const TimestampField = "@timestamp"

// TimestampLayout is ISO-8601 with milliseconds, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is one feedback event ready for delivery.
type Envelope struct {
	ID        uuid.UUID
	EventType string
	Timestamp time.Time
	Body      json.RawMessage // payload object plus @timestamp
}
