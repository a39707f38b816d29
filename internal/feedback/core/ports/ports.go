package ports

import (
	"context"

	"usage-telemetry-service/internal/feedback/core/domain"
)

// Transport delivers envelopes to one destination.
type Transport interface {
	Name() string
	Deliver(ctx context.Context, env domain.Envelope) error
}

type SummaryFilter struct {
	EventType string
	From      int64
	To        int64
	Owner     *string // optional
	GroupBy   string  // "", "owner", "time"
	Interval  string  // "hour" / "day" (GroupBy = "time" required)
}

type SummaryReaderPort interface {
	QuerySummary(ctx context.Context, f SummaryFilter) (*domain.Summary, error)
}
