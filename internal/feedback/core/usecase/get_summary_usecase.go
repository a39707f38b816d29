package usecase

import (
	"context"
	"errors"

	"usage-telemetry-service/internal/feedback/core/domain"
	"usage-telemetry-service/internal/feedback/core/ports"
)

var (
	ErrInvalidSummaryQuery = errors.New("invalid summary query")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrInvalidGroupBy      = errors.New("invalid group_by value")
	ErrInvalidInterval     = errors.New("invalid interval for time grouping")
)

type GetSummaryInput struct {
	EventType string
	From      int64
	To        int64

	Owner    *string
	GroupBy  string // "", "owner", "time"
	Interval string // "hour" / "day", required when GroupBy is "time"
}

type GetSummaryUseCase struct {
	reader ports.SummaryReaderPort
}

func NewGetSummaryUseCase(reader ports.SummaryReaderPort) *GetSummaryUseCase {
	return &GetSummaryUseCase{reader: reader}
}

// Execute validates the input and queries the journal.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, in GetSummaryInput) (*domain.Summary, error) {
	if in.EventType == "" {
		return nil, ErrInvalidSummaryQuery
	}

	if in.From <= 0 || in.To <= 0 || in.From > in.To {
		return nil, ErrInvalidTimeRange
	}

	switch in.GroupBy {
	case "", "owner":
	case "time":
		if in.Interval != "hour" && in.Interval != "day" {
			return nil, ErrInvalidInterval
		}
	default:
		return nil, ErrInvalidGroupBy
	}

	filter := ports.SummaryFilter{
		EventType: in.EventType,
		From:      in.From,
		To:        in.To,
		Owner:     in.Owner,
		GroupBy:   in.GroupBy,
		Interval:  in.Interval,
	}

	return uc.reader.QuerySummary(ctx, filter)
}
